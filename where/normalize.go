package where

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fraiseql/fraiseql-core"
)

// NormalizedWhere is the Normaliser's output: a SQL fragment (without a
// leading "WHERE") and its positional parameter vector, $1-indexed left
// to right in the order conditions were emitted (spec §4.2).
type NormalizedWhere struct {
	SQL    string
	Params []any
}

// paramState accumulates bound parameters across an entire WHERE input so
// placeholder numbers stay correct through nested AND/OR/NOT recursion.
type paramState struct {
	params []any
}

func (ps *paramState) bind(values []any) []string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		ps.params = append(ps.params, v)
		placeholders[i] = fmt.Sprintf("$%d", len(ps.params))
	}
	return placeholders
}

// Normalize converts a nested object-shape WHERE input into a
// NormalizedWhere against fm. A nil or empty input yields an empty
// NormalizedWhere (spec §4.2 "Output: empty NormalizedWhere if no
// conditions").
func Normalize(input map[string]any, fm FieldMap) (*NormalizedWhere, error) {
	if len(input) == 0 {
		return &NormalizedWhere{}, nil
	}
	ps := &paramState{}
	sql, err := clause(input, fm, nil, ps)
	if err != nil {
		return nil, err
	}
	return &NormalizedWhere{SQL: sql, Params: ps.params}, nil
}

// clause normalises one object level: AND is the implicit combinator
// between sibling keys; OR and NOT are reserved at any level (spec
// §4.2). path is the JSONB path accumulated so far ("" at the top
// level, meaning sql_columns/fk_mappings are still in scope).
func clause(obj map[string]any, fm FieldMap, path []string, ps *paramState) (string, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		val := obj[key]
		switch key {
		case "OR":
			frag, err := orClause(val, fm, path, ps)
			if err != nil {
				return "", err
			}
			parts = append(parts, frag)
		case "NOT":
			cm, ok := val.(map[string]any)
			if !ok {
				return "", fraiseql.NewValidationError("NOT", "operand must be a clause object")
			}
			inner, err := clause(cm, fm, path, ps)
			if err != nil {
				return "", err
			}
			parts = append(parts, "NOT ("+inner+")")
		default:
			frag, err := fieldClause(key, val, fm, path, ps)
			if err != nil {
				return "", err
			}
			parts = append(parts, frag)
		}
	}
	return strings.Join(parts, " AND "), nil
}

func orClause(val any, fm FieldMap, path []string, ps *paramState) (string, error) {
	arr, ok := val.([]any)
	if !ok {
		return "", fraiseql.NewValidationError("OR", "operand must be a list of clause objects")
	}
	sub := make([]string, 0, len(arr))
	for _, c := range arr {
		cm, ok := c.(map[string]any)
		if !ok {
			return "", fraiseql.NewValidationError("OR", "each element must be a clause object")
		}
		frag, err := clause(cm, fm, path, ps)
		if err != nil {
			return "", err
		}
		sub = append(sub, "("+frag+")")
	}
	return "(" + strings.Join(sub, " OR ") + ")", nil
}

// fieldClause resolves a single field key per the spec §4.2 discipline
// (sql_columns -> fk_mappings shortcut -> JSONB path fallback) and either
// dispatches its operator map or continues descending the JSONB path.
func fieldClause(key string, val any, fm FieldMap, path []string, ps *paramState) (string, error) {
	valMap, ok := val.(map[string]any)
	if !ok {
		return "", fraiseql.NewValidationError(key, "field operand must be an object of operators")
	}

	name := camelToSnake(key)
	topLevel := len(path) == 0

	if topLevel && fm.SQLColumns[name] {
		t := target{expr: quoteIdent(name), familyHint: fm.ColumnKinds[name]}
		if enc, ok2 := fm.Encrypted[name]; ok2 {
			t.encrypted = &enc
		}
		return dispatch(t, valMap, ps)
	}

	if topLevel {
		if fkCol, ok2 := fm.FKMappings[key]; ok2 {
			if idVal, single := singleOperand(valMap, "id"); single {
				return applyOperator(target{expr: quoteIdent(fkCol)}, "eq", idVal, ps)
			}
		}
	}

	newPath := append(append([]string{}, path...), name)
	if isOperatorMap(valMap) {
		// Extraction mode: a leaf that is only ever addressed through a
		// jsonb-exclusive operator (has_key, has_keys, ...) needs the raw
		// JSON subtree (->); everything else - including the
		// cross-family "contains"/"contained_by"/"overlaps" names, which
		// default to their text-family (LIKE-based) meaning here - is
		// extracted as text (->>), matching the common case of a
		// scalar value nested in the JSONB column.
		extractText := !hasJSONBExclusiveOperator(valMap)
		t := target{expr: jsonbExpr(fm.JSONBColumn, newPath, extractText)}
		return dispatch(t, valMap, ps)
	}
	return clause(valMap, fm, newPath, ps)
}

// singleOperand reports whether m has exactly one key, name, returning
// its value (spec §4.2 step 2: "a value whose single operand is id").
func singleOperand(m map[string]any, name string) (any, bool) {
	if len(m) != 1 {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

// isOperatorMap reports whether every key of m is a registered operator
// name, i.e. m is a terminal operator-dispatch map rather than a
// continuation of the JSONB path.
func isOperatorMap(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		if !knownOperator(k) {
			return false
		}
	}
	return true
}

// hasJSONBExclusiveOperator reports whether m uses an operator that only
// ever means "raw JSONB subtree" (has_key, has_keys, has_any_keys,
// path_exists, path_contains), as opposed to a name the catalogue also
// defines for other families.
func hasJSONBExclusiveOperator(m map[string]any) bool {
	for k := range m {
		if ops, ok := catalog[k]; ok && len(ops) == 1 && ops[0].Family == "jsonb" {
			return true
		}
	}
	return false
}

// dispatch applies every operator in valMap against t, AND-combining the
// results; an encrypted target restricts dispatch to the equality family
// rewritten onto its deterministic-hash column (SPEC_FULL §3).
func dispatch(t target, valMap map[string]any, ps *paramState) (string, error) {
	names := make([]string, 0, len(valMap))
	for k := range valMap {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		frag, err := applyEncryptionAware(t, name, valMap[name], ps)
		if err != nil {
			return "", err
		}
		parts = append(parts, frag)
	}
	return strings.Join(parts, " AND "), nil
}

func applyEncryptionAware(t target, name string, raw any, ps *paramState) (string, error) {
	if t.encrypted == nil {
		return applyOperator(t, name, raw, ps)
	}
	if !isEqualityOp(name) {
		return "", fraiseql.NewValidationError(name,
			fmt.Sprintf("operator %q is not permitted against an encrypted field; use an equality operator against its deterministic-hash column, or query a plaintext index field instead", name))
	}
	if t.encrypted.DeterministicHashColumn == "" {
		return "", fraiseql.NewValidationError(name,
			"field is encrypted with no deterministic-hash column; it cannot be filtered on directly")
	}
	hashTarget := target{expr: quoteIdent(t.encrypted.DeterministicHashColumn)}
	return applyOperator(hashTarget, name, raw, ps)
}

func applyOperator(t target, name string, raw any, ps *paramState) (string, error) {
	op, err := resolveOperator(name, t.familyHint)
	if err != nil {
		return "", fraiseql.NewValidationError(name, err.Error())
	}
	values, err := op.Coerce(raw)
	if err != nil {
		return "", fraiseql.NewValidationError(name, err.Error())
	}
	placeholders := ps.bind(values)
	return op.Render(t.expr, placeholders), nil
}
