package where

import "fmt"

// CoerceFunc converts a raw WHERE-input operand into the ordered list of
// values that get bound as parameters (0 for null checks, 1 for most
// scalar operators, N for set/range/vector operators).
type CoerceFunc func(raw any) ([]any, error)

// RenderFunc builds the SQL fragment for an operator given its resolved
// left-hand expression and the already-numbered placeholders ("$3", ...)
// for the values CoerceFunc returned, in order.
type RenderFunc func(expr string, placeholders []string) string

// Operator is one entry of the closed operator catalogue (spec §6.5): a
// name, a family, a parameter-coercion function, and a SQL template. New
// operators are added by registering an entry here, never by growing a
// switch.
type Operator struct {
	Name   string
	Family string
	Coerce CoerceFunc
	Render RenderFunc
}

// catalog maps an operator name to every family that defines it. Most
// names resolve to exactly one family; a handful ("contains",
// "contained_by", "overlaps", "strictly_left_of", "strictly_right_of",
// "matches", "match") are deliberately reused across the text, JSONB,
// network, range, ltree, full-text and vector families, mirroring how
// PostgreSQL itself overloads `@>`/`<@`/`&&`/`<<`/`>>` by operand type
// (spec §6.5's catalogue table lists them more than once for the same
// reason). Dispatch for those names is resolved by the target field's
// declared kind, falling back to the text family; see resolveOperator.
var catalog = buildCatalog()

func buildCatalog() map[string][]Operator {
	ops := make(map[string][]Operator)
	register := func(group map[string]Operator) {
		for name, op := range group {
			op.Name = name
			ops[name] = append(ops[name], op)
		}
	}
	register(equalityOperators())
	register(orderOperators())
	register(setOperators())
	register(textOperators())
	register(arrayOperators())
	register(jsonbOperators())
	register(networkOperators())
	register(ltreeOperators())
	register(rangeOperators())
	register(fullTextOperators())
	register(vectorOperators())
	return ops
}

// resolveOperator picks the Operator for name given a family hint ("" if
// the caller has no basis for disambiguation). If name is unambiguous
// the hint is ignored.
func resolveOperator(name, familyHint string) (Operator, error) {
	candidates, ok := catalog[name]
	if !ok {
		return Operator{}, fmt.Errorf("unknown WHERE operator %q", name)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if familyHint != "" {
		for _, c := range candidates {
			if c.Family == familyHint {
				return c, nil
			}
		}
	}
	// Plain SQL columns default to the text family when no column kind
	// was declared: a bare varchar/text column is the common case, and
	// network/range/ltree columns are expected to set ColumnKinds.
	for _, c := range candidates {
		if c.Family == "text" {
			return c, nil
		}
	}
	return Operator{}, fmt.Errorf("operator %q is ambiguous across families; declare the field's column kind", name)
}

// isEqualityOp reports whether name is eq or neq; these are the only
// operators permitted against an encrypted field rewritten onto its
// deterministic-hash column (SPEC_FULL §3 EncryptionMarker).
func isEqualityOp(name string) bool {
	return name == "eq" || name == "neq"
}

// knownOperator reports whether name is registered at all, regardless of
// family ambiguity; used to decide whether a WHERE-input key introduces
// a terminal operator map or continues a JSONB path.
func knownOperator(name string) bool {
	_, ok := catalog[name]
	return ok
}

func noParams(raw any) ([]any, error) {
	return nil, nil
}
