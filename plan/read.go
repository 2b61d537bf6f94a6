package plan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/schema"
	"github.com/fraiseql/fraiseql-core/selection"
	"github.com/fraiseql/fraiseql-core/where"
)

// PlanQuery implements spec §4.3's read-query planning steps against a
// single compiled query definition, its resolved argument bindings, and
// its finalised selection set.
func PlanQuery(cs *schema.CompiledSchema, q *schema.QueryDefinition, sel *selection.ProcessedQuery, args map[string]any) (*QueryPlan, error) {
	var params []any
	sql := fmt.Sprintf("SELECT %s FROM %s", quoteIdent(jsonbColumnFor(cs, q)), quoteIdent(q.SQLSource))

	whereSQL, whereParams, err := planWhere(cs, q, args)
	if err != nil {
		return nil, err
	}
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
		params = append(params, whereParams...)
	}

	if q.AutoParams.HasOrderBy {
		if raw, ok := args["orderBy"]; ok && raw != nil {
			clause, err := planOrderBy(raw)
			if err != nil {
				return nil, err
			}
			if clause != "" {
				sql += " ORDER BY " + clause
			}
		}
	}

	if q.AutoParams.HasLimit {
		if raw, ok := args["limit"]; ok && raw != nil {
			params = append(params, raw)
			sql += fmt.Sprintf(" LIMIT $%d", len(params))
		}
	}

	if q.AutoParams.HasOffset {
		if raw, ok := args["offset"]; ok && raw != nil {
			params = append(params, raw)
			sql += fmt.Sprintf(" OFFSET $%d", len(params))
		}
	}

	return &QueryPlan{
		SQL:         sql,
		Params:      params,
		FieldPaths:  fieldPaths(sel.Selections),
		TypeName:    q.ReturnType,
		ReturnsList: q.ReturnsList,
		Nullable:    q.Nullable,
	}, nil
}

// planWhere normalises the "where" argument, if the query declares it
// and the caller supplied one.
func planWhere(cs *schema.CompiledSchema, q *schema.QueryDefinition, args map[string]any) (string, []any, error) {
	if !q.AutoParams.HasWhere {
		return "", nil, nil
	}
	raw, ok := args["where"]
	if !ok || raw == nil {
		return "", nil, nil
	}
	whereInput, ok := raw.(map[string]any)
	if !ok {
		return "", nil, fraiseql.NewPlanError("where", "where argument must be an object")
	}

	fm, err := fieldMapFor(cs, q.ReturnType)
	if err != nil {
		return "", nil, err
	}
	nw, err := where.Normalize(whereInput, fm)
	if err != nil {
		return "", nil, err
	}
	return nw.SQL, nw.Params, nil
}

// fieldMapFor builds a where.FieldMap from the TypeDefinition a query's
// return type resolves to (unwrapping "list of T" is the caller's
// responsibility via q.ReturnType naming the element type directly, per
// schema.QueryDefinition's shape).
func fieldMapFor(cs *schema.CompiledSchema, typeName string) (where.FieldMap, error) {
	t, ok := cs.TypeByName(typeName)
	if !ok {
		return where.FieldMap{}, fraiseql.NewPlanError("where", fmt.Sprintf("unknown return type %q", typeName))
	}

	sqlColumns := make(map[string]bool, len(t.SQLColumns))
	for _, c := range t.SQLColumns {
		sqlColumns[c] = true
	}

	encrypted := make(map[string]schema.EncryptionInfo)
	for _, f := range t.Fields {
		if f.Encrypted != nil {
			encrypted[snakeCase(f.Name)] = *f.Encrypted
		}
	}

	return where.FieldMap{
		SQLColumns:  sqlColumns,
		FKMappings:  t.FKMappings,
		JSONBColumn: t.JSONBColumn,
		Encrypted:   encrypted,
		ColumnKinds: t.ColumnKinds,
	}, nil
}

// jsonbColumnFor resolves the JSONB column the read query projects: the
// return type's own column, or, when the return type names a fact table
// rather than a type, that fact table's jsonb_column; "data" otherwise.
func jsonbColumnFor(cs *schema.CompiledSchema, q *schema.QueryDefinition) string {
	if t, ok := cs.TypeByName(q.ReturnType); ok {
		return t.JSONBColumn
	}
	if ft, ok := cs.FactTables[q.ReturnType]; ok {
		return ft.JSONBColumn
	}
	return "data"
}

// planOrderBy accepts a list of {field, direction} objects (direction
// defaults to "asc") and renders "col1 ASC, col2 DESC". This shape is
// not pinned down further by spec §4.3 beyond "order_by ... appended as
// an SQL clause"; list-of-field/direction objects is this planner's
// concrete choice.
func planOrderBy(raw any) (string, error) {
	items, ok := raw.([]any)
	if !ok {
		return "", fraiseql.NewPlanError("orderBy", "orderBy argument must be a list")
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return "", fraiseql.NewPlanError("orderBy", "each orderBy entry must be an object with field/direction")
		}
		field, ok := m["field"].(string)
		if !ok || field == "" {
			return "", fraiseql.NewPlanError("orderBy", "orderBy entry missing field")
		}
		dir := "ASC"
		if d, ok := m["direction"].(string); ok {
			switch strings.ToLower(d) {
			case "desc":
				dir = "DESC"
			case "asc", "":
				dir = "ASC"
			default:
				return "", fraiseql.NewPlanError("orderBy", fmt.Sprintf("unknown sort direction %q", d))
			}
		}
		parts = append(parts, quoteIdent(snakeCase(field))+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

// validIdentifierRe mirrors dialect/sql.IsValidIdentifier: SQL source
// names, view names, and JSONB column names are interpolated into SQL
// text (they can never be bound as parameters), so they are validated
// against an identifier pattern and quoted otherwise.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

func quoteIdent(name string) string {
	if name != "" && len(name) <= 128 && validIdentifierRe.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
