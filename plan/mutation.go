package plan

import (
	"fmt"
	"strings"

	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/schema"
)

// mutationResultAlias is the single JSONB column every mutation
// statement must project, per spec §4.3's mutation contract: "expect a
// single JSONB column `mutation_result` in the returned row."
const mutationResultAlias = "mutation_result"

// PlanMutation implements spec §4.3's mutation planning: it renders the
// Insert{table} | Function{name} | Custom operation into one
// parameterised SQL statement binding args positionally in the
// mutation's declared Arguments order.
func PlanMutation(m *schema.MutationDefinition, args map[string]any) (*QueryPlan, error) {
	switch m.Operation.Kind {
	case schema.MutationInsert:
		return planInsert(m, args)
	case schema.MutationFunction:
		return planFunction(m, args)
	case schema.MutationCustom:
		return planCustom(m, args)
	default:
		return nil, fraiseql.NewPlanError(m.Name, "unknown mutation operation kind")
	}
}

// orderedArgs resolves m's declared arguments against args, positionally,
// erroring on a missing non-nullable argument.
func orderedArgs(m *schema.MutationDefinition, args map[string]any) ([]any, error) {
	bound := make([]any, 0, len(m.Arguments))
	for _, a := range m.Arguments {
		v, ok := args[a.Name]
		if !ok || v == nil {
			if !a.Nullable {
				return nil, fraiseql.NewPlanError(m.Name, fmt.Sprintf("missing required argument %q", a.Name))
			}
			v = nil
		}
		bound = append(bound, v)
	}
	return bound, nil
}

// planInsert renders an INSERT ... VALUES statement over the mutation's
// arguments (column names taken from the argument names, snake_cased),
// returning the freshly inserted row as JSONB. to_jsonb(table.*) is this
// planner's concrete choice for satisfying the mutation_result contract,
// since MutationOperation carries no jsonb_column of its own the way a
// TypeDefinition does.
func planInsert(m *schema.MutationDefinition, args map[string]any) (*QueryPlan, error) {
	bound, err := orderedArgs(m, args)
	if err != nil {
		return nil, err
	}

	cols := make([]string, len(m.Arguments))
	placeholders := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		cols[i] = quoteIdent(snakeCase(a.Name))
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	table := quoteIdent(m.Operation.Table)
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING to_jsonb(%s.*) AS %s",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), table, mutationResultAlias,
	)

	return &QueryPlan{
		SQL:      sql,
		Params:   bound,
		TypeName: m.ReturnType,
	}, nil
}

// planFunction renders a SELECT fn($1, $2, ...) call against a
// registered SQL function, aliasing its result to mutation_result.
func planFunction(m *schema.MutationDefinition, args map[string]any) (*QueryPlan, error) {
	bound, err := orderedArgs(m, args)
	if err != nil {
		return nil, err
	}

	placeholders := make([]string, len(m.Arguments))
	for i := range m.Arguments {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sql := fmt.Sprintf(
		"SELECT %s(%s) AS %s",
		quoteIdent(m.Operation.Name), strings.Join(placeholders, ", "), mutationResultAlias,
	)

	return &QueryPlan{
		SQL:      sql,
		Params:   bound,
		TypeName: m.ReturnType,
	}, nil
}

// customStatementArg is the reserved argument key a Custom mutation's
// caller supplies its raw SQL text under; spec §4.3 describes Custom as
// "a user-supplied statement adhering to the same shape" without
// prescribing how that statement reaches the planner, so a reserved
// argument name (excluded from the mutation's own declared Arguments)
// is this planner's concrete choice.
const customStatementArg = "__statement"

// planCustom binds a caller-supplied statement positionally against the
// mutation's declared Arguments, trusting the caller to have written a
// statement that already projects mutation_result — the planner does
// not rewrite or validate the statement text itself.
func planCustom(m *schema.MutationDefinition, args map[string]any) (*QueryPlan, error) {
	stmt, ok := args[customStatementArg].(string)
	if !ok || strings.TrimSpace(stmt) == "" {
		return nil, fraiseql.NewPlanError(m.Name, "custom mutation requires a statement")
	}

	bound, err := orderedArgs(m, args)
	if err != nil {
		return nil, err
	}

	return &QueryPlan{
		SQL:      stmt,
		Params:   bound,
		TypeName: m.ReturnType,
	}, nil
}
