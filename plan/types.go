// Package plan implements the Query Planner (spec §4.3): it turns a
// processed selection set and its compiled query/mutation definition
// into a QueryPlan — a single parameterised SQL statement ready for the
// executor.
package plan

// QueryPlan is the planner's output: one SQL statement, its positional
// parameter vector, the field-path set the response builder projects
// against, and the metadata needed to shape the GraphQL response
// envelope (spec §4.3 step 6).
type QueryPlan struct {
	SQL         string
	Params      []any
	FieldPaths  []string
	TypeName    string
	ReturnsList bool
	Nullable    bool
}
