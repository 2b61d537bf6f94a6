// Package gqlsource turns GraphQL request text into ParsedQuery, the
// language-neutral IR the selection processor and planner consume. It
// wraps github.com/vektah/gqlparser/v2, the corpus's GraphQL text
// parser, converting its AST into FraiseQL's own flat value types so
// nothing downstream depends on gqlparser's types directly.
package gqlsource

// OperationType is query | mutation | subscription (spec §3).
type OperationType string

const (
	OperationQuery        OperationType = "query"
	OperationMutation     OperationType = "mutation"
	OperationSubscription OperationType = "subscription"
)

// Argument is a name/value pair attached to a field selection or a
// directive. Value is already resolved against the request's variable
// map (literals pass through unchanged; $var references are
// substituted), so downstream stages never see a raw AST node.
//
// Directive arguments are the one exception: their Value may be a VarRef
// rather than a resolved literal, because spec §4.1 Stage B (not the
// parser) owns the "missing or non-boolean variable" DirectiveError.
type Argument struct {
	Name  string
	Value any
}

// VarRef marks a directive argument that referenced a request variable
// by name, left unresolved by the parser so package selection can apply
// spec §4.1's DirectiveError semantics.
type VarRef struct {
	Name string
}

// Directive is an applied @name(args) annotation.
type Directive struct {
	Name      string
	Arguments []Argument
}

// ByName returns the first directive named n, if present.
func ByName(directives []Directive, n string) (Directive, bool) {
	for _, d := range directives {
		if d.Name == n {
			return d, true
		}
	}
	return Directive{}, false
}

// FieldSelection is one field in a selection set, before fragment
// expansion and directive evaluation (package selection does both).
type FieldSelection struct {
	Name       string
	Alias      string
	Arguments  []Argument
	Selections []FieldSelection
	Directives []Directive

	// FragmentSpread/InlineOn carry raw spread information the
	// selection processor needs for Stage A; a finalised selection never
	// carries these (they are consumed and removed during expansion).
	FragmentSpread string // spread name, or "" if this is a real field
	InlineOn       string // inline fragment type condition, or ""
}

// IsSpread reports whether this node is a fragment spread or inline
// fragment rather than a concrete field.
func (f FieldSelection) IsSpread() bool {
	return f.FragmentSpread != "" || f.InlineOn != ""
}

// ResponseKey returns Alias if set, else Name (spec §3 Glossary).
func (f FieldSelection) ResponseKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// FragmentDefinition is a named, reusable selection set plus its type
// condition (spec §3).
type FragmentDefinition struct {
	Name          string
	TypeCondition string
	Selections    []FieldSelection
}

// VariableDefinition declares one operation variable and its default.
type VariableDefinition struct {
	Name         string
	Type         string
	DefaultValue any
}

// ParsedQuery is the parser's output (spec §3).
type ParsedQuery struct {
	OperationType OperationType
	OperationName string
	RootField     string

	Selections []FieldSelection
	Variables  []VariableDefinition
	Fragments  map[string]FragmentDefinition

	SourceText string
}
