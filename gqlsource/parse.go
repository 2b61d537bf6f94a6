package gqlsource

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/fraiseql/fraiseql-core"
)

// Parse parses GraphQL request text into a ParsedQuery. variables are
// the request's raw JSON variable map; argument/default values are
// resolved against them eagerly so downstream stages work with plain Go
// values ($var references already substituted).
func Parse(source string, operationName string, variables map[string]any) (*ParsedQuery, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: source, Name: "request"})
	if gqlErr != nil {
		line, col := 0, 0
		if len(gqlErr.Locations) > 0 {
			line, col = gqlErr.Locations[0].Line, gqlErr.Locations[0].Column
		}
		return nil, fraiseql.NewParseError(gqlErr.Message, line, col)
	}
	if len(doc.Operations) == 0 {
		return nil, fraiseql.NewValidationError("query", "empty query")
	}

	op, err := selectOperation(doc.Operations, operationName)
	if err != nil {
		return nil, err
	}

	fragments := make(map[string]FragmentDefinition, len(doc.Fragments))
	for _, fd := range doc.Fragments {
		sels, err := convertSelectionSet(fd.SelectionSet, variables)
		if err != nil {
			return nil, err
		}
		fragments[fd.Name] = FragmentDefinition{
			Name:          fd.Name,
			TypeCondition: fd.TypeCondition,
			Selections:    sels,
		}
	}

	selections, err := convertSelectionSet(op.SelectionSet, variables)
	if err != nil {
		return nil, err
	}

	rootField := ""
	if len(selections) > 0 {
		rootField = selections[0].Name
	}

	vars := make([]VariableDefinition, 0, len(op.VariableDefinitions))
	for _, vd := range op.VariableDefinitions {
		var def any
		if vd.DefaultValue != nil {
			def, err = vd.DefaultValue.Value(toGqlVars(variables))
			if err != nil {
				return nil, fraiseql.NewValidationError(vd.Variable, fmt.Sprintf("invalid default value: %v", err))
			}
		}
		vars = append(vars, VariableDefinition{
			Name:         vd.Variable,
			Type:         vd.Type.String(),
			DefaultValue: def,
		})
	}

	return &ParsedQuery{
		OperationType: OperationType(op.Operation),
		OperationName: op.Name,
		RootField:     rootField,
		Selections:    selections,
		Variables:     vars,
		Fragments:     fragments,
		SourceText:    source,
	}, nil
}

func selectOperation(ops ast.OperationList, name string) (*ast.OperationDefinition, error) {
	if name == "" {
		if len(ops) == 1 {
			return ops[0], nil
		}
		return nil, fraiseql.NewValidationError("operationName", "multiple operations in document but no operationName given")
	}
	for _, op := range ops {
		if op.Name == name {
			return op, nil
		}
	}
	return nil, fraiseql.NewValidationError(name, "no operation with this name")
}

func toGqlVars(vars map[string]any) map[string]any {
	if vars == nil {
		return map[string]any{}
	}
	return vars
}

func convertSelectionSet(set ast.SelectionSet, variables map[string]any) ([]FieldSelection, error) {
	out := make([]FieldSelection, 0, len(set))
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			args, err := convertArguments(s.Arguments, variables)
			if err != nil {
				return nil, err
			}
			dirs, err := convertDirectives(s.Directives, variables)
			if err != nil {
				return nil, err
			}
			nested, err := convertSelectionSet(s.SelectionSet, variables)
			if err != nil {
				return nil, err
			}
			out = append(out, FieldSelection{
				Name:       s.Name,
				Alias:      aliasOrEmpty(s),
				Arguments:  args,
				Selections: nested,
				Directives: dirs,
			})
		case *ast.FragmentSpread:
			dirs, err := convertDirectives(s.Directives, variables)
			if err != nil {
				return nil, err
			}
			out = append(out, FieldSelection{
				FragmentSpread: s.Name,
				Directives:     dirs,
			})
		case *ast.InlineFragment:
			dirs, err := convertDirectives(s.Directives, variables)
			if err != nil {
				return nil, err
			}
			nested, err := convertSelectionSet(s.SelectionSet, variables)
			if err != nil {
				return nil, err
			}
			out = append(out, FieldSelection{
				InlineOn:   s.TypeCondition,
				Selections: nested,
				Directives: dirs,
			})
		}
	}
	return out, nil
}

func aliasOrEmpty(f *ast.Field) string {
	if f.Alias != "" && f.Alias != f.Name {
		return f.Alias
	}
	return ""
}

func convertArguments(args ast.ArgumentList, variables map[string]any) ([]Argument, error) {
	out := make([]Argument, 0, len(args))
	for _, a := range args {
		v, err := a.Value.Value(toGqlVars(variables))
		if err != nil {
			return nil, fraiseql.NewValidationError(a.Name, fmt.Sprintf("argument coercion failed: %v", err))
		}
		out = append(out, Argument{Name: a.Name, Value: v})
	}
	return out, nil
}

func convertDirectives(dirs ast.DirectiveList, variables map[string]any) ([]Directive, error) {
	out := make([]Directive, 0, len(dirs))
	for _, d := range dirs {
		args := make([]Argument, 0, len(d.Arguments))
		for _, a := range d.Arguments {
			if a.Value.Kind == ast.Variable {
				args = append(args, Argument{Name: a.Name, Value: VarRef{Name: a.Value.Raw}})
				continue
			}
			v, err := a.Value.Value(toGqlVars(variables))
			if err != nil {
				return nil, fraiseql.NewValidationError(a.Name, fmt.Sprintf("argument coercion failed: %v", err))
			}
			args = append(args, Argument{Name: a.Name, Value: v})
		}
		out = append(out, Directive{Name: d.Name, Arguments: args})
	}
	return out, nil
}
