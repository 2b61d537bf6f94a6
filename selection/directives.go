package selection

import (
	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/gqlsource"
)

// evaluateDirectives implements Stage B: resolves @skip/@include on
// every selection, recursing into nested selections before dropping
// (so a DirectiveError anywhere in the tree is reported even if an
// ancestor selection ends up omitted).
func evaluateDirectives(sels []gqlsource.FieldSelection, variables map[string]any) ([]gqlsource.FieldSelection, error) {
	out := make([]gqlsource.FieldSelection, 0, len(sels))
	for _, sel := range sels {
		nested, err := evaluateDirectives(sel.Selections, variables)
		if err != nil {
			return nil, err
		}
		sel.Selections = nested

		keep, err := keepSelection(sel.Directives, variables)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, sel)
		}
	}
	return out, nil
}

// keepSelection resolves "NOT skip AND include" for one selection's
// directive list (spec §4.1 Stage B).
func keepSelection(directives []gqlsource.Directive, variables map[string]any) (bool, error) {
	skip := false
	include := true

	if d, ok := gqlsource.ByName(directives, "skip"); ok {
		v, err := resolveIfArg(d, variables)
		if err != nil {
			return false, err
		}
		skip = v
	}
	if d, ok := gqlsource.ByName(directives, "include"); ok {
		v, err := resolveIfArg(d, variables)
		if err != nil {
			return false, err
		}
		include = v
	}
	return !skip && include, nil
}

func resolveIfArg(d gqlsource.Directive, variables map[string]any) (bool, error) {
	arg, ok := argByName(d.Arguments, "if")
	if !ok {
		return false, fraiseql.NewDirectiveError(d.Name, "if", "missing required argument")
	}

	value := arg.Value
	if ref, isRef := value.(gqlsource.VarRef); isRef {
		raw, present := variables[ref.Name]
		if !present {
			return false, fraiseql.NewDirectiveError(d.Name, "if", "undefined variable $"+ref.Name)
		}
		value = raw
	}

	b, ok := value.(bool)
	if !ok {
		return false, fraiseql.NewDirectiveError(d.Name, "if", "argument is not a boolean")
	}
	return b, nil
}

func argByName(args []gqlsource.Argument, name string) (gqlsource.Argument, bool) {
	for _, a := range args {
		if a.Name == name {
			return a, true
		}
	}
	return gqlsource.Argument{}, false
}
