package selection

import (
	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/gqlsource"
)

// expandSelections implements Stage A: every `...Fragment` spread is
// replaced by its definition's selections, inline fragments are
// inlined, and branches whose type condition does not match currentType
// are dropped. path tracks the chain of fragment names currently being
// expanded (for cycle detection); it is reset to nil whenever descent
// moves into a genuine field's nested selection set, since a cycle is a
// property of a fragment spreading itself, not of reusing a fragment
// name at unrelated nesting levels.
func expandSelections(
	sels []gqlsource.FieldSelection,
	fragments map[string]gqlsource.FragmentDefinition,
	currentType string,
	opts Options,
	path []string,
) ([]gqlsource.FieldSelection, error) {
	visited := make(map[string]bool, len(path))
	for _, p := range path {
		visited[p] = true
	}

	out := make([]gqlsource.FieldSelection, 0, len(sels))
	for _, sel := range sels {
		switch {
		case sel.FragmentSpread != "":
			name := sel.FragmentSpread
			if visited[name] {
				return nil, fraiseql.NewFragmentCycleError(append(append([]string{}, path...), name))
			}
			frag, ok := fragments[name]
			if !ok {
				return nil, fraiseql.NewFragmentError(name, "no such fragment")
			}
			if !opts.matches(frag.TypeCondition, currentType) {
				continue
			}
			children, err := expandSelections(frag.Selections, fragments, frag.TypeCondition, opts, append(path, name))
			if err != nil {
				return nil, err
			}
			out = append(out, applyOuterDirectives(children, sel.Directives)...)

		case sel.InlineOn != "":
			if !opts.matches(sel.InlineOn, currentType) {
				continue
			}
			children, err := expandSelections(sel.Selections, fragments, sel.InlineOn, opts, path)
			if err != nil {
				return nil, err
			}
			out = append(out, applyOuterDirectives(children, sel.Directives)...)

		default:
			nested, err := expandSelections(sel.Selections, fragments, currentType, opts, nil)
			if err != nil {
				return nil, err
			}
			field := sel
			field.Selections = nested
			out = append(out, field)
		}
	}
	return out, nil
}

// applyOuterDirectives prepends a spread/inline fragment's own
// directives onto each of its expanded children, so a @skip/@include on
// the spread itself governs every field it expanded to.
func applyOuterDirectives(children []gqlsource.FieldSelection, outer []gqlsource.Directive) []gqlsource.FieldSelection {
	if len(outer) == 0 {
		return children
	}
	out := make([]gqlsource.FieldSelection, len(children))
	for i, c := range children {
		c.Directives = append(append([]gqlsource.Directive{}, outer...), c.Directives...)
		out[i] = c
	}
	return out
}
