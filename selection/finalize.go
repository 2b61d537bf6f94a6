package selection

import (
	"reflect"

	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/gqlsource"
)

// finalize implements Stage C: selections sharing a response key are
// merged (their nested selection sets concatenated and themselves
// deduplicated); selections sharing a key with unequal arguments are a
// ProcessingError.
func finalize(sels []gqlsource.FieldSelection) ([]ResolvedSelection, error) {
	type group struct {
		first  gqlsource.FieldSelection
		nested []gqlsource.FieldSelection
	}

	order := make([]string, 0, len(sels))
	groups := make(map[string]*group, len(sels))

	for _, sel := range sels {
		key := sel.ResponseKey()
		g, ok := groups[key]
		if !ok {
			g = &group{first: sel}
			groups[key] = g
			order = append(order, key)
		} else if !argumentsEqual(g.first.Arguments, sel.Arguments) {
			return nil, fraiseql.NewProcessingError(key, "cannot merge fields that query different arguments")
		}
		g.nested = append(g.nested, sel.Selections...)
	}

	out := make([]ResolvedSelection, 0, len(order))
	for _, key := range order {
		g := groups[key]
		mergedNested, err := finalize(g.nested)
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedSelection{
			Name:       g.first.Name,
			Alias:      g.first.Alias,
			Arguments:  g.first.Arguments,
			Selections: mergedNested,
			Directives: g.first.Directives,
		})
	}
	return out, nil
}

func argumentsEqual(a, b []gqlsource.Argument) bool {
	if len(a) != len(b) {
		return false
	}
	am := argMap(a)
	bm := argMap(b)
	if len(am) != len(bm) {
		return false
	}
	for k, v := range am {
		bv, ok := bm[k]
		if !ok || !reflect.DeepEqual(v, bv) {
			return false
		}
	}
	return true
}

func argMap(args []gqlsource.Argument) map[string]any {
	m := make(map[string]any, len(args))
	for _, a := range args {
		m[a.Name] = a.Value
	}
	return m
}
