package plan

import (
	"strings"

	"github.com/fraiseql/fraiseql-core/selection"
)

// fieldPaths computes the dot-joined, snake_case field-path set from a
// finalised selection set (spec §4.3 step 2: "nested object fields
// produce nested paths"). Paths are built from each selection's Name,
// not its response key: Name (snake-cased) identifies the underlying
// JSONB key the response builder's projection pruning (spec §4.5) must
// match against, while an alias only renames the key in the final
// output. Both intermediate object-field paths and scalar leaf paths
// are included, since projection needs to know which nested objects
// were requested at all, not only their leaves.
func fieldPaths(sels []selection.ResolvedSelection) []string {
	var out []string
	collectFieldPaths(sels, "", &out)
	return out
}

func collectFieldPaths(sels []selection.ResolvedSelection, prefix string, out *[]string) {
	for _, sel := range sels {
		path := snakeCase(sel.Name)
		if prefix != "" {
			path = prefix + "." + path
		}
		*out = append(*out, path)
		if len(sel.Selections) > 0 {
			collectFieldPaths(sel.Selections, path, out)
		}
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
