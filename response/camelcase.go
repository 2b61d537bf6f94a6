package response

import "strings"

// ToCamelCase implements spec §4.8's exact algorithm: a single linear
// scan where an underscore sets an "uppercase next" flag rather than
// being copied itself, and the character following it is uppercased.
// Consecutive underscores collapse because the flag simply stays set
// until the next non-underscore rune. This is the inverse of
// plan.snakeCase/where.camelToSnake and satisfies the round-trip
// invariant to_camel_case(to_snake_case(s)) == s for canonical
// camelCase input (spec §8 invariant 7). Exported so package mutation
// can reuse it for updated_fields/metadata.errors key rewriting (spec
// §4.6), which needs the identical rewrite outside of a row transform.
func ToCamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := false
	for _, r := range s {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			r = toUpperASCII(r)
			upperNext = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toUpperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
