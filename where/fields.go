// Package where implements the WHERE-Clause Normaliser (spec §4.2): it
// turns a nested object-shape GraphQL WHERE input into a parameterised
// SQL fragment, using a data-driven operator catalogue rather than a
// growing switch (spec §6.5).
package where

import (
	"regexp"
	"strings"

	"github.com/fraiseql/fraiseql-core/schema"
)

// validIdentifierRe matches the same safety discipline as
// dialect/sql.IsValidIdentifier: column and path-segment names that get
// interpolated into SQL text (never bound as parameters) must look like
// SQL identifiers.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// FieldMap describes the view a WHERE input is normalised against: its
// known SQL columns, its foreign-key shortcuts, and the JSONB column
// fallback every other field resolves against (spec §4.2 field
// resolution discipline).
type FieldMap struct {
	// SQLColumns is the set of column names directly addressable on the
	// view (already snake_case).
	SQLColumns map[string]bool
	// FKMappings maps a GraphQL field name to the FK column it shortcuts
	// to, e.g. "author" -> "author_id".
	FKMappings map[string]string
	// JSONBColumn is the column every field not in SQLColumns/FKMappings
	// is resolved against as a JSON path.
	JSONBColumn string
	// Encrypted holds per-field encryption info for fields that require
	// plan-time operator restriction (spec/SPEC_FULL §3 EncryptionMarker).
	Encrypted map[string]schema.EncryptionInfo
	// ColumnKinds optionally tags a sql_columns entry with the family
	// ("network", "range", "ltree", "text") needed to disambiguate
	// operator names the catalogue reuses across families (spec §6.5:
	// "contains"/"contained_by"/"overlaps"/"strictly_left_of"/
	// "strictly_right_of"/"matches" each appear in more than one family).
	// Fields resolved through the JSONB fallback carry no kind: those
	// ambiguous names resolve to the text family there.
	ColumnKinds map[string]string
}

// target is a resolved left-hand side: either a bare column reference or
// a JSONB path extraction, plus bookkeeping needed to pick the right
// operator family and to apply encrypted-field restrictions.
type target struct {
	expr       string
	familyHint string
	encrypted  *schema.EncryptionInfo
}

// camelToSnake converts a camelCase (or PascalCase) identifier to
// snake_case, once, before sql_columns/fk_mappings lookup (spec §4.2).
func camelToSnake(s string) string {
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

func quoteIdent(name string) string {
	if !isValidIdentifier(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

// jsonbExpr builds a chained jsonb_column->'p1'->'p2'->...->>'pN'
// extraction (text cast) or ->'pN' subtree extraction when extractText
// is false, per spec §4.2/§8 scenario S3's literal expected SQL
// (chained arrows, not the #> array-path form).
func jsonbExpr(jsonbColumn string, path []string, extractText bool) string {
	col := quoteIdent(jsonbColumn)
	if len(path) == 0 {
		return col
	}
	var b strings.Builder
	b.WriteString(col)
	for i, seg := range path {
		if i == len(path)-1 && extractText {
			b.WriteString("->>'")
		} else {
			b.WriteString("->'")
		}
		b.WriteString(escapePathSegment(seg))
		b.WriteByte('\'')
	}
	return b.String()
}

func escapePathSegment(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
