// Package response implements the Response Builder (spec §4.5): it
// turns executor-yielded JSONB rows into the GraphQL response envelope
// (spec §6.3), injecting __typename for named-type instances, rewriting
// keys to camelCase, and pruning to the requested field-path projection.
// Where no projection and no type name are in play, building skips
// parsing entirely and concatenates bytes straight into the envelope
// (spec §9's "JSON-everywhere on the hot path" design note).
package response

import (
	"bytes"
	"encoding/json"

	"github.com/fraiseql/fraiseql-core/schema"
)

// Builder builds response envelopes against a compiled schema, used to
// resolve a selected field's nested object type for __typename
// injection (spec §4.5: "relies on a type hint propagated through the
// selection tree"; here the hint is derived on demand from the schema
// rather than carried on every selection node).
type Builder struct {
	schema *schema.CompiledSchema
}

// NewBuilder constructs a Builder bound to a compiled schema.
func NewBuilder(cs *schema.CompiledSchema) *Builder {
	return &Builder{schema: cs}
}

// BuildListResponse builds `{"data":{rootField:[...]}}` from a sequence
// of JSONB rows. When typeName is empty and no field paths were
// requested, rows are concatenated byte-for-byte without being parsed.
func (b *Builder) BuildListResponse(rootField, typeName string, rows []json.RawMessage, paths []string) (json.RawMessage, error) {
	if typeName == "" && len(paths) == 0 {
		return fastConcatList(rootField, rows), nil
	}
	allowed := allowedSet(paths)
	list := make([]any, len(rows))
	for i, raw := range rows {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		list[i] = b.transformValue(v, typeName, allowed, "")
	}
	return marshalEnvelope(rootField, list)
}

// BuildSingleResponse builds `{"data":{rootField:{...}}}` from a single
// JSONB row.
func (b *Builder) BuildSingleResponse(rootField, typeName string, row json.RawMessage, paths []string) (json.RawMessage, error) {
	if typeName == "" && len(paths) == 0 {
		return fastConcatSingle(rootField, row), nil
	}
	var v any
	if err := json.Unmarshal(row, &v); err != nil {
		return nil, err
	}
	allowed := allowedSet(paths)
	out := b.transformValue(v, typeName, allowed, "")
	return marshalEnvelope(rootField, out)
}

// Transform parses raw and applies __typename injection/camelCase key
// rewriting against typeName, returning the transformed value with no
// envelope wrapper. Exported for package mutation (spec §4.6), which
// shapes a mutation's entity field the same way a query row is shaped
// (spec §4.6: "transform injects __typename and rewrites keys as per
// §4.5") but assembles its own union payload around the result.
func (b *Builder) Transform(raw json.RawMessage, typeName string) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return b.transformValue(v, typeName, nil, ""), nil
}

// BuildEmptyArrayResponse builds `{"data":{rootField:[]}}` for a list
// query that matched no rows.
func BuildEmptyArrayResponse(rootField string) json.RawMessage {
	return []byte(`{"data":{"` + rootField + `":[]}}`)
}

// BuildNullResponse builds `{"data":{rootField:null}}` for a single
// query that matched no row.
func BuildNullResponse(rootField string) json.RawMessage {
	return []byte(`{"data":{"` + rootField + `":null}}`)
}

func marshalEnvelope(rootField string, payload any) (json.RawMessage, error) {
	return json.Marshal(map[string]any{"data": map[string]any{rootField: payload}})
}

func fastConcatList(rootField string, rows []json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	size := len(rootField) + 16
	for _, r := range rows {
		size += len(r) + 1
	}
	buf.Grow(size)
	buf.WriteString(`{"data":{"`)
	buf.WriteString(rootField)
	buf.WriteString(`":[`)
	for i, r := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(r)
	}
	buf.WriteString(`]}}`)
	return buf.Bytes()
}

func fastConcatSingle(rootField string, row json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.Grow(len(row) + len(rootField) + 16)
	buf.WriteString(`{"data":{"`)
	buf.WriteString(rootField)
	buf.WriteString(`":`)
	buf.Write(row)
	buf.WriteString(`}}`)
	return buf.Bytes()
}

// allowedSet expands a dot-joined field-path list into the set of every
// prefix it implies, so a nested leaf's ancestors stay visible during
// pruning even if a caller only passed leaf paths.
func allowedSet(paths []string) map[string]bool {
	if len(paths) == 0 {
		return nil
	}
	set := make(map[string]bool, len(paths)*2)
	for _, p := range paths {
		for i := 0; i <= len(p); i++ {
			if i == len(p) || p[i] == '.' {
				set[p[:i]] = true
			}
		}
	}
	return set
}

// transformValue applies __typename injection, camelCase key rewriting,
// and projection pruning recursively. typeName is the GraphQL type of v
// itself (empty for scalars/untyped values); prefix is the dot-joined
// snake_case path of v within the row being transformed.
func (b *Builder) transformValue(v any, typeName string, allowed map[string]bool, prefix string) any {
	switch val := v.(type) {
	case map[string]any:
		return b.transformObject(val, typeName, allowed, prefix)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = b.transformValue(e, typeName, allowed, prefix)
		}
		return out
	default:
		return val
	}
}

func (b *Builder) transformObject(obj map[string]any, typeName string, allowed map[string]bool, prefix string) map[string]any {
	out := make(map[string]any, len(obj)+1)
	if typeName != "" {
		if existing, ok := obj["__typename"]; ok {
			out["__typename"] = existing
		} else {
			out["__typename"] = typeName
		}
	}
	for k, v := range obj {
		if k == "__typename" {
			continue
		}
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if allowed != nil && !allowed[path] {
			continue
		}
		childType, _ := b.childType(typeName, k)
		out[ToCamelCase(k)] = b.transformValue(v, childType, allowed, path)
	}
	return out
}

// childType resolves the named object type of fieldName on typeName,
// unwrapping any List() layers (spec §3's FieldType sum). Returns ("",
// false) for scalar fields or when typeName/fieldName can't be
// resolved against the compiled schema (permissive, matching the
// planner's own "unknown fields pass through as JSONB paths" stance).
func (b *Builder) childType(typeName, fieldName string) (string, bool) {
	if b.schema == nil || typeName == "" {
		return "", false
	}
	t, ok := b.schema.TypeByName(typeName)
	if !ok {
		return "", false
	}
	f, ok := t.FieldByName(fieldName)
	if !ok {
		return "", false
	}
	ft := f.Type
	for ft.Kind == schema.KindList {
		if ft.Elem == nil {
			return "", false
		}
		ft = *ft.Elem
	}
	if ft.Kind == schema.KindObject {
		return ft.Name, true
	}
	return "", false
}
