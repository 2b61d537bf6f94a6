// Package mutation implements the Mutation Transformer (spec §4.6): it
// parses a mutation_result JSON value into a GraphQL union payload,
// `{ __typename: SuccessType | ErrorType, … }`, and hands the parsed
// cascade descriptor (if any) back to the caller for cache invalidation
// (spec §4.7).
package mutation

import (
	"strings"

	"github.com/fraiseql/fraiseql-core/response"
	"github.com/fraiseql/fraiseql-core/schema"
)

// Result is the outcome of shaping one mutation_result value: the
// union payload ready to marshal as the mutation's response field, and
// the cascade to hand off to the cache (nil if none was present).
type Result struct {
	Payload map[string]any
	Cascade *Cascade
}

// Transformer shapes mutation envelopes against a compiled schema, used
// to transform the entity field the same way a query row would be
// (spec §4.6: "transform injects __typename and rewrites keys as per
// §4.5").
type Transformer struct {
	builder *response.Builder
}

// NewTransformer constructs a Transformer bound to a compiled schema.
func NewTransformer(cs *schema.CompiledSchema) *Transformer {
	return &Transformer{builder: response.NewBuilder(cs)}
}

// Shape decodes raw and produces the union payload for a mutation.
// successType/errorType are the GraphQL __typename values for the two
// branches (e.g. "CreateUserSuccess"/"CreateUserError"). entityField is
// the response key the entity is nested under on success; when empty
// it defaults to the camelCase of the lowercased entity type (spec
// §4.6). returnType is the mutation's statically declared return type
// (schema.MutationDefinition.ReturnType), used to type the entity
// transform whenever the envelope itself carries no entity_type — as
// simple-format results never do.
func (t *Transformer) Shape(raw []byte, successType, errorType, entityField, returnType string) (*Result, error) {
	env, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	switch env.Status.Kind {
	case StatusSuccess:
		return t.shapeSuccess(env, successType, entityField, returnType)
	default:
		return t.shapeError(env, errorType), nil
	}
}

func (t *Transformer) shapeSuccess(env *Envelope, successType, entityField, returnType string) (*Result, error) {
	payload := map[string]any{
		"__typename": successType,
		"message":    env.Message,
	}
	if env.EntityID != "" {
		payload["id"] = env.EntityID
	}
	if len(env.Entity) > 0 {
		entityType := env.EntityType
		if entityType == "" {
			entityType = returnType
		}
		field := entityField
		if field == "" {
			field = response.ToCamelCase(strings.ToLower(entityType))
		}
		entity, err := t.builder.Transform(env.Entity, entityType)
		if err != nil {
			return nil, err
		}
		payload[field] = entity
	}
	if len(env.UpdatedFields) > 0 {
		fields := make([]string, len(env.UpdatedFields))
		for i, f := range env.UpdatedFields {
			fields[i] = response.ToCamelCase(f)
		}
		payload["updatedFields"] = fields
	}
	if env.Cascade != nil {
		payload["cascade"] = env.Cascade
	}
	return &Result{Payload: payload, Cascade: env.Cascade}, nil
}

func (t *Transformer) shapeError(env *Envelope, errorType string) *Result {
	errs := env.MetadataErrs
	if len(errs) == 0 {
		errs = []map[string]any{{
			"field":   nil,
			"code":    env.Status.Reason,
			"message": env.Message,
		}}
	}
	camelErrs := make([]map[string]any, len(errs))
	for i, e := range errs {
		camelErrs[i] = camelCaseKeys(e)
	}
	return &Result{
		Payload: map[string]any{
			"__typename": errorType,
			"message":    env.Message,
			"status":     env.Status.wire(),
			"code":       env.Status.httpCode(),
			"errors":     camelErrs,
		},
		Cascade: env.Cascade,
	}
}

// camelCaseKeys rewrites every key of m to camelCase, recursing into
// nested maps and slices so a metadata.errors entry's keys are
// camelCased at every depth (spec line 363-364), not just the top
// level.
func camelCaseKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[response.ToCamelCase(k)] = camelCaseValue(v)
	}
	return out
}

func camelCaseValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return camelCaseKeys(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = camelCaseValue(elem)
		}
		return out
	default:
		return v
	}
}
