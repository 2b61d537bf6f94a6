package mutation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-core/mutation"
	"github.com/fraiseql/fraiseql-core/schema"
)

func userSchema() *schema.CompiledSchema {
	return &schema.CompiledSchema{
		Types: []schema.TypeDefinition{
			{
				Name: "User",
				Fields: []schema.FieldDefinition{
					{Name: "id", Type: schema.Scalar("ID")},
					{Name: "first_name", Type: schema.Scalar("String")},
				},
			},
		},
	}
}

// S4 from spec §8: mutation success with cascade invalidation.
func TestShape_S4_SuccessWithCascade(t *testing.T) {
	tr := mutation.NewTransformer(userSchema())
	raw := []byte(`{
		"status":"success","message":"ok",
		"entity_type":"User","entity_id":"u1",
		"entity":{"id":"u1","first_name":"A"},
		"cascade":{"invalidations":{"updated":[{"type":"User","id":"*"}],"deleted":[]}}
	}`)
	result, err := tr.Shape(raw, "CreateUserSuccess", "CreateUserError", "", "User")
	require.NoError(t, err)

	assert.Equal(t, "CreateUserSuccess", result.Payload["__typename"])
	assert.Equal(t, "u1", result.Payload["id"])
	assert.Equal(t, "ok", result.Payload["message"])

	user, ok := result.Payload["user"].(map[string]any)
	require.True(t, ok, "expected entity field keyed by camelCase(lowercase(entity_type))")
	assert.Equal(t, "User", user["__typename"])
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "A", user["firstName"])

	require.NotNil(t, result.Cascade)
	assert.Len(t, result.Cascade.Invalidations.Updated, 1)
	assert.Equal(t, "User", result.Cascade.Invalidations.Updated[0].Type)
	assert.Equal(t, "*", result.Cascade.Invalidations.Updated[0].ID)
}

// S5 from spec §8: mutation noop.
func TestShape_S5_Noop(t *testing.T) {
	tr := mutation.NewTransformer(userSchema())
	raw := []byte(`{"status":"noop:unchanged","message":"no change"}`)
	result, err := tr.Shape(raw, "CreateUserSuccess", "CreateUserError", "", "User")
	require.NoError(t, err)

	assert.Equal(t, "CreateUserError", result.Payload["__typename"])
	assert.Equal(t, "noop:unchanged", result.Payload["status"])
	assert.Equal(t, 422, result.Payload["code"])

	errs, ok := result.Payload["errors"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Nil(t, errs[0]["field"])
	assert.Equal(t, "unchanged", errs[0]["code"])
	assert.Equal(t, "no change", errs[0]["message"])

	assert.Nil(t, result.Cascade)
}

func TestShape_SimpleFormatIsImplicitSuccess(t *testing.T) {
	tr := mutation.NewTransformer(userSchema())
	raw := []byte(`{"id":"u2","first_name":"B"}`)
	result, err := tr.Shape(raw, "DeactivateUserSuccess", "DeactivateUserError", "user", "User")
	require.NoError(t, err)

	assert.Equal(t, "DeactivateUserSuccess", result.Payload["__typename"])
	assert.Equal(t, "Success", result.Payload["message"])

	// simple format carries no entity_type, so the caller's static
	// returnType ("User") types the transform instead.
	user, ok := result.Payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "User", user["__typename"])
	assert.Equal(t, "B", user["firstName"])
}

func TestShape_FailedStatusHTTPCodeTable(t *testing.T) {
	cases := map[string]int{
		"failed:not_found":   404,
		"failed:unauthorized": 401,
		"failed:forbidden":    403,
		"failed:conflict":     409,
		"failed:duplicate":    409,
		"failed:validation":   422,
		"failed:invalid":      422,
		"failed:disk_on_fire": 500,
	}
	tr := mutation.NewTransformer(userSchema())
	for status, code := range cases {
		raw := []byte(`{"status":"` + status + `","message":"boom"}`)
		result, err := tr.Shape(raw, "S", "E", "", "User")
		require.NoError(t, err)
		assert.Equal(t, code, result.Payload["code"], status)
	}
}

func TestShape_MetadataErrorsAreCamelCased(t *testing.T) {
	tr := mutation.NewTransformer(userSchema())
	raw := []byte(`{
		"status":"failed:validation","message":"bad input",
		"metadata":{"errors":[{"field":"first_name","error_code":"required","message":"required"}]}
	}`)
	result, err := tr.Shape(raw, "S", "E", "", "User")
	require.NoError(t, err)
	errs := result.Payload["errors"].([]map[string]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "first_name", errs[0]["field"])
	assert.Equal(t, "required", errs[0]["errorCode"])
}

func TestShape_MetadataErrorsAreRecursivelyCamelCased(t *testing.T) {
	tr := mutation.NewTransformer(userSchema())
	raw := []byte(`{
		"status":"failed:validation","message":"bad input",
		"metadata":{"errors":[{
			"field_name":"first_name",
			"extra_info":{"min_length":5,"allowed_values":[{"display_name":"A"}]}
		}]}
	}`)
	result, err := tr.Shape(raw, "S", "E", "", "User")
	require.NoError(t, err)
	errs := result.Payload["errors"].([]map[string]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "first_name", errs[0]["fieldName"])

	extra, ok := errs[0]["extraInfo"].(map[string]any)
	require.True(t, ok, "nested object keys must be recursively camelCased")
	assert.Equal(t, float64(5), extra["minLength"])

	values, ok := extra["allowedValues"].([]any)
	require.True(t, ok)
	require.Len(t, values, 1)
	item, ok := values[0].(map[string]any)
	require.True(t, ok, "keys inside objects nested in arrays must also be camelCased")
	assert.Equal(t, "A", item["displayName"])
}

func TestShape_UpdatedFieldsCamelCased(t *testing.T) {
	tr := mutation.NewTransformer(userSchema())
	raw := []byte(`{
		"status":"success","message":"ok",
		"entity_type":"User","updated_fields":["first_name","id"]
	}`)
	result, err := tr.Shape(raw, "S", "E", "", "User")
	require.NoError(t, err)
	assert.Equal(t, []string{"firstName", "id"}, result.Payload["updatedFields"])
}
