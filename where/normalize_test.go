package where_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-core/schema"
	"github.com/fraiseql/fraiseql-core/where"
)

func baseFields() where.FieldMap {
	return where.FieldMap{
		SQLColumns:  map[string]bool{"id": true, "status": true, "created_at": true},
		FKMappings:  map[string]string{"author": "author_id"},
		JSONBColumn: "data",
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	nw, err := where.Normalize(nil, baseFields())
	require.NoError(t, err)
	assert.Empty(t, nw.SQL)
	assert.Empty(t, nw.Params)
}

func TestNormalize_SQLColumnEquality(t *testing.T) {
	input := map[string]any{"status": map[string]any{"eq": "active"}}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, "status = $1", nw.SQL)
	assert.Equal(t, []any{"active"}, nw.Params)
}

func TestNormalize_FKShortcut(t *testing.T) {
	input := map[string]any{"author": map[string]any{"id": "u-1"}}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, "author_id = $1", nw.SQL)
	assert.Equal(t, []any{"u-1"}, nw.Params)
}

func TestNormalize_JSONBPathFallback(t *testing.T) {
	input := map[string]any{"nickname": map[string]any{"eq": "roo"}}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, `data->>'nickname' = $1`, nw.SQL)
	assert.Equal(t, []any{"roo"}, nw.Params)
}

func TestNormalize_CamelCaseConvertedOnce(t *testing.T) {
	fm := baseFields()
	fm.SQLColumns["display_name"] = true
	input := map[string]any{"displayName": map[string]any{"eq": "Roo"}}
	nw, err := where.Normalize(input, fm)
	require.NoError(t, err)
	assert.Equal(t, "display_name = $1", nw.SQL)
}

func TestNormalize_NestedJSONBPath(t *testing.T) {
	input := map[string]any{
		"profile": map[string]any{
			"bio": map[string]any{"contains": "engineer"},
		},
	}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, `data->'profile'->>'bio' LIKE $1`, nw.SQL)
	assert.Equal(t, []any{"%engineer%"}, nw.Params)
}

// S3 from spec §8: a three-level nested JSONB path must emit chained
// ->/->> arrows, not the #> array-path form.
func TestNormalize_NestedJSONBPath_S3ThreeLevels(t *testing.T) {
	input := map[string]any{
		"device": map[string]any{
			"sensor": map[string]any{
				"value": map[string]any{"gt": 100},
			},
		},
	}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, `data->'device'->'sensor'->>'value' > $1`, nw.SQL)
	assert.Equal(t, []any{100}, nw.Params)
}

func TestNormalize_ANDCombinesSiblings(t *testing.T) {
	input := map[string]any{
		"status": map[string]any{"eq": "active"},
		"id":     map[string]any{"neq": "x"},
	}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, "id <> $1 AND status = $2", nw.SQL)
}

func TestNormalize_ORCombinator(t *testing.T) {
	input := map[string]any{
		"OR": []any{
			map[string]any{"status": map[string]any{"eq": "active"}},
			map[string]any{"status": map[string]any{"eq": "pending"}},
		},
	}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, "((status = $1) OR (status = $2))", nw.SQL)
}

func TestNormalize_NOTNegates(t *testing.T) {
	input := map[string]any{
		"NOT": map[string]any{"status": map[string]any{"eq": "deleted"}},
	}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, "NOT (status = $1)", nw.SQL)
}

func TestNormalize_IsNullConsumesNoParams(t *testing.T) {
	input := map[string]any{"status": map[string]any{"isnull": true}}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, "status IS NULL", nw.SQL)
	assert.Empty(t, nw.Params)
}

func TestNormalize_InOperator(t *testing.T) {
	input := map[string]any{"status": map[string]any{"in": []any{"active", "pending"}}}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, "status IN ($1, $2)", nw.SQL)
	assert.Equal(t, []any{"active", "pending"}, nw.Params)
}

func TestNormalize_UnknownOperatorIsValidationError(t *testing.T) {
	input := map[string]any{"status": map[string]any{"bogus": "x"}}
	_, err := where.Normalize(input, baseFields())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown WHERE operator")
}

func TestNormalize_EncryptedFieldRejectsNonEquality(t *testing.T) {
	fm := baseFields()
	fm.Encrypted = map[string]schema.EncryptionInfo{
		"status": {Algorithm: "aes-gcm", DeterministicHashColumn: "status_hash"},
	}
	input := map[string]any{"status": map[string]any{"contains": "foo"}}
	_, err := where.Normalize(input, fm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not permitted against an encrypted field")
}

func TestNormalize_EncryptedFieldRewritesEqualityToHashColumn(t *testing.T) {
	fm := baseFields()
	fm.Encrypted = map[string]schema.EncryptionInfo{
		"status": {Algorithm: "aes-gcm", DeterministicHashColumn: "status_hash"},
	}
	input := map[string]any{"status": map[string]any{"eq": "active"}}
	nw, err := where.Normalize(input, fm)
	require.NoError(t, err)
	assert.Equal(t, "status_hash = $1", nw.SQL)
}

func TestNormalize_EncryptedFieldWithoutHashColumnRejectsEquality(t *testing.T) {
	fm := baseFields()
	fm.Encrypted = map[string]schema.EncryptionInfo{
		"status": {Algorithm: "aes-gcm"},
	}
	input := map[string]any{"status": map[string]any{"eq": "active"}}
	_, err := where.Normalize(input, fm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no deterministic-hash column")
}

func TestNormalize_AmbiguousOperatorRequiresColumnKind(t *testing.T) {
	fm := baseFields()
	fm.SQLColumns["cidr_block"] = true
	input := map[string]any{"cidrBlock": map[string]any{"strictly_left_of": "10.0.0.0/8"}}
	_, err := where.Normalize(input, fm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestNormalize_ColumnKindResolvesAmbiguousOperator(t *testing.T) {
	fm := baseFields()
	fm.SQLColumns["cidr_block"] = true
	fm.ColumnKinds = map[string]string{"cidr_block": "network"}
	input := map[string]any{"cidrBlock": map[string]any{"strictly_left_of": "10.0.0.0/8"}}
	nw, err := where.Normalize(input, fm)
	require.NoError(t, err)
	assert.Equal(t, `cidr_block < $1::inet`, nw.SQL)
}

func TestNormalize_ParamNumberingAcrossClauses(t *testing.T) {
	input := map[string]any{
		"OR": []any{
			map[string]any{"status": map[string]any{"eq": "a"}},
			map[string]any{"id": map[string]any{"eq": "b"}},
		},
		"createdAt": map[string]any{"gte": "2026-01-01"},
	}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	require.Len(t, nw.Params, 3)
	assert.Contains(t, nw.SQL, "$3")
}

func TestNormalize_ArrayContainsUsesPqArray(t *testing.T) {
	fm := baseFields()
	fm.SQLColumns["tags"] = true
	input := map[string]any{"tags": map[string]any{"array_contains": []any{"go", "sql"}}}
	nw, err := where.Normalize(input, fm)
	require.NoError(t, err)
	assert.Equal(t, "tags @> $1", nw.SQL)
	require.Len(t, nw.Params, 1)
}

func TestNormalize_JSONBHasKeyForcesSubtreeExtraction(t *testing.T) {
	input := map[string]any{
		"settings": map[string]any{"has_key": "darkMode"},
	}
	nw, err := where.Normalize(input, baseFields())
	require.NoError(t, err)
	assert.Equal(t, `data->'settings' ? $1`, nw.SQL)
	assert.Equal(t, []any{"darkMode"}, nw.Params)
}

func TestNormalize_VectorMatchBindsDistanceAsCase(t *testing.T) {
	fm := baseFields()
	fm.SQLColumns["embedding"] = true
	fm.ColumnKinds = map[string]string{"embedding": "vector"}
	input := map[string]any{
		"embedding": map[string]any{
			"match": map[string]any{
				"vector":       []any{1.0, 2.0, 3.0},
				"distance":     "l2",
				"max_distance": 0.25,
			},
		},
	}
	nw, err := where.Normalize(input, fm)
	require.NoError(t, err)
	assert.Contains(t, nw.SQL, "CASE $3")
	assert.Contains(t, nw.SQL, "<-> $1")
	require.Len(t, nw.Params, 3)
	assert.Equal(t, "[1,2,3]", nw.Params[0])
	assert.Equal(t, 0.25, nw.Params[1])
	assert.Equal(t, "l2", nw.Params[2])
}

func TestNormalize_FieldOperandNotObjectIsValidationError(t *testing.T) {
	input := map[string]any{"status": "active"}
	_, err := where.Normalize(input, baseFields())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an object")
}
