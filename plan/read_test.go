package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-core/plan"
	"github.com/fraiseql/fraiseql-core/schema"
	"github.com/fraiseql/fraiseql-core/selection"
)

func userSchema() *schema.CompiledSchema {
	cs := &schema.CompiledSchema{
		Types: []schema.TypeDefinition{
			{
				Name:        "User",
				SQLSource:   "v_user",
				JSONBColumn: "data",
				SQLColumns:  []string{"id", "status", "cidr_block"},
				FKMappings:  map[string]string{"author": "author_id"},
				ColumnKinds: map[string]string{"cidr_block": "network"},
				Fields: []schema.FieldDefinition{
					{Name: "id", Type: schema.Scalar("ID")},
					{Name: "status", Type: schema.Scalar("String")},
					{Name: "email", Type: schema.Scalar("String"), Encrypted: &schema.EncryptionInfo{
						Algorithm:               "aes-gcm",
						DeterministicHashColumn: "email_hash",
					}},
				},
			},
		},
		Queries: []schema.QueryDefinition{
			{
				Name:        "users",
				ReturnType:  "User",
				ReturnsList: true,
				SQLSource:   "v_user",
				AutoParams: schema.AutoParams{
					HasWhere: true, HasOrderBy: true, HasLimit: true, HasOffset: true,
				},
			},
			{
				Name:       "userById",
				ReturnType: "User",
				SQLSource:  "v_user",
			},
		},
	}
	return cs
}

func flatSelection(names ...string) *selection.ProcessedQuery {
	sels := make([]selection.ResolvedSelection, len(names))
	for i, n := range names {
		sels[i] = selection.ResolvedSelection{Name: n}
	}
	return &selection.ProcessedQuery{
		RootField:  "users",
		Selections: sels,
	}
}

func TestPlanQuery_BaseSelect(t *testing.T) {
	cs := userSchema()
	q, _ := cs.QueryByName("users")
	p, err := plan.PlanQuery(cs, q, flatSelection("id", "status"), nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT data FROM v_user", p.SQL)
	assert.Empty(t, p.Params)
	assert.ElementsMatch(t, []string{"id", "status"}, p.FieldPaths)
	assert.True(t, p.ReturnsList)
}

func TestPlanQuery_WhereClauseAppended(t *testing.T) {
	cs := userSchema()
	q, _ := cs.QueryByName("users")
	args := map[string]any{
		"where": map[string]any{"status": map[string]any{"eq": "active"}},
	}
	p, err := plan.PlanQuery(cs, q, flatSelection("id"), args)
	require.NoError(t, err)
	assert.Equal(t, "SELECT data FROM v_user WHERE status = $1", p.SQL)
	assert.Equal(t, []any{"active"}, p.Params)
}

func TestPlanQuery_WhereAgainstEncryptedFieldRejected(t *testing.T) {
	cs := userSchema()
	q, _ := cs.QueryByName("users")
	args := map[string]any{
		"where": map[string]any{"email": map[string]any{"contains": "x"}},
	}
	_, err := plan.PlanQuery(cs, q, flatSelection("id"), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not permitted against an encrypted field")
}

func TestPlanQuery_LimitOffsetOrderBy(t *testing.T) {
	cs := userSchema()
	q, _ := cs.QueryByName("users")
	args := map[string]any{
		"orderBy": []any{map[string]any{"field": "status", "direction": "desc"}},
		"limit":   10,
		"offset":  5,
	}
	p, err := plan.PlanQuery(cs, q, flatSelection("id"), args)
	require.NoError(t, err)
	assert.Equal(t, "SELECT data FROM v_user ORDER BY status DESC LIMIT $1 OFFSET $2", p.SQL)
	assert.Equal(t, []any{10, 5}, p.Params)
}

func TestPlanQuery_AutoParamsGateUnsupportedArgs(t *testing.T) {
	cs := userSchema()
	q, _ := cs.QueryByName("userById")
	args := map[string]any{
		"where": map[string]any{"status": map[string]any{"eq": "active"}},
		"limit": 10,
	}
	p, err := plan.PlanQuery(cs, q, flatSelection("id"), args)
	require.NoError(t, err)
	assert.Equal(t, "SELECT data FROM v_user", p.SQL)
	assert.Empty(t, p.Params)
}

func TestPlanQuery_FieldPathsIncludeNestedObjects(t *testing.T) {
	cs := userSchema()
	q, _ := cs.QueryByName("users")
	sel := &selection.ProcessedQuery{
		Selections: []selection.ResolvedSelection{
			{Name: "id"},
			{Name: "profile", Selections: []selection.ResolvedSelection{
				{Name: "bio"},
			}},
		},
	}
	p, err := plan.PlanQuery(cs, q, sel, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"id", "profile", "profile.bio"}, p.FieldPaths)
}

func TestPlanQuery_OrderByUnknownDirectionIsPlanError(t *testing.T) {
	cs := userSchema()
	q, _ := cs.QueryByName("users")
	args := map[string]any{
		"orderBy": []any{map[string]any{"field": "status", "direction": "sideways"}},
	}
	_, err := plan.PlanQuery(cs, q, flatSelection("id"), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort direction")
}
