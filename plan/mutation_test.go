package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-core/plan"
	"github.com/fraiseql/fraiseql-core/schema"
)

func TestPlanMutation_Insert(t *testing.T) {
	m := &schema.MutationDefinition{
		Name:       "createUser",
		ReturnType: "User",
		Arguments: []schema.ArgumentDefinition{
			{Name: "displayName", Type: schema.Scalar("String")},
			{Name: "status", Type: schema.Scalar("String")},
		},
		Operation: schema.MutationOperation{Kind: schema.MutationInsert, Table: "tb_user"},
	}
	args := map[string]any{"displayName": "Roo", "status": "active"}

	p, err := plan.PlanMutation(m, args)
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO tb_user (display_name, status) VALUES ($1, $2) RETURNING to_jsonb(tb_user.*) AS mutation_result`,
		p.SQL,
	)
	assert.Equal(t, []any{"Roo", "active"}, p.Params)
}

func TestPlanMutation_InsertMissingRequiredArgument(t *testing.T) {
	m := &schema.MutationDefinition{
		Name: "createUser",
		Arguments: []schema.ArgumentDefinition{
			{Name: "displayName", Type: schema.Scalar("String")},
		},
		Operation: schema.MutationOperation{Kind: schema.MutationInsert, Table: "tb_user"},
	}
	_, err := plan.PlanMutation(m, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required argument")
}

func TestPlanMutation_InsertNullableArgumentOmitted(t *testing.T) {
	m := &schema.MutationDefinition{
		Name: "createUser",
		Arguments: []schema.ArgumentDefinition{
			{Name: "displayName", Type: schema.Scalar("String")},
			{Name: "nickname", Type: schema.Scalar("String"), Nullable: true},
		},
		Operation: schema.MutationOperation{Kind: schema.MutationInsert, Table: "tb_user"},
	}
	p, err := plan.PlanMutation(m, map[string]any{"displayName": "Roo"})
	require.NoError(t, err)
	assert.Equal(t, []any{"Roo", nil}, p.Params)
}

func TestPlanMutation_Function(t *testing.T) {
	m := &schema.MutationDefinition{
		Name:       "deactivateUser",
		ReturnType: "User",
		Arguments: []schema.ArgumentDefinition{
			{Name: "id", Type: schema.Scalar("ID")},
		},
		Operation: schema.MutationOperation{Kind: schema.MutationFunction, Name: "fn_deactivate_user"},
	}
	p, err := plan.PlanMutation(m, map[string]any{"id": "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT fn_deactivate_user($1) AS mutation_result", p.SQL)
	assert.Equal(t, []any{"u-1"}, p.Params)
}

func TestPlanMutation_Custom(t *testing.T) {
	m := &schema.MutationDefinition{
		Name:       "archiveUser",
		ReturnType: "User",
		Arguments: []schema.ArgumentDefinition{
			{Name: "id", Type: schema.Scalar("ID")},
		},
		Operation: schema.MutationOperation{Kind: schema.MutationCustom},
	}
	args := map[string]any{
		"id":          "u-1",
		"__statement": "UPDATE tb_user SET archived = true WHERE id = $1 RETURNING to_jsonb(tb_user.*) AS mutation_result",
	}
	p, err := plan.PlanMutation(m, args)
	require.NoError(t, err)
	assert.Equal(t, args["__statement"], p.SQL)
	assert.Equal(t, []any{"u-1"}, p.Params)
}

func TestPlanMutation_CustomWithoutStatementIsPlanError(t *testing.T) {
	m := &schema.MutationDefinition{
		Name:      "archiveUser",
		Operation: schema.MutationOperation{Kind: schema.MutationCustom},
	}
	_, err := plan.PlanMutation(m, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a statement")
}
