package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-core/gqlsource"
	"github.com/fraiseql/fraiseql-core/selection"
)

func parse(t *testing.T, src string, vars map[string]any) *gqlsource.ParsedQuery {
	t.Helper()
	pq, err := gqlsource.Parse(src, "", vars)
	require.NoError(t, err)
	return pq
}

func TestProcess_FragmentSpreadExpansion(t *testing.T) {
	pq := parse(t, `
		query { user { ...Fields } }
		fragment Fields on User { id name }
	`, nil)

	out, err := selection.Process(pq, nil, selection.Options{})
	require.NoError(t, err)

	require.Len(t, out.Selections, 1)
	user := out.Selections[0]
	require.Len(t, user.Selections, 2)
	assert.Equal(t, "id", user.Selections[0].Name)
	assert.Equal(t, "name", user.Selections[1].Name)
}

func TestProcess_FragmentCycleRejected(t *testing.T) {
	pq := parse(t, `
		query { user { ...A } }
		fragment A on User { ...B }
		fragment B on User { ...A }
	`, nil)

	_, err := selection.Process(pq, nil, selection.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle: A -> B -> A")
}

func TestProcess_MissingFragment(t *testing.T) {
	pq := parse(t, `query { user { ...Missing } }`, nil)
	_, err := selection.Process(pq, nil, selection.Options{})
	require.Error(t, err)
}

func TestProcess_InlineFragmentTypeConditionFiltering(t *testing.T) {
	pq := parse(t, `query { node { ... on User { name } ... on Post { title } } }`, nil)

	out, err := selection.Process(pq, nil, selection.Options{
		RootType: "User",
		Matches: func(typeCondition, currentType string) bool {
			return typeCondition == currentType
		},
	})
	require.NoError(t, err)

	node := out.Selections[0]
	require.Len(t, node.Selections, 1)
	assert.Equal(t, "name", node.Selections[0].Name)
}

func TestProcess_SkipAndIncludeDirectives(t *testing.T) {
	pq := parse(t, `
		query($skipName: Boolean!, $includeEmail: Boolean!) {
			user {
				id
				name @skip(if: $skipName)
				email @include(if: $includeEmail)
			}
		}
	`, map[string]any{"skipName": true, "includeEmail": false})

	out, err := selection.Process(pq, map[string]any{"skipName": true, "includeEmail": false}, selection.Options{})
	require.NoError(t, err)

	keys := make([]string, 0)
	for _, s := range out.Selections[0].Selections {
		keys = append(keys, s.ResponseKey())
	}
	assert.Equal(t, []string{"id"}, keys)
}

func TestProcess_DirectiveUndefinedVariable(t *testing.T) {
	pq := parse(t, `query { user { name @skip(if: $cond) } }`, nil)
	_, err := selection.Process(pq, nil, selection.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable")
}

func TestProcess_DedupMergesNestedSelections(t *testing.T) {
	pq := parse(t, `
		query {
			user { id }
			user { name }
		}
	`, nil)

	out, err := selection.Process(pq, nil, selection.Options{})
	require.NoError(t, err)

	require.Len(t, out.Selections, 1)
	nested := out.Selections[0].Selections
	require.Len(t, nested, 2)
	assert.Equal(t, "id", nested[0].Name)
	assert.Equal(t, "name", nested[1].Name)
}

func TestProcess_DedupWithDifferentArgumentsFails(t *testing.T) {
	pq := parse(t, `
		query {
			user(id: "1") { id }
			user(id: "2") { name }
		}
	`, nil)

	_, err := selection.Process(pq, nil, selection.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot merge")
}

func TestProcess_EmptySelectionSetAfterDirectives(t *testing.T) {
	pq := parse(t, `query($c: Boolean!) { user @skip(if: $c) { id } }`, map[string]any{"c": true})
	out, err := selection.Process(pq, map[string]any{"c": true}, selection.Options{})
	require.NoError(t, err)
	assert.Empty(t, out.Selections)
}
