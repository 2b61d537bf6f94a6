package schema_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-core/schema"
)

func sampleJSON() []byte {
	return []byte(`{
		"types": [
			{
				"name": "User",
				"sql_source": "v_user",
				"jsonb_column": "data",
				"fields": [
					{"name": "id", "type": {"kind": 0, "name": "ID"}},
					{"name": "first_name", "type": {"kind": 0, "name": "String"}},
					{"name": "posts", "type": {"kind": 1, "elem": {"kind": 2, "name": "Post"}}}
				]
			},
			{
				"name": "Post",
				"sql_source": "v_post",
				"jsonb_column": "data",
				"fields": [{"name": "id", "type": {"kind": 0, "name": "ID"}}]
			}
		],
		"queries": [
			{
				"name": "users",
				"return_type": "User",
				"returns_list": true,
				"sql_source": "v_user",
				"auto_params": {"has_where": true, "has_order_by": true, "has_limit": true, "has_offset": true}
			}
		]
	}`)
}

func TestFromJSON_Valid(t *testing.T) {
	s, err := schema.FromJSON(sampleJSON())
	require.NoError(t, err)
	require.NotNil(t, s)

	u, ok := s.TypeByName("User")
	require.True(t, ok)
	assert.Equal(t, "v_user", u.SQLSource)

	q, ok := s.QueryByName("users")
	require.True(t, ok)
	assert.True(t, q.ReturnsList)
	assert.True(t, q.AutoParams.HasWhere)
}

func TestFromJSON_UnknownTopLevelKeysIgnored(t *testing.T) {
	_, err := schema.FromJSON([]byte(`{"types": [], "something_new": {"x": 1}}`))
	require.NoError(t, err)
}

func TestFromJSON_MissingFieldsDefaultEmpty(t *testing.T) {
	s, err := schema.FromJSON([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, s.Types)
	assert.Empty(t, s.Queries)
}

func TestFromJSON_DuplicateTypeNameFails(t *testing.T) {
	_, err := schema.FromJSON([]byte(`{"types":[{"name":"User","sql_source":"a","jsonb_column":"data"},{"name":"User","sql_source":"b","jsonb_column":"data"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestFromJSON_UnresolvedFieldTypeFails(t *testing.T) {
	_, err := schema.FromJSON([]byte(`{"types":[{"name":"User","sql_source":"v","jsonb_column":"data","fields":[{"name":"profile","type":{"kind":2,"name":"Profile"}}]}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not resolve")
}

func TestFromJSON_UnresolvedTypeSuggestsClosestMatch(t *testing.T) {
	_, err := schema.FromJSON([]byte(`{"types":[
		{"name":"User","sql_source":"v","jsonb_column":"data","fields":[{"name":"p","type":{"kind":2,"name":"Usr"}}]}
	]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "User"?`)
}

func TestValidate_CyclicUnionRejected(t *testing.T) {
	_, err := schema.FromJSON([]byte(`{"unions":[
		{"name":"A","types":["B"]},
		{"name":"B","types":["A"]}
	]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic")
}

func TestRoundTrip(t *testing.T) {
	s, err := schema.FromJSON(sampleJSON())
	require.NoError(t, err)

	out, err := s.ToJSON()
	require.NoError(t, err)

	s2, err := schema.FromJSON(out)
	require.NoError(t, err)

	assert.ElementsMatch(t, s.TypeNames(), s2.TypeNames())
	assert.Equal(t, len(s.Queries), len(s2.Queries))
}

func TestWatcher_HotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, sampleJSON(), 0o600))

	w, err := schema.NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	_, ok := w.Current().TypeByName("User")
	require.True(t, ok)

	updated := []byte(`{"types":[{"name":"Org","sql_source":"v_org","jsonb_column":"data"}]}`)
	require.NoError(t, os.WriteFile(path, updated, 0o600))

	require.Eventually(t, func() bool {
		_, ok := w.Current().TypeByName("Org")
		return ok
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_InvalidReloadKeepsPreviousSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, sampleJSON(), 0o600))

	w, err := schema.NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	select {
	case err := <-w.Errors():
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload error")
	}

	_, ok := w.Current().TypeByName("User")
	assert.True(t, ok, "previous valid schema must remain current")
}
