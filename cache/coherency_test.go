package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql-core/cache"
	"github.com/fraiseql/fraiseql-core/mutation"
)

func TestCoherencyValidator_HealthyWhenInvalidationsComplete(t *testing.T) {
	backend := newMemBackend()
	tracker := cache.NewTracker()
	v := cache.NewCoherencyValidator(tracker)
	rc := cache.NewResultCache(backend, v)
	ctx := context.Background()

	require.NoError(t, rc.Put(ctx, "k1", []byte("p"), []string{"User:u1"}, 0))

	c := &mutation.Cascade{}
	c.Invalidations.Updated = []mutation.CascadeEntity{{Type: "User", ID: "u1"}}
	rc.Invalidate(ctx, c)

	report, err := v.Check(ctx)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
}
