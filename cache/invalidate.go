package cache

import (
	"context"

	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/mutation"
)

// AffectedKeys computes the set of cache keys a cascade invalidates
// (spec §4.7): for each entity in updated ∪ deleted, every key
// depending on the specific "type:id" view and every key depending on
// the wildcard "type:*" view. Extra invalidations are safe; the
// caller's CoherencyValidator checks that none were missed.
func (t *Tracker) AffectedKeys(c *mutation.Cascade) []fraiseql.Fingerprint {
	if c == nil {
		return nil
	}
	seen := make(map[fraiseql.Fingerprint]struct{})
	var out []fraiseql.Fingerprint

	add := func(view string) {
		for _, key := range t.GetDependentCaches(view) {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				out = append(out, key)
			}
		}
	}

	for _, entity := range append(append([]mutation.CascadeEntity{}, c.Invalidations.Updated...), c.Invalidations.Deleted...) {
		key := fraiseql.EntityKey{Type: entity.Type, ID: entity.ID}
		add(key.String())
		add(fraiseql.Wildcard(entity.Type).String())
	}
	return out
}

// Invalidate computes AffectedKeys for c and removes each from both
// the tracker and backend, returning the keys removed. Per spec §5's
// ordering guarantee, the caller must only invoke this after observing
// the mutation's status as Success — a failed or noop mutation never
// reaches here.
func (rc *ResultCache) Invalidate(ctx context.Context, c *mutation.Cascade) []fraiseql.Fingerprint {
	keys := rc.tracker.AffectedKeys(c)
	for _, key := range keys {
		rc.tracker.RemoveCache(key)
		_ = rc.backend.Delete(ctx, string(key))
	}
	rc.monitor.addInvalidations(int64(len(keys)))
	if rc.coherency != nil {
		rc.coherency.recordInvalidation(c, keys)
	}
	return keys
}
