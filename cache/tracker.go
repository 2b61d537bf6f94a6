// Package cache implements the Dependency Tracker & Cache (spec
// §4.7): a fingerprint -> response cache whose entries are indexed by
// the set of views each depends on, so a mutation cascade can
// invalidate affected entries in O(affected) time.
package cache

import (
	"sync"

	"github.com/fraiseql/fraiseql-core"
)

// Tracker maintains the forward (key -> views) and reverse (view ->
// keys) dependency indices described in spec §4.7. Forward and reverse
// maps share a single lock domain (spec §5: "operations on forward and
// reverse indices must be atomic together").
type Tracker struct {
	mu      sync.RWMutex
	forward map[fraiseql.Fingerprint]map[string]struct{}
	reverse map[string]map[fraiseql.Fingerprint]struct{}
}

// NewTracker constructs an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		forward: make(map[fraiseql.Fingerprint]map[string]struct{}),
		reverse: make(map[string]map[fraiseql.Fingerprint]struct{}),
	}
}

// RecordAccess upserts key's forward dependency set to views, adding
// key to each new view's reverse set. When key already exists, stale
// reverse entries for views it no longer depends on are removed first
// (spec §4.7: "so updates are correct").
func (t *Tracker) RecordAccess(key fraiseql.Fingerprint, views []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.forward[key]; ok {
		for view := range old {
			if _, stillDepends := contains(views, view); !stillDepends {
				t.removeReverse(view, key)
			}
		}
	}

	set := make(map[string]struct{}, len(views))
	for _, view := range views {
		set[view] = struct{}{}
		if t.reverse[view] == nil {
			t.reverse[view] = make(map[fraiseql.Fingerprint]struct{})
		}
		t.reverse[view][key] = struct{}{}
	}
	t.forward[key] = set
}

func contains(views []string, view string) (int, bool) {
	for i, v := range views {
		if v == view {
			return i, true
		}
	}
	return -1, false
}

// GetDependentCaches returns every key currently depending on view
// (spec §4.7's reverse lookup).
func (t *Tracker) GetDependentCaches(view string) []fraiseql.Fingerprint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := t.reverse[view]
	out := make([]fraiseql.Fingerprint, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	return out
}

// RemoveCache drops key from both indices; any reverse set left empty
// is garbage-collected (spec §4.7).
func (t *Tracker) RemoveCache(key fraiseql.Fingerprint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeCacheLocked(key)
}

func (t *Tracker) removeCacheLocked(key fraiseql.Fingerprint) {
	views, ok := t.forward[key]
	if !ok {
		return
	}
	for view := range views {
		t.removeReverse(view, key)
	}
	delete(t.forward, key)
}

// removeReverse must be called with t.mu held.
func (t *Tracker) removeReverse(view string, key fraiseql.Fingerprint) {
	keys, ok := t.reverse[view]
	if !ok {
		return
	}
	delete(keys, key)
	if len(keys) == 0 {
		delete(t.reverse, view)
	}
}

// Clear drops every forward and reverse entry (spec §4.7).
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forward = make(map[fraiseql.Fingerprint]map[string]struct{})
	t.reverse = make(map[string]map[fraiseql.Fingerprint]struct{})
}

// views returns a snapshot of key's current dependency set, used by
// the coherency validator to cross-check forward against reverse.
func (t *Tracker) views(key fraiseql.Fingerprint) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set := t.forward[key]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}

// dependents returns a snapshot of view's current key set.
func (t *Tracker) dependents(view string) []fraiseql.Fingerprint {
	return t.GetDependentCaches(view)
}

// keys returns a snapshot of every forward key currently tracked.
func (t *Tracker) keys() []fraiseql.Fingerprint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]fraiseql.Fingerprint, 0, len(t.forward))
	for k := range t.forward {
		out = append(out, k)
	}
	return out
}
