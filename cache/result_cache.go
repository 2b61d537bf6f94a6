package cache

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/fraiseql/fraiseql-core"
)

// entry is the msgpack-encoded form of one cached response: the
// response bytes plus the view set it depends on, so RecordAccess can
// be replayed from whatever was last stored even across process
// restarts when the backend itself is durable (e.g. Redis).
type entry struct {
	Data  []byte   `msgpack:"data"`
	Views []string `msgpack:"views"`
}

// ResultCache is the fingerprint -> response cache of spec §4.7,
// composing a pluggable fraiseql.Backend with the in-process
// dependency Tracker, Monitor, and an optional CoherencyValidator.
// Concurrent Get calls for the same fingerprint are collapsed with
// singleflight (spec's "cache stampede" note in SPEC_FULL §5).
type ResultCache struct {
	backend   fraiseql.Backend
	tracker   *Tracker
	monitor   *Monitor
	coherency *CoherencyValidator
	group     singleflight.Group
}

// NewResultCache constructs a ResultCache over backend. Pass a
// CoherencyValidator built with NewCoherencyValidator(tracker) to
// enable recording (the cache then uses that validator's tracker as its
// own), or nil to skip it (e.g. in production, where the validator's
// bookkeeping is a diagnostic overhead not every deployment wants).
func NewResultCache(backend fraiseql.Backend, coherency *CoherencyValidator) *ResultCache {
	tracker := NewTracker()
	if coherency != nil && coherency.tracker != nil {
		tracker = coherency.tracker
	}
	return &ResultCache{
		backend:   backend,
		tracker:   tracker,
		monitor:   NewMonitor(),
		coherency: coherency,
	}
}

// Tracker exposes the underlying dependency tracker, e.g. for a
// caller that wants to inspect GetDependentCaches directly.
func (rc *ResultCache) Tracker() *Tracker { return rc.tracker }

// Monitor exposes the underlying monitor.
func (rc *ResultCache) Monitor() *Monitor { return rc.monitor }

// Get retrieves the response bytes cached for key, recording a
// hit/miss with the monitor. A backend error is treated as a miss and
// never returned to the caller (spec §5: "if a cache backend is
// unavailable, the cache fails open (miss) ... and logs a warning");
// logging that warning is left to the Backend implementation itself,
// which owns its own failure/retry semantics.
func (rc *ResultCache) Get(ctx context.Context, key fraiseql.Fingerprint) ([]byte, bool) {
	v, err, _ := rc.group.Do(string(key), func() (any, error) {
		raw, err := rc.backend.Get(ctx, string(key))
		if err != nil || raw == nil {
			return nil, nil
		}
		var e entry
		if err := msgpack.Unmarshal(raw, &e); err != nil {
			return nil, nil
		}
		return &e, nil
	})
	if err != nil || v == nil {
		rc.monitor.addMiss()
		return nil, false
	}
	e, ok := v.(*entry)
	if !ok || e == nil {
		rc.monitor.addMiss()
		return nil, false
	}
	rc.monitor.addHit()
	return e.Data, true
}

// Put stores data under key with the given dependency views and TTL
// (ttl == 0 meaning no expiry), updating the dependency tracker,
// monitor, and coherency validator. Per spec §5's cancellation
// guarantee, the tracker is only updated once the backend write
// succeeds — an uncompleted or failed write leaves no trace.
func (rc *ResultCache) Put(ctx context.Context, key fraiseql.Fingerprint, data []byte, views []string, ttl time.Duration) error {
	raw, err := msgpack.Marshal(entry{Data: data, Views: views})
	if err != nil {
		return err
	}
	if err := rc.backend.Set(ctx, string(key), raw, ttl); err != nil {
		return err
	}
	rc.tracker.RecordAccess(key, views)
	rc.monitor.RecordPut(int64(len(raw)))
	if rc.coherency != nil {
		rc.coherency.recordPut(key, views)
	}
	return nil
}

// Clear drops every entry from both the backend and the tracker (spec
// §4.7's clear()).
func (rc *ResultCache) Clear(ctx context.Context) error {
	rc.tracker.Clear()
	return rc.backend.Clear(ctx)
}
