package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/mutation"
)

// CoherencyValidator is a parallel structure recording every cache put
// and invalidation, used to detect missed invalidations and internal
// index inconsistencies (spec §4.7).
type CoherencyValidator struct {
	tracker *Tracker

	mu    sync.Mutex
	puts  map[fraiseql.Fingerprint][]string // key -> view list at put time
	casc  []recordedCascade
}

type recordedCascade struct {
	cascade *mutation.Cascade
	actual  []fraiseql.Fingerprint
}

// NewCoherencyValidator constructs a validator bound to the tracker
// whose indices it cross-checks.
func NewCoherencyValidator(t *Tracker) *CoherencyValidator {
	return &CoherencyValidator{tracker: t, puts: make(map[fraiseql.Fingerprint][]string)}
}

// recordPut notes that key was written with the given dependency
// views, for later internal-consistency checking.
func (v *CoherencyValidator) recordPut(key fraiseql.Fingerprint, views []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cp := append([]string(nil), views...)
	v.puts[key] = cp
}

// recordInvalidation notes that cascade was applied and actual lists
// the keys the tracker actually removed; those keys stop counting as
// live puts.
func (v *CoherencyValidator) recordInvalidation(cascade *mutation.Cascade, actual []fraiseql.Fingerprint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.casc = append(v.casc, recordedCascade{cascade: cascade, actual: append([]fraiseql.Fingerprint(nil), actual...)})
	for _, k := range actual {
		delete(v.puts, k)
	}
}

// Report is the result of running Check: the missing invalidations and
// internal inconsistencies discovered (spec §4.7).
type Report struct {
	MissingInvalidations []fraiseql.Fingerprint
	Inconsistencies      []string
}

// Healthy reports whether Check found nothing wrong.
func (r Report) Healthy() bool {
	return len(r.MissingInvalidations) == 0 && len(r.Inconsistencies) == 0
}

// Check runs the missing-invalidations and internal-inconsistency
// checks concurrently (spec §5: "the coherency validator checking
// forward+reverse index agreement" is named as one of the fan-out
// points using errgroup) and merges their results into one Report.
func (v *CoherencyValidator) Check(ctx context.Context) (Report, error) {
	var missing []fraiseql.Fingerprint
	var inconsistent []string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		missing = v.missingInvalidations()
		return nil
	})
	g.Go(func() error {
		inconsistent = v.internalInconsistencies()
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return Report{MissingInvalidations: missing, Inconsistencies: inconsistent}, nil
}

// missingInvalidations computes, for every recorded cascade, the keys
// that should have been invalidated (expected) but weren't (actual),
// per spec §4.7's "expected − actual, set difference".
func (v *CoherencyValidator) missingInvalidations() []fraiseql.Fingerprint {
	v.mu.Lock()
	cascades := append([]recordedCascade(nil), v.casc...)
	v.mu.Unlock()

	seen := make(map[fraiseql.Fingerprint]struct{})
	var out []fraiseql.Fingerprint
	for _, rc := range cascades {
		expected := v.tracker.AffectedKeys(rc.cascade)
		actualSet := make(map[fraiseql.Fingerprint]struct{}, len(rc.actual))
		for _, k := range rc.actual {
			actualSet[k] = struct{}{}
		}
		for _, k := range expected {
			if _, ok := actualSet[k]; ok {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// internalInconsistencies finds cache entries whose forward view list
// isn't reflected in the reverse index, and tracked keys for which the
// validator holds no live recorded put (spec §4.7).
func (v *CoherencyValidator) internalInconsistencies() []string {
	v.mu.Lock()
	puts := make(map[fraiseql.Fingerprint][]string, len(v.puts))
	for k, views := range v.puts {
		puts[k] = views
	}
	v.mu.Unlock()

	var out []string
	for key, views := range puts {
		for _, view := range views {
			dependents := v.tracker.dependents(view)
			if !fingerprintIn(dependents, key) {
				out = append(out, "forward view "+view+" of key "+string(key)+" missing from reverse index")
			}
		}
	}
	for _, key := range v.tracker.keys() {
		for _, view := range v.tracker.views(key) {
			if _, ok := puts[key]; !ok {
				out = append(out, "reverse index references untracked key "+string(key)+" via view "+view)
			}
		}
	}
	return out
}

func fingerprintIn(list []fraiseql.Fingerprint, key fraiseql.Fingerprint) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}
