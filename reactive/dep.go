package reactive

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Dep is the list of watchers interested in one field.
type Dep struct {
	rctx *ReactiveContext
	path string

	// Watchers in arrival order, duplicates allowed unless the context dedupes
	watchers []*Watcher
	// Binding keys already registered, only consulted when deduping
	keys mapset.Set[uint64]
}

func newDep(rctx *ReactiveContext, path string) *Dep {
	return &Dep{
		rctx: rctx,
		path: path,
		keys: mapset.NewThreadUnsafeSet[uint64](),
	}
}

// Add appends w and reports whether it was recorded. Without dedupe every
// call is recorded.
func (d *Dep) Add(w *Watcher) bool {
	if d.rctx.dedupe && !d.keys.Add(w.Key()) {
		d.rctx.logger.Debug("duplicate binding ignored", "path", d.path, "watcher", w.ID())
		return false
	}
	d.watchers = append(d.watchers, w)
	return true
}

// Notify updates every watcher in registration order. Watchers added while
// the notification runs are not part of it.
func (d *Dep) Notify() error {
	watchers := slices.Clone(d.watchers)
	d.rctx.hooks.Notify(d.path, len(watchers))

	if d.rctx.failMode == FailCollect {
		var failures []WatcherFailure
		for _, w := range watchers {
			if err := safeUpdate(w); err != nil {
				failures = append(failures, WatcherFailure{WatcherID: w.ID(), Path: w.Path(), Err: err})
			}
		}
		if len(failures) > 0 {
			return &NotifyError{Path: d.path, Failures: failures}
		}
		return nil
	}

	for _, w := range watchers {
		if err := w.Update(); err != nil {
			return &NotifyError{
				Path:     d.path,
				Failures: []WatcherFailure{{WatcherID: w.ID(), Path: w.Path(), Err: err}},
			}
		}
	}
	return nil
}

func (d *Dep) Len() int {
	return len(d.watchers)
}

func (d *Dep) Path() string {
	return d.path
}

func (d *Dep) Watchers() []*Watcher {
	return slices.Clone(d.watchers)
}

func safeUpdate(w *Watcher) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWatcherPanic, r)
		}
	}()
	return w.Update()
}
