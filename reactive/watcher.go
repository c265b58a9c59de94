package reactive

import (
	"encoding/binary"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

type RenderFunc func(value any) error

// Watcher binds one path of a store to a render callback. It learns its
// dependencies once, while it is being constructed, and is never removed.
type Watcher struct {
	id    uint64
	key   uint64
	store *Store
	path  string
	kind  string
	node  any
	cb    RenderFunc
}

type WatcherOption func(*Watcher)

// WithBinding ties the watcher to a host node and binding kind. Two watchers
// with the same node, path and kind share a key.
func WithBinding(node any, kind string) WatcherOption {
	return func(w *Watcher) {
		w.node = node
		w.kind = kind
	}
}

// NewWatcher opens the store's collection window, reads path once so every
// field along it records the watcher, and closes the window again.
func NewWatcher(store *Store, path string, cb RenderFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		id:    nextWatcherID(),
		store: store,
		path:  path,
		cb:    cb,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.key = BindingKey(w.node, w.path, w.kind, w.id)

	rctx := store.rctx
	rctx.begin(w)
	defer rctx.end()
	store.Get(path)

	rctx.logger.Debug("watcher created", "id", w.id, "path", path, "kind", w.kind)
	return w
}

// Update re-reads the watched path and hands the value to the callback.
func (w *Watcher) Update() error {
	v, _ := w.store.Get(w.path)
	w.store.rctx.hooks.Update(w)
	if w.cb == nil {
		return nil
	}
	return w.cb(v)
}

func (w *Watcher) ID() uint64 {
	return w.id
}

func (w *Watcher) Key() uint64 {
	return w.key
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) Kind() string {
	return w.kind
}

func (w *Watcher) Node() any {
	return w.node
}

// BindingKey hashes the identity of a binding. Without a node the fallback
// id is mixed in instead, so unbound watchers never collide.
func BindingKey(node any, path, kind string, fallback uint64) uint64 {
	var buf [8]byte
	d := xxhash.New()
	if ptr, ok := pointerOf(node); ok {
		binary.LittleEndian.PutUint64(buf[:], uint64(ptr))
	} else {
		binary.LittleEndian.PutUint64(buf[:], fallback)
		d.WriteString("~")
	}
	d.Write(buf[:])
	d.WriteString(path)
	d.Write([]byte{0})
	d.WriteString(kind)
	return d.Sum64()
}

func pointerOf(v any) (uintptr, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}
