package reactive

import (
	"fmt"
	"strings"
)

// Store is the observable root of one binding runtime.
type Store struct {
	rctx *ReactiveContext
	root *Object
}

// NewStore makes data observable. Data that is not composite leaves the
// store empty rather than failing.
func NewStore(data any, opts ...Option) *Store {
	rctx := NewReactiveContext(opts...)
	root := MakeObservable(rctx, data, "")
	if root == nil {
		rctx.logger.Debug("data is not composite, starting empty", "type", fmt.Sprintf("%T", data))
		root = MakeObservable(rctx, map[string]any{}, "")
	}
	return &Store{rctx: rctx, root: root}
}

func (s *Store) Context() *ReactiveContext {
	return s.rctx
}

func (s *Store) Root() *Object {
	return s.root
}

// Get resolves a dotted path. Every field along the way is read through its
// tracked getter.
func (s *Store) Get(path string) (any, bool) {
	obj, key, err := s.parent(path)
	if err != nil {
		return nil, false
	}
	return obj.Get(key)
}

// Set writes a dotted path. Missing leaf keys are created, missing or
// non-object parents are an error.
func (s *Store) Set(path string, v any) error {
	obj, key, err := s.parent(path)
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return obj.Set(key, v)
}

// Lookup returns the field at path without tracking the final read.
func (s *Store) Lookup(path string) (*Field, bool) {
	obj, key, err := s.parent(path)
	if err != nil {
		return nil, false
	}
	return obj.Field(key)
}

// Dep returns the registry of the field at path.
func (s *Store) Dep(path string) (*Dep, bool) {
	f, ok := s.Lookup(path)
	if !ok {
		return nil, false
	}
	return f.dep, true
}

func (s *Store) parent(path string) (*Object, string, error) {
	parts := strings.Split(path, ".")
	obj := s.root
	for _, part := range parts[:len(parts)-1] {
		v, ok := obj.Get(part)
		if !ok {
			return nil, "", ErrPathNotFound
		}
		next, ok := v.(*Object)
		if !ok {
			return nil, "", ErrNotObject
		}
		obj = next
	}
	return obj, parts[len(parts)-1], nil
}

// Proxy forwards reads and writes to one top-level key.
type Proxy struct {
	store *Store
	key   string
}

func (s *Store) Proxy(key string) *Proxy {
	return &Proxy{store: s, key: key}
}

func (p *Proxy) Key() string {
	return p.key
}

func (p *Proxy) Get() any {
	v, _ := p.store.root.Get(p.key)
	return v
}

func (p *Proxy) Set(v any) error {
	return p.store.root.Set(p.key, v)
}
