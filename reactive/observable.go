package reactive

import (
	"reflect"
	"slices"
	"sort"
)

// Field is a single observable slot of an Object.
type Field struct {
	owner *Object
	key   string
	path  string
	value any
	dep   *Dep
}

// Get returns the current value. While a watcher is being constructed the
// read also records that watcher on the field's dep.
func (f *Field) Get() any {
	if w := f.owner.rctx.active; w != nil {
		f.dep.Add(w)
	}
	return f.value
}

// Peek returns the current value without tracking.
func (f *Field) Peek() any {
	return f.value
}

// Set stores v and notifies the dep. Writing the current value is a no-op.
func (f *Field) Set(v any) error {
	if same(f.value, v) {
		return nil
	}
	if obj := MakeObservable(f.owner.rctx, v, f.path); obj != nil {
		if old, ok := f.value.(*Object); ok {
			obj.inherit(old)
		}
		v = obj
	}
	f.value = v

	rctx := f.owner.rctx
	rctx.logger.Debug("field written", "path", f.path, "watchers", f.dep.Len())
	rctx.hooks.Write(f.path)
	return f.dep.Notify()
}

func (f *Field) Key() string {
	return f.key
}

func (f *Field) Path() string {
	return f.path
}

func (f *Field) Dep() *Dep {
	return f.dep
}

// Object is a composite whose every key is a Field.
type Object struct {
	rctx   *ReactiveContext
	prefix string
	fields map[string]*Field
}

// MakeObservable turns a map[string]any into an Object, converting nested
// maps first. Anything that is not composite yields nil. An Object of the
// same context is returned as is; one from another context is rebuilt from
// its raw snapshot so reads track in rctx.
func MakeObservable(rctx *ReactiveContext, v any, prefix string) *Object {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return nil
		}
		if x.rctx != rctx {
			return MakeObservable(rctx, x.Raw(), prefix)
		}
		return x
	case map[string]any:
		if x == nil {
			return nil
		}
		o := &Object{
			rctx:   rctx,
			prefix: prefix,
			fields: make(map[string]*Field, len(x)),
		}
		for key, val := range x {
			o.defineReactive(key, val)
		}
		return o
	default:
		return nil
	}
}

func (o *Object) defineReactive(key string, val any) *Field {
	path := joinPath(o.prefix, key)
	if nested := MakeObservable(o.rctx, val, path); nested != nil {
		val = nested
	}
	f := &Field{
		owner: o,
		key:   key,
		path:  path,
		value: val,
		dep:   newDep(o.rctx, path),
	}
	o.fields[key] = f
	return f
}

// inherit registers the watchers of old's fields on the fields of o with the
// same key, recursively, so bindings on nested paths survive the replacement
// of a parent object. Keys missing from o are dropped with their watchers.
func (o *Object) inherit(old *Object) {
	if o == old {
		return
	}
	for key, of := range old.fields {
		nf, ok := o.fields[key]
		if !ok {
			continue
		}
		for _, w := range of.dep.watchers {
			if !slices.Contains(nf.dep.watchers, w) {
				nf.dep.Add(w)
			}
		}
		oldObj, ok := of.value.(*Object)
		if !ok {
			continue
		}
		if newObj, ok := nf.value.(*Object); ok {
			newObj.inherit(oldObj)
		}
	}
}

func (o *Object) Get(key string) (any, bool) {
	f, ok := o.fields[key]
	if !ok {
		return nil, false
	}
	return f.Get(), true
}

// Set writes key, creating a live field when the key is new.
func (o *Object) Set(key string, v any) error {
	f, ok := o.fields[key]
	if !ok {
		o.defineReactive(key, v)
		o.rctx.hooks.Write(joinPath(o.prefix, key))
		return nil
	}
	return f.Set(v)
}

func (o *Object) Field(key string) (*Field, bool) {
	f, ok := o.fields[key]
	return f, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

func (o *Object) Len() int {
	return len(o.fields)
}

// Keys are sorted, map iteration order carries no meaning.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns an untracked plain copy of the object, recursively.
func (o *Object) Raw() map[string]any {
	m := make(map[string]any, len(o.fields))
	for k, f := range o.fields {
		if nested, ok := f.value.(*Object); ok {
			m[k] = nested.Raw()
			continue
		}
		m[k] = f.value
	}
	return m
}

// same is shallow identity: scalars by value, composites by reference.
func same(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Func:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !ta.Comparable() {
		return false
	}
	// structs holding interfaces can still panic on ==
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
