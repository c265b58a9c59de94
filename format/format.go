// Package format turns bound values into the strings written to host nodes.
package format

import (
	"sort"

	"github.com/valyala/quicktemplate"
)

// Rawer is implemented by observable objects; the plain snapshot is what
// gets rendered.
type Rawer interface {
	Raw() map[string]any
}

// Value renders v for a text, markup or input binding. nil renders as the
// empty string, composites as JSON.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return write(func(qw *quicktemplate.QWriter) {
		writeValue(qw, v, false)
	})
}

// JSON renders v as JSON with sorted object keys.
func JSON(v any) string {
	return write(func(qw *quicktemplate.QWriter) {
		writeValue(qw, v, true)
	})
}

func write(fn func(qw *quicktemplate.QWriter)) string {
	bb := quicktemplate.AcquireByteBuffer()
	defer quicktemplate.ReleaseByteBuffer(bb)
	qw := quicktemplate.AcquireWriter(bb)
	defer quicktemplate.ReleaseWriter(qw)

	fn(qw.N())
	return string(bb.B)
}

func writeValue(w *quicktemplate.QWriter, v any, quoted bool) {
	switch x := v.(type) {
	case nil:
		if quoted {
			w.S("null")
		}
	case string:
		if quoted {
			w.Q(x)
		} else {
			w.S(x)
		}
	case bool:
		if x {
			w.S("true")
		} else {
			w.S("false")
		}
	case int:
		w.D(x)
	case int8:
		w.DL(int64(x))
	case int16:
		w.DL(int64(x))
	case int32:
		w.DL(int64(x))
	case int64:
		w.DL(x)
	case uint:
		w.DUL(uint64(x))
	case uint8:
		w.DUL(uint64(x))
	case uint16:
		w.DUL(uint64(x))
	case uint32:
		w.DUL(uint64(x))
	case uint64:
		w.DUL(x)
	case float32:
		w.F(float64(x))
	case float64:
		w.F(x)
	case Rawer:
		writeObject(w, x.Raw())
	case map[string]any:
		writeObject(w, x)
	case []any:
		w.S("[")
		for i, item := range x {
			if i > 0 {
				w.S(",")
			}
			writeValue(w, item, true)
		}
		w.S("]")
	default:
		if quoted {
			w.Q(Value(x))
			return
		}
		w.V(x)
	}
}

func writeObject(w *quicktemplate.QWriter, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w.S("{")
	for i, k := range keys {
		if i > 0 {
			w.S(",")
		}
		w.Q(k)
		w.S(":")
		writeValue(w, m[k], true)
	}
	w.S("}")
}
