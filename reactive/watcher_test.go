package reactive_test

import (
	"testing"

	"github.com/delaneyj/vbind/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyCollectionScope(t *testing.T) {
	s := reactive.NewStore(map[string]any{"a": 1, "b": 2})

	// reads outside any construction window are not tracked
	s.Get("b")

	w := reactive.NewWatcher(s, "a", func(any) error { return nil })
	assert.Nil(t, s.Context().Active(), "slot must be cleared after construction")

	s.Get("b")

	depA, _ := s.Dep("a")
	depB, _ := s.Dep("b")
	require.Equal(t, 1, depA.Len())
	assert.Same(t, w, depA.Watchers()[0])
	assert.Equal(t, 0, depB.Len())
}

func TestNestedPathCollectsEveryHop(t *testing.T) {
	s := reactive.NewStore(map[string]any{
		"user": map[string]any{"name": "x"},
	})

	var seen []any
	reactive.NewWatcher(s, "user.name", func(v any) error {
		seen = append(seen, v)
		return nil
	})

	user, _ := s.Dep("user")
	name, _ := s.Dep("user.name")
	assert.Equal(t, 1, user.Len())
	assert.Equal(t, 1, name.Len())

	require.NoError(t, s.Set("user", map[string]any{"name": "z"}))
	assert.Equal(t, []any{"z"}, seen)
}

func TestWatcherOnMissingPath(t *testing.T) {
	s := reactive.NewStore(map[string]any{})
	var seen []any
	w := reactive.NewWatcher(s, "ghost", func(v any) error {
		seen = append(seen, v)
		return nil
	})

	require.NoError(t, w.Update())
	assert.Equal(t, []any{nil}, seen)

	// a field created later was never read by the watcher
	require.NoError(t, s.Set("ghost", 1))
	assert.Equal(t, []any{nil}, seen)
}

func TestIndependentStoresDoNotShareSlot(t *testing.T) {
	s1 := reactive.NewStore(map[string]any{"a": 1})
	s2 := reactive.NewStore(map[string]any{"a": 1})

	calls := 0
	reactive.NewWatcher(s1, "a", func(v any) error {
		calls++
		// constructing on another store from inside a callback is fine
		reactive.NewWatcher(s2, "a", func(any) error { return nil })
		return nil
	})

	require.NoError(t, s1.Set("a", 2))
	assert.Equal(t, 1, calls)

	dep, _ := s2.Dep("a")
	assert.Equal(t, 1, dep.Len())
	dep1, _ := s1.Dep("a")
	assert.Equal(t, 1, dep1.Len())
}

func TestWatcherAccessors(t *testing.T) {
	s := reactive.NewStore(map[string]any{"a": 1})
	node := &struct{}{}
	w := reactive.NewWatcher(s, "a", nil, reactive.WithBinding(node, "text"))

	assert.Equal(t, "a", w.Path())
	assert.Equal(t, "text", w.Kind())
	assert.Same(t, node, w.Node())
	assert.Equal(t, reactive.BindingKey(node, "a", "text", 0), w.Key())
	assert.NoError(t, w.Update())
}
