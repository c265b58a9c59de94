package reactive_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/vbind/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopWriteIsSuppressed(t *testing.T) {
	shared := map[string]any{"k": 1}
	s := reactive.NewStore(map[string]any{
		"name":  "x",
		"count": 3,
		"list":  []int{1, 2},
	})

	calls := 0
	for _, path := range []string{"name", "count", "list"} {
		reactive.NewWatcher(s, path, func(any) error {
			calls++
			return nil
		})
	}

	require.NoError(t, s.Set("name", "x"))
	require.NoError(t, s.Set("count", 3))
	list, _ := s.Get("list")
	require.NoError(t, s.Set("list", list))
	assert.Equal(t, 0, calls)

	// a fresh slice with equal contents is a different reference
	require.NoError(t, s.Set("list", []int{1, 2}))
	assert.Equal(t, 1, calls)

	require.NoError(t, s.Set("obj", shared))
	obj, _ := s.Get("obj")
	require.NoError(t, s.Set("obj", obj))
	assert.Equal(t, 1, calls)
}

func TestChangeNotificationOrder(t *testing.T) {
	s := reactive.NewStore(map[string]any{"name": "x"})

	var order []int
	for i := 0; i < 3; i++ {
		reactive.NewWatcher(s, "name", func(v any) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, s.Set("name", "y"))
	assert.Equal(t, []int{0, 1, 2}, order)

	require.NoError(t, s.Set("name", "z"))
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, order)
}

func TestSequentialWritesAreNotBatched(t *testing.T) {
	s := reactive.NewStore(map[string]any{"n": 0})
	var seen []any
	reactive.NewWatcher(s, "n", func(v any) error {
		seen = append(seen, v)
		return nil
	})

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.Set("n", i))
	}
	assert.Equal(t, []any{1, 2, 3, 4}, seen)
}

func TestDuplicateRegistration(t *testing.T) {
	node := &struct{ name string }{"span"}

	t.Run("baseline keeps duplicates", func(t *testing.T) {
		s := reactive.NewStore(map[string]any{"name": "x"})
		calls := 0
		cb := func(any) error { calls++; return nil }
		reactive.NewWatcher(s, "name", cb, reactive.WithBinding(node, "text"))
		reactive.NewWatcher(s, "name", cb, reactive.WithBinding(node, "text"))

		dep, ok := s.Dep("name")
		require.True(t, ok)
		assert.Equal(t, 2, dep.Len())

		require.NoError(t, s.Set("name", "y"))
		assert.Equal(t, 2, calls)
	})

	t.Run("dedupe drops the same binding", func(t *testing.T) {
		s := reactive.NewStore(map[string]any{"name": "x"}, reactive.WithDedupe(true))
		calls := 0
		cb := func(any) error { calls++; return nil }
		first := reactive.NewWatcher(s, "name", cb, reactive.WithBinding(node, "text"))
		second := reactive.NewWatcher(s, "name", cb, reactive.WithBinding(node, "text"))
		reactive.NewWatcher(s, "name", cb, reactive.WithBinding(node, "html"))
		reactive.NewWatcher(s, "name", cb)
		reactive.NewWatcher(s, "name", cb)

		assert.Equal(t, first.Key(), second.Key())
		assert.NotEqual(t, first.ID(), second.ID())

		dep, _ := s.Dep("name")
		assert.Equal(t, 4, dep.Len())

		require.NoError(t, s.Set("name", "y"))
		assert.Equal(t, 4, calls)
	})
}

func TestFailFastAbortsDelivery(t *testing.T) {
	boom := errors.New("boom")
	s := reactive.NewStore(map[string]any{"name": "x"})

	var ran []string
	reactive.NewWatcher(s, "name", func(any) error {
		ran = append(ran, "first")
		return nil
	})
	failing := reactive.NewWatcher(s, "name", func(any) error {
		ran = append(ran, "second")
		return boom
	})
	reactive.NewWatcher(s, "name", func(any) error {
		ran = append(ran, "third")
		return nil
	})

	err := s.Set("name", "y")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var nerr *reactive.NotifyError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "name", nerr.Path)
	require.Len(t, nerr.Failures, 1)
	assert.Equal(t, failing.ID(), nerr.Failures[0].WatcherID)

	assert.Equal(t, []string{"first", "second"}, ran)

	// the write itself still happened
	v, _ := s.Get("name")
	assert.Equal(t, "y", v)
}

func TestFailFastPropagatesPanics(t *testing.T) {
	s := reactive.NewStore(map[string]any{"name": "x"})
	reactive.NewWatcher(s, "name", func(any) error {
		panic("render exploded")
	})

	assert.PanicsWithValue(t, "render exploded", func() {
		_ = s.Set("name", "y")
	})
}

func TestFailCollectRunsEveryWatcher(t *testing.T) {
	boom := errors.New("boom")
	s := reactive.NewStore(map[string]any{"name": "x"}, reactive.WithFailMode(reactive.FailCollect))

	var ran []string
	reactive.NewWatcher(s, "name", func(any) error {
		ran = append(ran, "first")
		return boom
	})
	reactive.NewWatcher(s, "name", func(any) error {
		ran = append(ran, "second")
		panic("kaboom")
	})
	reactive.NewWatcher(s, "name", func(any) error {
		ran = append(ran, "third")
		return nil
	})

	err := s.Set("name", "y")
	require.Error(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, ran)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, reactive.ErrWatcherPanic)

	var nerr *reactive.NotifyError
	require.ErrorAs(t, err, &nerr)
	assert.Len(t, nerr.Failures, 2)
	assert.Equal(t, "fail-collect", reactive.FailCollect.String())
}
