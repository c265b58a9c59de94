package format_test

import (
	"testing"
	"time"

	"github.com/delaneyj/vbind/format"
	"github.com/delaneyj/vbind/reactive"
	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "<b>x</b>", "<b>x</b>"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint8", uint8(255), "255"},
		{"float", 1.5, "1.5"},
		{"whole float", 3.0, "3"},
		{"bool", true, "true"},
		{"map", map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`},
		{"slice", []any{1, "two", nil}, `[1,"two",null]`},
		{"duration", 2 * time.Second, "2s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, format.Value(tc.in))
		})
	}
}

func TestObjectRendersAsJSON(t *testing.T) {
	s := reactive.NewStore(map[string]any{
		"user": map[string]any{"name": "x", "tags": []any{"a"}},
	})
	user, _ := s.Get("user")
	assert.Equal(t, `{"name":"x","tags":["a"]}`, format.Value(user))
}

func TestJSON(t *testing.T) {
	assert.Equal(t, `"plain"`, format.JSON("plain"))
	assert.Equal(t, `null`, format.JSON(nil))
	assert.Equal(t, `{"d":"1s"}`, format.JSON(map[string]any{"d": time.Second}))
}
