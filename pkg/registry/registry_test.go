package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPlugin struct {
	name  string
	props map[string]any
}

func TestRegister(t *testing.T) {
	reg := New[testPlugin]()
	assert.Equal(t, 0, reg.Count())

	t.Run("register valid item", func(t *testing.T) {
		require.NoError(t, reg.Register("name", testPlugin{name: "name"}))
		assert.Equal(t, 1, reg.Count())
	})

	t.Run("register with empty name", func(t *testing.T) {
		err := reg.Register("", testPlugin{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("register duplicate", func(t *testing.T) {
		err := reg.Register("name", testPlugin{name: "other"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

		item, err := reg.Get("name")
		require.NoError(t, err)
		assert.Equal(t, "name", item.name)
	})
}

func TestGet(t *testing.T) {
	reg := New[testPlugin]()
	require.NoError(t, reg.Register("jq", testPlugin{name: "jq", props: map[string]any{"slot": "infoPlist"}}))

	item, err := reg.Get("jq")
	require.NoError(t, err)
	assert.Equal(t, "infoPlist", item.props["slot"])

	_, err = reg.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, "missing", errors.GetErrorDetails(err)["name"])
}

func TestRemove(t *testing.T) {
	reg := New[int]()
	for i, name := range []string{"a", "b", "c"} {
		require.NoError(t, reg.Register(name, i))
	}

	require.NoError(t, reg.Remove("b"))
	assert.False(t, reg.Has("b"))
	assert.Equal(t, []string{"a", "c"}, reg.Ordered())

	err := reg.Remove("b")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestListAndOrdered(t *testing.T) {
	reg := New[int]()
	for i, name := range []string{"version", "name", "package"} {
		require.NoError(t, reg.Register(name, i))
	}

	assert.Equal(t, []string{"name", "package", "version"}, reg.List())
	assert.Equal(t, []string{"version", "name", "package"}, reg.Ordered())

	ordered := reg.Ordered()
	ordered[0] = "mutated"
	assert.Equal(t, "version", reg.Ordered()[0])
}

func TestHas(t *testing.T) {
	reg := New[string]()
	require.NoError(t, reg.Register("scheme", "scheme"))

	tests := []struct {
		name string
		want bool
	}{
		{"scheme", true},
		{"lock", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Has(tt.name))
		})
	}
}

func TestClear(t *testing.T) {
	reg := New[int]()
	require.NoError(t, reg.Register("a", 1))
	require.NoError(t, reg.Register("b", 2))

	reg.Clear()
	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.List())
	assert.Empty(t, reg.Ordered())

	require.NoError(t, reg.Register("a", 3))
}

func TestConcurrency(t *testing.T) {
	reg := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("plugin-%d", i)
			assert.NoError(t, reg.Register(name, i))
			_, err := reg.Get(name)
			assert.NoError(t, err)
			_ = reg.List()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, reg.Count())
	assert.Len(t, reg.Ordered(), 50)
}

func TestMustRegister(t *testing.T) {
	reg := New[int]()
	assert.NotPanics(t, func() { MustRegister(reg, "a", 1) })
	assert.Panics(t, func() { MustRegister(reg, "a", 2) })
}

func TestMustGet(t *testing.T) {
	reg := New[int]()
	MustRegister(reg, "a", 7)
	assert.Equal(t, 7, MustGet(reg, "a"))
	assert.Panics(t, func() { MustGet(reg, "b") })
}

func TestWithFunctions(t *testing.T) {
	type apply func(props map[string]any) string
	reg := New[apply]()
	MustRegister[apply](reg, "echo", func(props map[string]any) string {
		return fmt.Sprint(props["line"])
	})

	fn := MustGet(reg, "echo")
	assert.Equal(t, "hello", fn(map[string]any{"line": "hello"}))
}

func BenchmarkGet(b *testing.B) {
	reg := New[int]()
	for i := 0; i < 100; i++ {
		MustRegister(reg, fmt.Sprintf("item-%d", i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Get("item-50")
	}
}
