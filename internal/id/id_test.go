package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate(BookPrefix)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"book", "b", "shelf"} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			require.True(t, strings.HasPrefix(id, prefix+"-"), "ID: %s", id)

			suffix := strings.TrimPrefix(id, prefix+"-")
			assert.Len(t, suffix, size)
			for _, char := range suffix {
				assert.True(t, strings.ContainsRune(alphabet, char), "character %c outside alphabet", char)
			}
		})
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed(BookPrefix)

	a, err := gen.NewID()
	require.NoError(t, err)
	b, err := gen.NewID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "book-"))
	assert.NotEqual(t, a, b)
}

func TestGeneratorFunc(t *testing.T) {
	gen := GeneratorFunc(func() (string, error) { return "fixed", nil })

	got, err := gen.NewID()
	require.NoError(t, err)
	assert.Equal(t, "fixed", got)
}

func TestMustGenerate_Format(t *testing.T) {
	id := MustGenerate("test")

	assert.True(t, strings.HasPrefix(id, "test-"))
	assert.Len(t, id, len("test")+1+size)
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate(BookPrefix)
	}
}
