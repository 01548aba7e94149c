package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapKeepsInsertionOrder(t *testing.T) {
	var m Map[int]
	for i, k := range []string{"wrist", "front", "alpha", "top"} {
		require.NoError(t, m.Set(k, i))
	}

	var keys []string
	var values []int
	for k, v := range m.All() {
		keys = append(keys, k)
		values = append(values, v)
	}

	assert.Equal(t, []string{"wrist", "front", "alpha", "top"}, keys)
	assert.Equal(t, []int{0, 1, 2, 3}, values)
	assert.Equal(t, keys, m.Keys())
	assert.Equal(t, 4, m.Len())
}

func TestMapDuplicate(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.Set("front", "a"))
	assert.Error(t, m.Set("front", "b"))

	v, ok := m.Get("front")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, m.Len())
}

func TestMapAllStopsEarly(t *testing.T) {
	var m Map[int]
	m.Set("a", 1)
	m.Set("b", 2)

	n := 0
	for range m.All() {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected iteration to stop after 1 element, got %d", n)
	}
}
