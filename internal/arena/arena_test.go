package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapInsertGetRemove(t *testing.T) {
	m := New[string]()
	id := m.Insert("buffer-a")

	v, ok := m.Get(id)
	require.True(t, ok)
	require.Equal(t, "buffer-a", v)

	removed, ok := m.Remove(id)
	require.True(t, ok)
	require.Equal(t, "buffer-a", removed)

	_, ok = m.Get(id)
	require.False(t, ok)
}

func TestMapValuesOrderedByInsertion(t *testing.T) {
	m := New[int]()
	ids := make([]ID, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, m.Insert(i))
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, m.Values())

	keys := m.Keys()
	require.Len(t, keys, 5)
	require.Equal(t, ids, keys)
}

func TestMapSetOverwrites(t *testing.T) {
	m := New[int]()
	id := m.Insert(1)
	m.Set(id, 2)
	v, ok := m.Get(id)
	require.True(t, ok)
	require.Equal(t, 2, v)
}
