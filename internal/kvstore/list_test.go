package kvstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListHelpers(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		key := []byte("/blocks")

		b, err := s.BeginBlock(1, "hash-1")
		require.NoError(t, err)

		n, err := ListLength(b, key)
		require.NoError(t, err)
		require.Zero(t, n)

		for i, v := range []string{"a", "b", "c"} {
			idx, err := ListAppend(b, key, []byte(v))
			require.NoError(t, err)
			require.Equal(t, uint32(i), idx)
		}

		// visible inside the block before commit
		last, ok, err := ListLast(b, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "c", string(last))
		require.NoError(t, b.Commit())

		all, err := ListAll(s, key)
		require.NoError(t, err)
		require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, all)

		v, ok, err := ListGet(s, key, 1)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "b", string(v))

		_, ok, err = ListGet(s, key, 3)
		require.NoError(t, err)
		require.False(t, ok)

		raw, ok, err := s.Get([]byte("/blocks/length"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte{3, 0, 0, 0}, raw)

		b, err = s.BeginBlock(2, "hash-2")
		require.NoError(t, err)
		require.NoError(t, ListTruncate(b, key, 1))
		require.NoError(t, b.Commit())

		all, err = ListAll(s, key)
		require.NoError(t, err)
		require.Equal(t, [][]byte{[]byte("a")}, all)
		requireAbsent(t, s, "/blocks/1")
	})
}

func TestListAll_MissingElementIsAnError(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		b, err := s.BeginBlock(1, "hash-1")
		require.NoError(t, err)
		require.NoError(t, PutUint32(b, []byte("/l/length"), 2))
		require.NoError(t, b.Put([]byte("/l/0"), []byte("x")))
		require.NoError(t, b.Commit())

		_, err = ListAll(s, []byte("/l"))
		require.ErrorContains(t, err, "element 1 of 2 is missing")
	})
}

func TestGetUint32_RejectsBadWidth(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		b, err := s.BeginBlock(1, "hash-1")
		require.NoError(t, err)
		require.NoError(t, b.Put([]byte("n"), []byte{1, 2, 3}))
		require.NoError(t, b.Commit())

		_, _, err = GetUint32(s, []byte("n"))
		require.Error(t, err)

		_, ok, err := GetUint32(s, []byte("missing"))
		require.NoError(t, err)
		require.False(t, ok)
	})
}
