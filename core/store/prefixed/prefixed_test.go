package prefixed

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verivote/verivote/internal/testing/fake"
)

func TestSnapshot(t *testing.T) {
	base := fake.NewSnapshot()

	snapA := NewSnapshot("A", base)
	snapB := NewSnapshot("B", base)

	require.NoError(t, snapA.Set([]byte("key"), []byte("valueA")))
	require.NoError(t, snapB.Set([]byte("key"), []byte("valueB")))

	// Different prefixes never collide on the same base key.
	value, err := snapA.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("valueA"), value)

	value, err = snapB.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("valueB"), value)

	// The base store only sees hashed keys.
	value, err = base.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = base.Get(NewPrefixedKey([]byte("A"), []byte("key")))
	require.NoError(t, err)
	require.Equal(t, []byte("valueA"), value)

	require.NoError(t, snapA.Delete([]byte("key")))

	value, err = snapA.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = snapB.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("valueB"), value)
}

func TestReadable(t *testing.T) {
	base := fake.NewSnapshot()

	snap := NewSnapshot("A", base)
	require.NoError(t, snap.Set([]byte("key"), []byte("value")))

	r := NewReadable("A", base)

	value, err := r.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)
}

func TestNewPrefixedKey(t *testing.T) {
	key := NewPrefixedKey([]byte("prefix"), []byte("key"))
	require.Len(t, key, 32)

	require.Equal(t, key, NewPrefixedKey([]byte("prefix"), []byte("key")))

	// The segments are length-prefixed: moving a byte across the boundary
	// yields a different key.
	require.NotEqual(t,
		NewPrefixedKey([]byte("ab"), []byte("c")),
		NewPrefixedKey([]byte("a"), []byte("bc")))
}
