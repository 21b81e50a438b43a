package store

import (
	"testing"

	"github.com/iov-one/swap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMemStore() (CacheableKVStore, func()) {
	return BTreeCacheable{EmptyKVStore{}}.CacheWrap(), func() {}
}

func TestBTreeCacheGetSet(t *testing.T) {
	NewTestSuite(makeMemStore).GetSet(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	NewTestSuite(makeMemStore).CacheConflicts(t)
}

func TestBTreeCacheFuzzIterator(t *testing.T) {
	NewTestSuite(makeMemStore).FuzzIterator(t)
}

func TestBTreeCacheIteratorWithConflicts(t *testing.T) {
	NewTestSuite(makeMemStore).IteratorWithConflicts(t)
}

// TestSliceIterator makes sure the basic slice iterator works
func TestSliceIterator(t *testing.T) {
	const Size = 10

	models := randModels(Size, 8, 40)
	iter := NewSliceIterator(models)
	for i := 0; i < Size; i++ {
		k, v, err := iter.Next()
		require.NoError(t, err)
		assert.Equal(t, models[i].Key, k)
		assert.Equal(t, models[i].Value, v)
	}
	_, _, err := iter.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))

	// iterator is empty after release
	trash := NewSliceIterator(models)
	trash.Release()
	_, _, err = trash.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
}

func TestLogableStore(t *testing.T) {
	kv, ops := LogableStore()
	require.NoError(t, kv.Set([]byte("a"), []byte("1")))
	require.NoError(t, kv.Delete([]byte("b")))

	got := ops.ShowOps()
	require.Len(t, got, 2)
	k, v, ok := got[0].IsSetOp()
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), k)
	assert.Equal(t, []byte("1"), v)
	_, _, ok = got[1].IsSetOp()
	assert.False(t, ok)
	assert.Equal(t, []byte("b"), got[1].Key())
}
