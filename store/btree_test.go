package store

import (
	"testing"

	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeCacheGetSet(t *testing.T) {
	NewTestSuite(makeBase).GetSet(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	NewTestSuite(makeBase).CacheConflicts(t)
}

func TestBTreeFuzzIterator(t *testing.T) {
	NewTestSuite(makeBase).FuzzIterator(t)
}

func TestBTreeIteratorWithConflicts(t *testing.T) {
	NewTestSuite(makeBase).IteratorWithConflicts(t)
}

func TestLogableStoreShowsOps(t *testing.T) {
	kv, ops := LogableStore()

	assert.Nil(t, kv.Set([]byte("a"), []byte("1")))
	assert.Nil(t, kv.Delete([]byte("b")))

	shown := ops.ShowOps()
	assert.Equal(t, 2, len(shown))
	key, value, ok := shown[0].IsSetOp()
	assert.Equal(t, true, ok)
	assert.Equal(t, []byte("a"), key)
	assert.Equal(t, []byte("1"), value)
	_, _, ok = shown[1].IsSetOp()
	assert.Equal(t, false, ok)
}

func TestSliceIterator(t *testing.T) {
	models := []Model{Pair([]byte("a"), []byte("1")), Pair([]byte("b"), []byte("2"))}
	iter := NewSliceIterator(models)

	assert.Equal(t, true, iter.Valid())
	assert.Equal(t, []byte("a"), iter.Key())
	iter.Next()
	assert.Equal(t, []byte("2"), iter.Value())
	iter.Next()
	assert.Equal(t, false, iter.Valid())
	assert.Panics(t, func() { iter.Next() })
}

func TestNestedCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	assert.Nil(t, base.Set([]byte("k"), []byte("v")))

	outer := base.CacheWrap()
	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set([]byte("k"), []byte("changed")))
	assert.Nil(t, inner.Write())

	got, err := outer.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("changed"), got)

	outer.Discard()
	got, err = base.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}
