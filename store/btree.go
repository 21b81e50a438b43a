package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/swap/errors"
)

// DefaultFreeListSize bounds the nodes kept for reuse by a cache tree.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives any KVStore an in-memory write cache.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap starts a cache whose writes reach the store only on Write.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty in-memory ledger state. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser exposes the pending operations of a batch, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore is a MemStore that also records every write.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap keeps pending writes in a btree, in front of a read only
// backing store. Writes are also queued in a batch that is applied on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches writes to batch over kv. A nil free list
// allocates a new one, nested caches share the parent's.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap nests a cache, used as a savepoint by the runtime.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies the pending writes to the backing store and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops the cached items. Pending batch writes are not undone.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	return b.batch.Delete(key)
}

// cached returns the cached item for key, or nil when the backing store
// must answer.
func (b BTreeCacheWrap) cached(key []byte) (btree.Item, error) {
	switch item := b.bt.Get(bkey{key}).(type) {
	case nil, setItem, deletedItem:
		return item, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	item, err := b.cached(key)
	if err != nil {
		return nil, err
	}
	switch item := item.(type) {
	case setItem:
		return item.value, nil
	case deletedItem:
		return nil, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	item, err := b.cached(key)
	if err != nil {
		return false, err
	}
	switch item.(type) {
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	}
	return b.back.Has(key)
}

// Iterator merges cached and backing keys in [start, end), ascending.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(collectRange(b.bt, start, end), parent, false), nil
}

// ReverseIterator merges cached and backing keys in [start, end),
// descending.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := collectRange(b.bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newMergeIterator(items, parent, true), nil
}

// keyer is implemented by every item stored in the cache tree.
type keyer interface {
	Key() []byte
}

type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less orders items by key. Every item in the tree must be a keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}
