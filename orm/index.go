package orm

import (
	"bytes"
	"math"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const nativeIdxPrefix = "_x."

// nativeIndex is an index implementation that is using a database native
// storage and query in order to maintain and provide access to an index.
//
// Every indexed value is stored under a separate key, so two entities
// indexed under the same value never write to the same database key.
type nativeIndex struct {
	name    string
	indexer Indexer
}

func newNativeIndex(name string, indexer Indexer) *nativeIndex {
	return &nativeIndex{
		name:    name,
		indexer: indexer,
	}
}

// Update updates the index. It should be called when any of the bucket
// entities has changed in the store.
//
// prev == nil means insert
// next == nil means delete
// both == nil is error
func (ix *nativeIndex) Update(db swap.KVStore, key []byte, prev, next Model) error {
	if next == nil && prev == nil {
		return errors.Wrap(errors.ErrInput, "update requires at least one non-nil model")
	}

	// Delete.
	if prev != nil {
		values, err := ix.indexer(key, prev)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		for _, v := range values {
			idxKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), v, key})
			if err != nil {
				return errors.Wrap(err, "build index key")
			}
			if err := db.Delete(idxKey); err != nil {
				return errors.Wrap(err, "db delete")
			}
		}
	}

	// Insert.
	if next != nil {
		values, err := ix.indexer(key, next)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		for _, v := range values {
			idxKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), v, key})
			if err != nil {
				return errors.Wrap(err, "build index key")
			}
			if err := db.Set(idxKey, []byte{}); err != nil {
				return errors.Wrap(err, "db set")
			}
		}
	}
	return nil
}

// Keys returns all entity keys that were indexed under given value, in
// ascending order.
func (ix *nativeIndex) Keys(db swap.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	lookupKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), value})
	if err != nil {
		return nil, errors.Wrap(err, "build index key")
	}

	// Index key is in format:
	//    <prefix>#<index name>#<value>#<entity id>
	// To find all entries for a value, iterate over all keys between:
	//    <prefix>#<index name>#<value> and <prefix>#<index name>#<value>{255}
	// Value 255 is reserved to make sure no indexed key is matching it
	// (see packNativeIdxKey function).
	start := lookupKey
	end := make([]byte, len(lookupKey)+1)
	copy(end, lookupKey)
	end[len(end)-1] = math.MaxUint8

	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var keys [][]byte
	for {
		k, _, err := it.Next()
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return keys, nil
			}
			return nil, err
		}
		chunks, err := unpackNativeIdxKey(k)
		if err != nil {
			return nil, err
		}
		if len(chunks) != 3 {
			return nil, errors.Wrapf(errors.ErrState, "index key with %d chunks", len(chunks))
		}
		keys = append(keys, chunks[2])
	}
}

// packNativeIdxKey serialize chunks into a native index key.
//
// When serialized, each chunk is prefixed with its length, encoded as a uint8
// value.  If a key is created from 3 chunks, "aaa", "" and "c", that key
// representation is:
//
//   _x.<3>aaa<0><1>c
//
// where <3>, <0> and <1> are that number values in bytes.
func packNativeIdxKey(chunks [][]byte) ([]byte, error) {
	var size int
	for _, b := range chunks {
		size += len(b) + 1
	}
	res := make([]byte, 0, size+len(nativeIdxPrefix))
	res = append(res, nativeIdxPrefix...)

	for _, b := range chunks {
		// MaxUint8 is reserved for the search purpose. MaxUint8 - 1 is
		// the greatest allowed length.
		if len(b) > math.MaxUint8-1 {
			return nil, errors.Wrapf(errors.ErrInput, "no chunk can be bigger than %d bytes", math.MaxUint8-1)
		}
		res = append(res, uint8(len(b)))
		res = append(res, b...)
	}
	return res, nil
}

// unpackNativeIdxKey decodes native index key and extracts all chunks that
// compose that key.
func unpackNativeIdxKey(b []byte) ([][]byte, error) {
	if !bytes.HasPrefix(b, []byte(nativeIdxPrefix)) {
		return nil, errors.Wrap(errors.ErrInput, "not a native index key")
	}
	b = b[len(nativeIdxPrefix):]
	res := make([][]byte, 0, 3)
	for len(b) > 0 {
		size := int(b[0])
		if len(b) < 1+size {
			return nil, errors.Wrap(errors.ErrInput, "malformed offset")
		}
		res = append(res, b[1:1+size])
		b = b[1+size:]
	}
	return res, nil
}
