package app

import (
	"context"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pathWriter stores "done" under the message path. It panics for the
// "test/panic" path.
type pathWriter struct{}

func (pathWriter) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	return &swap.CheckResult{}, nil
}

func (pathWriter) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	path := swap.GetPath(tx)
	if path == "test/panic" {
		panic("boom")
	}
	if err := db.Set([]byte(path), []byte("done")); err != nil {
		return nil, err
	}
	return &swap.DeliverResult{Log: path}, nil
}

// blockingHandler signals when it was entered and waits to be released.
type blockingHandler struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	return &swap.CheckResult{}, nil
}

func (b *blockingHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	b.entered <- struct{}{}
	<-b.release
	return &swap.DeliverResult{}, nil
}

func txWithAccounts(path string, accounts ...swap.Address) swap.Tx {
	return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path, Accounts: accounts}}
}

func TestRuntimeDeliverSavepoint(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	ok := NewRuntime(weavetest.WriteHandler{Key: []byte("k1"), Value: []byte("v1")})
	_, err := ok.Deliver(ctx, db, txWithAccounts("test/ok"))
	require.NoError(t, err)

	failing := NewRuntime(weavetest.WriteHandler{Key: []byte("k2"), Value: []byte("v2"), Err: errors.ErrState})
	_, err = failing.Deliver(ctx, db, txWithAccounts("test/fail"))
	require.True(t, errors.ErrState.Is(err))

	v, err := db.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)
	v, err = db.Get([]byte("k2"))
	require.NoError(t, err)
	assert.Nil(t, v, "failed transaction writes must be discarded")
}

func TestRuntimeAccountInUse(t *testing.T) {
	shared := weavetest.SequenceAddress(1)
	other := weavetest.SequenceAddress(2)

	h := &blockingHandler{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	rt := NewRuntime(h)
	db := newSharedStore(store.MemStore())
	ctx := context.Background()

	done := make(chan error)
	go func() {
		_, err := rt.Deliver(ctx, db, txWithAccounts("escrow/take", shared))
		done <- err
	}()
	<-h.entered

	_, err := rt.Deliver(ctx, db, txWithAccounts("escrow/refund", other, shared))
	assert.True(t, errors.ErrAccountInUse.Is(err), "got %v", err)

	close(h.release)
	require.NoError(t, <-done)

	// once released, the account can be used again
	go func() {
		_, err := rt.Deliver(ctx, db, txWithAccounts("escrow/refund", other, shared))
		done <- err
	}()
	<-h.entered
	require.NoError(t, <-done)
}

func TestAccountLocks(t *testing.T) {
	a := weavetest.SequenceAddress(1)
	b := weavetest.SequenceAddress(2)
	c := weavetest.SequenceAddress(3)

	locks := newAccountLocks()

	releaseAB, err := locks.acquire([]swap.Address{a, b, a})
	require.NoError(t, err)

	_, err = locks.acquire([]swap.Address{c, b})
	require.True(t, errors.ErrAccountInUse.Is(err))

	// a failed acquire must not keep any lock
	releaseC, err := locks.acquire([]swap.Address{c})
	require.NoError(t, err)
	releaseC()

	releaseAB()
	releaseAll, err := locks.acquire([]swap.Address{a, b, c})
	require.NoError(t, err)
	releaseAll()

	noop, err := locks.acquire(nil)
	require.NoError(t, err)
	noop()
}

func TestRuntimeDeliverBatch(t *testing.T) {
	db := store.MemStore()
	rt := NewRuntime(pathWriter{}).WithWorkers(3)

	txs := []swap.Tx{
		txWithAccounts("batch/a", weavetest.SequenceAddress(1)),
		txWithAccounts("batch/b", weavetest.SequenceAddress(2)),
		txWithAccounts("test/panic", weavetest.SequenceAddress(3)),
		txWithAccounts("batch/c", weavetest.SequenceAddress(4)),
		txWithAccounts("batch/d"),
	}
	results, errs := rt.DeliverBatch(context.Background(), db, txs)
	require.Len(t, results, len(txs))
	require.Len(t, errs, len(txs))

	for i, path := range []string{"batch/a", "batch/b", "", "batch/c", "batch/d"} {
		if path == "" {
			assert.True(t, errors.ErrPanic.Is(errs[i]), "got %v", errs[i])
			assert.Nil(t, results[i])
			continue
		}
		require.NoError(t, errs[i], path)
		assert.Equal(t, path, results[i].Log)
		v, err := db.Get([]byte(path))
		require.NoError(t, err)
		assert.Equal(t, []byte("done"), v)
	}

	has, err := db.Has([]byte("test/panic"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSharedStoreIterator(t *testing.T) {
	base := store.MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("b"), []byte("2")))
	shared := newSharedStore(base)

	cache := shared.CacheWrap()
	require.NoError(t, cache.Set([]byte("c"), []byte("3")))
	require.NoError(t, cache.Delete([]byte("a")))

	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	models, err := consume(it)
	require.NoError(t, err)
	assert.Equal(t, []swap.Model{
		swap.Pair([]byte("b"), []byte("2")),
		swap.Pair([]byte("c"), []byte("3")),
	}, models)

	// nothing reaches the store before the cache is written
	v, err := base.Get([]byte("c"))
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, cache.Write())
	v, err = base.Get([]byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), v)
	has, err := base.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

func consume(it swap.Iterator) ([]swap.Model, error) {
	defer it.Release()
	var res []swap.Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, swap.Pair(k, v))
	}
}
