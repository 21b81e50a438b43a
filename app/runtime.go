package app

import (
	"sync"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of transactions a Runtime executes at once
// when delivering a batch.
const DefaultWorkers = 8

// Runtime executes transactions. Every transaction runs inside of its own
// savepoint: all its writes are applied when it succeeds and discarded
// when it fails.
//
// Transactions declare the accounts they write to (see
// swap.AccountLister). While a transaction is executed, its accounts are
// locked. A transaction that needs an account locked by another one fails
// with errors.ErrAccountInUse, without being executed.
type Runtime struct {
	handler swap.Handler
	workers int
	locks   *accountLocks
}

// NewRuntime returns a runtime executing transactions with given handler.
func NewRuntime(h swap.Handler) *Runtime {
	return &Runtime{
		handler: h,
		workers: DefaultWorkers,
		locks:   newAccountLocks(),
	}
}

// WithWorkers sets how many transactions of a batch are executed at once.
func (r *Runtime) WithWorkers(n int) *Runtime {
	if n < 1 {
		n = 1
	}
	r.workers = n
	return r
}

// Deliver executes a single transaction.
func (r *Runtime) Deliver(ctx swap.Context, db swap.CacheableKVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	release, err := r.locks.acquire(swap.WritableAccounts(tx))
	if err != nil {
		return nil, err
	}
	defer release()

	cache := db.CacheWrap()
	res, err := r.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

// DeliverBatch executes all transactions concurrently. Result and error of
// each transaction are returned at the index of the transaction.
//
// Transactions writing to the same account are not serialized. When two of
// them run at the same time, one fails with errors.ErrAccountInUse.
func (r *Runtime) DeliverBatch(ctx swap.Context, db swap.CacheableKVStore, txs []swap.Tx) ([]*swap.DeliverResult, []error) {
	results := make([]*swap.DeliverResult, len(txs))
	errs := make([]error, len(txs))
	shared := newSharedStore(db)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = errors.Wrap(errors.ErrState, err.Error())
				return nil
			}
			results[i], errs[i] = r.deliverRecover(gctx, shared, tx)
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}

// deliverRecover makes sure a panic of one transaction does not take down
// the whole batch.
func (r *Runtime) deliverRecover(ctx swap.Context, db swap.CacheableKVStore, tx swap.Tx) (res *swap.DeliverResult, err error) {
	defer errors.Recover(&err)
	return r.Deliver(ctx, db, tx)
}

// accountLocks is the table of accounts written by transactions in
// flight.
type accountLocks struct {
	mu     sync.Mutex
	locked map[swap.Address]struct{}
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locked: make(map[swap.Address]struct{})}
}

// acquire locks all given accounts or none of them.
func (l *accountLocks) acquire(accounts []swap.Address) (func(), error) {
	if len(accounts) == 0 {
		return func() {}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	uniq := make([]swap.Address, 0, len(accounts))
	seen := make(map[swap.Address]struct{}, len(accounts))
	for _, a := range accounts {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		if _, ok := l.locked[a]; ok {
			return nil, errors.Wrapf(errors.ErrAccountInUse, "account %s", a)
		}
		uniq = append(uniq, a)
	}
	for _, a := range uniq {
		l.locked[a] = struct{}{}
	}

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for _, a := range uniq {
			delete(l.locked, a)
		}
	}, nil
}

// sharedStore serializes access to a store that is not safe for concurrent
// use. Iterators are materialized while the lock is held. Writes of a
// batch are applied under a single lock, so that a savepoint is never
// visible half written.
type sharedStore struct {
	mu sync.RWMutex
	db swap.KVStore
}

var _ swap.CacheableKVStore = (*sharedStore)(nil)

func newSharedStore(db swap.KVStore) *sharedStore {
	return &sharedStore{db: db}
}

func (s *sharedStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Get(key)
}

func (s *sharedStore) Has(key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Has(key)
}

func (s *sharedStore) Iterator(start, end []byte) (swap.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return materialize(it)
}

func (s *sharedStore) ReverseIterator(start, end []byte) (swap.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.db.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return materialize(it)
}

func materialize(it swap.Iterator) (swap.Iterator, error) {
	defer it.Release()
	var models []swap.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return store.NewSliceIterator(models), nil
		}
		if err != nil {
			return nil, err
		}
		models = append(models, swap.Pair(key, value))
	}
}

func (s *sharedStore) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Set(key, value)
}

func (s *sharedStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Delete(key)
}

func (s *sharedStore) NewBatch() swap.Batch {
	return &sharedBatch{store: s}
}

func (s *sharedStore) CacheWrap() swap.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// sharedBatch collects operations and applies them all at once.
type sharedBatch struct {
	store *sharedStore
	ops   []store.Op
}

func (b *sharedBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *sharedBatch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *sharedBatch) Write() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		if err := op.Apply(b.store.db); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}
