package weavetest

import (
	"sync/atomic"

	"github.com/iov-one/swap"
)

// Handler is a mock implementation of the swap.Handler interface. Calls are
// counted and can be made concurrently.
type Handler struct {
	checkCall   int64
	CheckResult swap.CheckResult
	CheckErr    error

	deliverCall   int64
	DeliverResult swap.DeliverResult
	DeliverErr    error
}

var _ swap.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	atomic.AddInt64(&h.checkCall, 1)
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	atomic.AddInt64(&h.deliverCall, 1)
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return int(atomic.LoadInt64(&h.checkCall))
}

func (h *Handler) DeliverCallCount() int {
	return int(atomic.LoadInt64(&h.deliverCall))
}

func (h *Handler) CallCount() int {
	return h.CheckCallCount() + h.DeliverCallCount()
}

// WriteHandler sets Key to Value in the store and returns Err. Use it to
// test that writes of a failed call are discarded.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ swap.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &swap.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &swap.DeliverResult{}, nil
}
