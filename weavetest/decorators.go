package weavetest

import (
	"sync/atomic"

	"github.com/iov-one/swap"
)

// Decorator is a mock implementation of the swap.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int64
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int64
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ swap.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	atomic.AddInt64(&d.checkCall, 1)

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	atomic.AddInt64(&d.deliverCall, 1)

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return int(atomic.LoadInt64(&d.checkCall))
}

func (d *Decorator) DeliverCallCount() int {
	return int(atomic.LoadInt64(&d.deliverCall))
}

func (d *Decorator) CallCount() int {
	return d.CheckCallCount() + d.DeliverCallCount()
}

// Decorate wraps the handler with a single decorator.
func Decorate(h swap.Handler, d swap.Decorator) swap.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn swap.Handler
	dc swap.Decorator
}

var _ swap.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
