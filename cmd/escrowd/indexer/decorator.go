package indexer

import (
	"context"
	"time"

	"github.com/iov-one/swap"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DefaultBuffer is the number of events waiting to be written before
	// new ones are dropped.
	DefaultBuffer = 1024

	maxBatch      = 100
	flushInterval = time.Second
)

// Decorator collects the offer events of delivered transactions.
type Decorator struct {
	events chan Event
}

var _ swap.Decorator = (*Decorator)(nil)

// NewDecorator returns a decorator buffering up to size events.
func NewDecorator(size int) *Decorator {
	if size <= 0 {
		size = DefaultBuffer
	}
	return &Decorator{events: make(chan Event, size)}
}

func (d *Decorator) Check(ctx swap.Context, store swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	return next.Check(ctx, store, tx)
}

// Deliver queues the event of a successful transaction. The transaction
// never blocks on the indexer: when the buffer is full the event is
// dropped and logged.
func (d *Decorator) Deliver(ctx swap.Context, store swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	res, err := next.Deliver(ctx, store, tx)
	if err != nil {
		return res, err
	}
	if e, ok := EventFromResult(ctx, res); ok {
		select {
		case d.events <- e:
		default:
			swap.GetLogger(ctx).Error("indexer buffer full, event dropped",
				"action", e.Action, "offer", e.Offer)
		}
	}
	return res, nil
}

// Run writes queued events to the store until the context is cancelled.
// Events are written in batches, at least once per second. Remaining
// events are flushed before returning.
func (d *Decorator) Run(ctx context.Context, store Store, logger log.Logger) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, maxBatch)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := store.Insert(ctx, batch...); err != nil {
			logger.Error("cannot index offer events", "count", len(batch), "err", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case e := <-d.events:
					batch = append(batch, e)
				default:
					flush(context.Background())
					return ctx.Err()
				}
			}
		case e := <-d.events:
			batch = append(batch, e)
			if len(batch) >= maxBatch {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}
