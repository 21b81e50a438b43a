/*
Package indexer keeps the history of offers in Postgres.

A decorator collects the lifecycle tags of every delivered escrow message
and a background loop writes them in batches, so that the ledger never
waits for the database.
*/
package indexer

import (
	"context"
	"time"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/x/escrow"
)

// Event is a change in the lifecycle of an offer.
type Event struct {
	Height int64     `json:"height"`
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Offer  string    `json:"offer"`
	Maker  string    `json:"maker"`
	Taker  string    `json:"taker,omitempty"`
}

// EventFromResult reads the offer event tagged on a delivered result. It
// returns false if the result carries no offer action.
func EventFromResult(ctx swap.Context, res *swap.DeliverResult) (Event, bool) {
	if res == nil {
		return Event{}, false
	}
	action, ok := res.Tag(escrow.TagAction)
	if !ok {
		return Event{}, false
	}
	offer, ok := res.Tag(escrow.TagOffer)
	if !ok {
		return Event{}, false
	}
	e := Event{Action: action, Offer: offer}
	e.Maker, _ = res.Tag(escrow.TagMaker)
	e.Taker, _ = res.Tag(escrow.TagTaker)
	e.Height, _ = swap.GetHeight(ctx)
	if t, err := swap.BlockTime(ctx); err == nil {
		e.Time = t
	}
	return e, true
}

// Store persists events.
type Store interface {
	Insert(ctx context.Context, events ...Event) error
}
