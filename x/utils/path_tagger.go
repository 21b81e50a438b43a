package utils

import (
	"github.com/iov-one/swap"
)

// PathTagger will inspect the message being executed and add a tag
// `path = msg.Path()` to every successful delivery, so clients have a
// standard way to search / subscribe to a kind of transaction.
//
// Put it last in the decorator chain, right before the router.
type PathTagger struct{}

var _ swap.Decorator = PathTagger{}

// PathKey is used by PathTagger as the Key in the Tag it appends
const PathKey = "path"

// NewPathTagger creates a PathTagger decorator
func NewPathTagger() PathTagger {
	return PathTagger{}
}

// Check just passes the request along
func (PathTagger) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (PathTagger) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.AddTag(PathKey, msg.Path())
	return res, nil
}
