package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iov-one/swap"
	escrowd "github.com/iov-one/swap/cmd/escrowd/app"
	"github.com/iov-one/swap/cmd/escrowd/indexer"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/weavetest"
	"github.com/iov-one/swap/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestStartStandAlone(t *testing.T) {
	conf := &Config{
		Bind: "tcp://127.0.0.1:0",
		API:  APIConfig{Listen: "127.0.0.1:0"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- start(ctx, escrowd.GenerateApp, conf, log.NewNopLogger()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStartInvalidIndexer(t *testing.T) {
	conf := &Config{
		Bind:    "tcp://127.0.0.1:0",
		Indexer: IndexerConfig{DSN: "not a dsn ::"},
	}
	err := start(context.Background(), escrowd.GenerateApp, conf, log.NewNopLogger())
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
}

func TestLockedAppQueries(t *testing.T) {
	application, err := escrowd.GenerateApp("", log.NewNopLogger(), false)
	require.NoError(t, err)
	app := &lockedApp{Application: application}

	res := app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.True(t, errors.ErrNotFound.ABCICode() == res.Code, res.Log)
}

type recordingStore struct {
	mu     sync.Mutex
	events []indexer.Event
	closed bool
}

func (r *recordingStore) Insert(ctx context.Context, events ...indexer.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingStore) History(ctx context.Context, offer string) ([]indexer.Event, error) {
	return nil, nil
}

func (r *recordingStore) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func TestStartStopsIndexerWhenAppFails(t *testing.T) {
	rec := &recordingStore{}
	connect := connectIndexer
	connectIndexer = func(context.Context, string) (indexStore, error) { return rec, nil }
	defer func() { connectIndexer = connect }()

	var res swap.DeliverResult
	res.AddTag(escrow.TagAction, "make_offer")
	res.AddTag(escrow.TagOffer, "offer")
	failing := func(home string, logger log.Logger, debug bool, extra ...swap.Decorator) (abci.Application, error) {
		require.Len(t, extra, 1)
		h := weavetest.Decorate(&weavetest.Handler{DeliverResult: res}, extra[0])
		_, err := h.Deliver(swap.WithHeight(context.Background(), 1), store.MemStore(), nil)
		require.NoError(t, err)
		return nil, errors.Wrap(errors.ErrState, "no app")
	}

	conf := &Config{
		Bind:    "tcp://127.0.0.1:0",
		Indexer: IndexerConfig{DSN: "postgres://indexer", Buffer: 4},
	}
	err := start(context.Background(), failing, conf, log.NewNopLogger())
	require.True(t, errors.ErrState.Is(err), "got %v", err)

	// The indexer loop has flushed and exited before the store is closed.
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.True(t, rec.closed)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "make_offer", rec.events[0].Action)
}
