package app

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder swap.TxDecoder
	handler swap.Handler
	runtime *Runtime
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application. Delivered transactions
// are executed by a Runtime, each one in its own savepoint.
func NewBaseApp(
	store *StoreApp,
	decoder swap.TxDecoder,
	handler swap.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		runtime:  NewRuntime(handler),
		debug:    debug,
	}
}

// Runtime returns the runtime executing delivered transactions.
func (b BaseApp) Runtime() *Runtime {
	return b.runtime
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return swap.DeliverTxError(err, b.debug)
	}

	ctx := swap.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", swap.GetPath(tx))

	res, err := b.runtime.Deliver(ctx, b.DeliverStore(), tx)
	return swap.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return swap.CheckTxError(err, b.debug)
	}

	ctx := swap.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", swap.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return swap.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx swap.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
