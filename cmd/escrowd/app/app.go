/*
Package app links together all the various components
to construct the escrowd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/app"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store/iavl"
	"github.com/iov-one/swap/x"
	"github.com/iov-one/swap/x/cash"
	"github.com/iov-one/swap/x/escrow"
	"github.com/iov-one/swap/x/sigs"
	"github.com/iov-one/swap/x/token"
	"github.com/iov-one/swap/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery. Extra decorators (ie. an indexer) are run last,
// right before the router. Nil decorators are skipped.
func Chain(extra ...swap.Decorator) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewPathTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
	).Chain(extra...)
}

// Router returns a router dispatching to all programs of the ledger.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cashctrl := cash.NewController(cash.NewBucket())
	tokens := token.NewController(authFn, cashctrl)

	cash.RegisterRoutes(r, authFn, cashctrl)
	sigs.RegisterRoutes(r, authFn)
	token.RegisterRoutes(r, authFn, tokens)
	escrow.RegisterRoutes(r, authFn, cashctrl, tokens)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/wallets", "/auth", "/tokens/mints", "/tokens/accounts" and "/offers".
func QueryRouter() swap.QueryRouter {
	r := swap.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(extra ...swap.Decorator) swap.Handler {
	authFn := Authenticator()
	return Chain(extra...).WithHandler(Router(authFn))
}

// Initializers loads the genesis state of every program.
func Initializers() swap.Initializer {
	return app.ChainInitializers(
		&cash.Initializer{},
		&token.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h swap.Handler, tx swap.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (swap.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is removed
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path)), nil
}
