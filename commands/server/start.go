package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/cmd/escrowd/api"
	"github.com/iov-one/swap/cmd/escrowd/indexer"
	"github.com/iov-one/swap/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool, extra ...swap.Decorator) (abci.Application, error)

const shutdownTimeout = 5 * time.Second

// StartCmd runs the ABCI server until interrupted, together with the HTTP
// API and the offer indexer when they are configured.
func StartCmd(gen AppGenerator, node *Node) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return start(ctx, gen, &node.Config, node.Logger)
		},
	}
}

// indexStore is where the indexer writes offer events and the API reads
// their history from.
type indexStore interface {
	indexer.Store
	api.History
	Close()
}

var connectIndexer = func(ctx context.Context, dsn string) (indexStore, error) {
	return indexer.Connect(ctx, dsn)
}

func start(ctx context.Context, gen AppGenerator, conf *Config, logger log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// abort stops the goroutines already running before returning err.
	abort := func(err error) error {
		cancel()
		_ = g.Wait()
		return err
	}

	var (
		decorators []swap.Decorator
		history    api.History
	)
	if conf.Indexer.DSN != "" {
		db, err := connectIndexer(ctx, conf.Indexer.DSN)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		defer db.Close()
		history = db

		dec := indexer.NewDecorator(conf.Indexer.Buffer)
		decorators = append(decorators, dec)
		g.Go(func() error {
			err := dec.Run(ctx, db, logger.With("module", "indexer"))
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	application, err := gen(conf.Home, logger, conf.Debug, decorators...)
	if err != nil {
		return abort(err)
	}
	app := &lockedApp{Application: application}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return abort(errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err))
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return abort(errors.Wrapf(errors.ErrState, "cannot start abci server: %s", err))
	}

	if conf.API.Listen != "" {
		hs := &http.Server{
			Addr:              conf.API.Listen,
			Handler:           api.NewRouter(app, history),
			ReadHeaderTimeout: 10 * time.Second,
		}
		logger.Info("Starting API", "listen", conf.API.Listen)
		g.Go(func() error {
			if err := hs.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return hs.Shutdown(sctx)
		})
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	if err := svr.Stop(); err != nil {
		logger.Error("Cannot stop abci server", "err", err)
	}
	return g.Wait()
}

// lockedApp serializes all calls to the application. The socket server
// locks between its own connections only, while the API queries from
// another goroutine.
type lockedApp struct {
	mu sync.Mutex
	abci.Application
}

func (a *lockedApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.Info(req)
}

func (a *lockedApp) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.SetOption(req)
}

func (a *lockedApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.Query(req)
}

func (a *lockedApp) CheckTx(tx []byte) abci.ResponseCheckTx {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.CheckTx(tx)
}

func (a *lockedApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.InitChain(req)
}

func (a *lockedApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.BeginBlock(req)
}

func (a *lockedApp) DeliverTx(tx []byte) abci.ResponseDeliverTx {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.DeliverTx(tx)
}

func (a *lockedApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.EndBlock(req)
}

func (a *lockedApp) Commit() abci.ResponseCommit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Application.Commit()
}
