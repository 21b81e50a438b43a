package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r swap.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&CreateMintMsg{}, CreateMintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&CreateAccountMsg{}, CreateAccountHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MintToMsg{}, MintToHandler{ctrl: ctrl})
	r.Handle(&TransferMsg{}, TransferHandler{ctrl: ctrl})
}

// RegisterQuery registers mints under "/tokens/mints" and token accounts
// under "/tokens/accounts".
func RegisterQuery(qr swap.QueryRouter) {
	NewMintBucket().Register("tokens/mints", qr)
	NewAccountBucket().Register("tokens/accounts", qr)
}

// CreateMintHandler creates new assets.
type CreateMintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swap.Handler = CreateMintHandler{}

func (h CreateMintHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{}, nil
}

func (h CreateMintHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.InitializeMint(ctx, db, msg.Payer, msg.Mint, msg.Decimals, msg.Authority); err != nil {
		return nil, err
	}
	return &swap.DeliverResult{Data: msg.Mint.Bytes()}, nil
}

func (h CreateMintHandler) validate(ctx swap.Context, tx swap.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !x.HasAllAddresses(ctx, h.auth, []swap.Address{msg.Payer, msg.Mint}) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer and mint must sign")
	}
	return &msg, nil
}

// CreateAccountHandler creates associated token accounts.
type CreateAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swap.Handler = CreateAccountHandler{}

func (h CreateAccountHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{}, nil
}

func (h CreateAccountHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	create := h.ctrl.CreateAccount
	if msg.Idempotent {
		create = h.ctrl.CreateAccountIdempotent
	}
	addr, err := create(ctx, db, msg.Payer, msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	return &swap.DeliverResult{Data: addr.Bytes()}, nil
}

func (h CreateAccountHandler) validate(ctx swap.Context, tx swap.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer must sign")
	}
	return &msg, nil
}

// MintToHandler issues tokens. Authorization is verified by the
// controller.
type MintToHandler struct {
	ctrl Controller
}

var _ swap.Handler = MintToHandler{}

func (h MintToHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	var msg MintToMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &swap.CheckResult{}, nil
}

func (h MintToHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	var msg MintToMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.MintTo(ctx, db, msg.Mint, msg.Account, msg.Amount, Signed(msg.Authority)); err != nil {
		return nil, err
	}
	return &swap.DeliverResult{}, nil
}

// TransferHandler moves tokens. Authorization is verified by the
// controller.
type TransferHandler struct {
	ctrl Controller
}

var _ swap.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	var msg TransferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &swap.CheckResult{}, nil
}

func (h TransferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	var msg TransferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	err := h.ctrl.TransferChecked(ctx, db, msg.Source, msg.Mint, msg.Destination, msg.Amount, msg.Decimals, Signed(msg.Owner))
	if err != nil {
		return nil, err
	}
	return &swap.DeliverResult{}, nil
}
