package escrow

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/app"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
	"github.com/iov-one/swap/x"
	"github.com/iov-one/swap/x/cash"
	"github.com/iov-one/swap/x/token"
)

// Tags added to the result of every delivered message.
const (
	TagAction = "action"
	TagOffer  = "offer"
	TagMaker  = "maker"
	TagTaker  = "taker"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Handlers run as the escrow program, so that they can authorize
// transfers out of offer vaults.
func RegisterRoutes(r swap.Registry, auth x.Authenticator, cashctrl cash.Controller, tokens token.Controller) {
	r = app.WithProgram(ProgramID, r)
	bucket := NewBucket()

	r.Handle(&MakeOfferMsg{}, MakeOfferHandler{auth: auth, bucket: bucket, cash: cashctrl, tokens: tokens})
	r.Handle(&TakeOfferMsg{}, TakeOfferHandler{auth: auth, bucket: bucket, cash: cashctrl, tokens: tokens})
	r.Handle(&RefundOfferMsg{}, RefundOfferHandler{auth: auth, bucket: bucket, cash: cashctrl, tokens: tokens})
}

// RegisterQuery will register this bucket as "/offers" and the maker
// index as "/offers/maker".
func RegisterQuery(qr swap.QueryRouter) {
	NewBucket().Register("offers", qr)
}

// MakeOfferHandler opens offers.
type MakeOfferHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
	tokens token.Controller
}

var _ swap.Handler = MakeOfferHandler{}

func (h MakeOfferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{}, nil
}

// Deliver stores the offer, creates its vault and moves the offered tokens
// into it. The maker pays the storage deposits.
func (h MakeOfferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	offer := &Offer{
		ID:                 msg.ID,
		Maker:              msg.Maker,
		TokenMintA:         msg.TokenMintA,
		TokenMintB:         msg.TokenMintB,
		TokenBAmountWanted: msg.TokenBAmountWanted,
		Bump:               bump,
	}
	switch err := h.bucket.Create(db, msg.Offer.Bytes(), offer); {
	case errors.ErrDuplicate.Is(err):
		return nil, errors.Wrapf(err, "offer %d already exists", msg.ID)
	case err != nil:
		return nil, errors.Wrap(err, "store offer")
	}
	if _, err := h.cash.Fund(db, msg.Maker, msg.Offer, OfferSize); err != nil {
		return nil, errors.Wrap(err, "offer deposit")
	}
	if _, err := h.tokens.CreateAccount(ctx, db, msg.Maker, msg.Offer, msg.TokenMintA); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	err = transferTokens(ctx, db, h.tokens, msg.MakerTokenAccountA, msg.Vault,
		msg.TokenAAmountOffered, msg.TokenMintA, token.Signed(msg.Maker))
	if err != nil {
		return nil, err
	}

	swap.GetLogger(ctx).Info("offer made",
		"offer", msg.Offer, "id", msg.ID, "maker", msg.Maker,
		"offered", msg.TokenAAmountOffered, "wanted", msg.TokenBAmountWanted)

	res := &swap.DeliverResult{Data: msg.Offer.Bytes()}
	res.AddTag(TagAction, "make_offer")
	res.AddTag(TagOffer, msg.Offer.String())
	res.AddTag(TagMaker, msg.Maker.String())
	return res, nil
}

// validate returns the message and the bump of the offer address.
func (h MakeOfferHandler) validate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*MakeOfferMsg, uint8, error) {
	var msg MakeOfferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "maker must sign")
	}

	addr, bump, err := OfferAddress(msg.ID)
	if err != nil {
		return nil, 0, err
	}
	if !addr.Equals(msg.Offer) {
		return nil, 0, errors.Wrapf(errors.ErrConstraint, "offer %d lives at %s", msg.ID, addr)
	}
	if err := expectAssociated(msg.Vault, msg.Offer, msg.TokenMintA, "vault"); err != nil {
		return nil, 0, err
	}
	if err := expectAssociated(msg.MakerTokenAccountA, msg.Maker, msg.TokenMintA, "maker token account a"); err != nil {
		return nil, 0, err
	}
	if _, err := h.tokens.Mint(db, msg.TokenMintA); err != nil {
		return nil, 0, errors.Wrap(err, "token mint a")
	}
	if _, err := h.tokens.Mint(db, msg.TokenMintB); err != nil {
		return nil, 0, errors.Wrap(err, "token mint b")
	}
	return &msg, bump, nil
}

// TakeOfferHandler completes offers.
type TakeOfferHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
	tokens token.Controller
}

var _ swap.Handler = TakeOfferHandler{}

func (h TakeOfferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{}, nil
}

// Deliver sends the whole vault balance to the taker and the wanted amount
// of token B to the maker. Vault and offer are closed and their deposits
// returned to the maker.
func (h TakeOfferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, offer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if _, err := h.tokens.CreateAccountIdempotent(ctx, db, msg.Taker, msg.Taker, msg.TokenMintA); err != nil {
		return nil, errors.Wrap(err, "taker token account a")
	}
	if _, err := h.tokens.CreateAccountIdempotent(ctx, db, msg.Taker, msg.Maker, msg.TokenMintB); err != nil {
		return nil, errors.Wrap(err, "maker token account b")
	}

	vault, err := h.tokens.Account(db, msg.Vault)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	custody := token.Derived(signerSeeds(offer)...)
	err = transferTokens(ctx, db, h.tokens, msg.Vault, msg.TakerTokenAccountA,
		vault.Amount, msg.TokenMintA, custody)
	if err != nil {
		return nil, err
	}
	if err := closeTokenAccount(ctx, db, h.tokens, msg.Vault, msg.Maker, custody); err != nil {
		return nil, err
	}
	err = transferTokens(ctx, db, h.tokens, msg.TakerTokenAccountB, msg.MakerTokenAccountB,
		offer.TokenBAmountWanted, msg.TokenMintB, token.Signed(msg.Taker))
	if err != nil {
		return nil, err
	}
	if err := closeOffer(db, h.bucket, h.cash, msg.Offer, msg.Maker); err != nil {
		return nil, err
	}

	swap.GetLogger(ctx).Info("offer taken",
		"offer", msg.Offer, "id", offer.ID, "maker", msg.Maker, "taker", msg.Taker,
		"received", vault.Amount, "paid", offer.TokenBAmountWanted)

	res := &swap.DeliverResult{}
	res.AddTag(TagAction, "take_offer")
	res.AddTag(TagOffer, msg.Offer.String())
	res.AddTag(TagMaker, msg.Maker.String())
	res.AddTag(TagTaker, msg.Taker.String())
	return res, nil
}

func (h TakeOfferHandler) validate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*TakeOfferMsg, *Offer, error) {
	var msg TakeOfferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker must sign")
	}

	var offer Offer
	if err := h.bucket.One(db, msg.Offer.Bytes(), &offer); err != nil {
		return nil, nil, errors.Wrap(err, "offer")
	}
	if err := checkOffer(&offer, msg.Offer, msg.Maker, msg.TokenMintA, msg.TokenMintB, msg.Vault); err != nil {
		return nil, nil, err
	}
	if err := expectAssociated(msg.TakerTokenAccountA, msg.Taker, msg.TokenMintA, "taker token account a"); err != nil {
		return nil, nil, err
	}
	if err := expectAssociated(msg.TakerTokenAccountB, msg.Taker, msg.TokenMintB, "taker token account b"); err != nil {
		return nil, nil, err
	}
	if err := expectAssociated(msg.MakerTokenAccountB, msg.Maker, msg.TokenMintB, "maker token account b"); err != nil {
		return nil, nil, err
	}
	return &msg, &offer, nil
}

// RefundOfferHandler cancels offers.
type RefundOfferHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
	tokens token.Controller
}

var _ swap.Handler = RefundOfferHandler{}

func (h RefundOfferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{}, nil
}

// Deliver returns the whole vault balance to the maker and closes both the
// vault and the offer.
func (h RefundOfferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, offer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	vault, err := h.tokens.Account(db, msg.Vault)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	custody := token.Derived(signerSeeds(offer)...)
	err = transferTokens(ctx, db, h.tokens, msg.Vault, msg.MakerTokenAccountA,
		vault.Amount, msg.TokenMintA, custody)
	if err != nil {
		return nil, err
	}
	if err := closeTokenAccount(ctx, db, h.tokens, msg.Vault, msg.Maker, custody); err != nil {
		return nil, err
	}
	if err := closeOffer(db, h.bucket, h.cash, msg.Offer, msg.Maker); err != nil {
		return nil, err
	}

	swap.GetLogger(ctx).Info("offer refunded",
		"offer", msg.Offer, "id", offer.ID, "maker", msg.Maker, "refunded", vault.Amount)

	res := &swap.DeliverResult{}
	res.AddTag(TagAction, "refund_offer")
	res.AddTag(TagOffer, msg.Offer.String())
	res.AddTag(TagMaker, msg.Maker.String())
	return res, nil
}

func (h RefundOfferHandler) validate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*RefundOfferMsg, *Offer, error) {
	var msg RefundOfferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker must sign")
	}

	var offer Offer
	if err := h.bucket.One(db, msg.Offer.Bytes(), &offer); err != nil {
		return nil, nil, errors.Wrap(err, "offer")
	}
	if err := checkOffer(&offer, msg.Offer, msg.Maker, msg.TokenMintA, msg.TokenMintB, msg.Vault); err != nil {
		return nil, nil, err
	}
	if err := expectAssociated(msg.MakerTokenAccountA, msg.Maker, msg.TokenMintA, "maker token account a"); err != nil {
		return nil, nil, err
	}
	return &msg, &offer, nil
}

// checkOffer ensures the accounts declared by a message are the ones the
// stored offer relates to.
func checkOffer(o *Offer, addr, maker, mintA, mintB, vault swap.Address) error {
	if !o.Maker.Equals(maker) {
		return errors.Wrapf(errors.ErrConstraint, "offer made by %s", o.Maker)
	}
	if !o.TokenMintA.Equals(mintA) {
		return errors.Wrapf(errors.ErrConstraint, "offer deposits %s", o.TokenMintA)
	}
	if !o.TokenMintB.Equals(mintB) {
		return errors.Wrapf(errors.ErrConstraint, "offer wants %s", o.TokenMintB)
	}
	derived, err := o.address()
	if err != nil || !derived.Equals(addr) {
		return errors.Wrap(errors.ErrConstraint, "offer seeds do not match address")
	}
	return expectAssociated(vault, addr, mintA, "vault")
}

func expectAssociated(got, owner, mint swap.Address, name string) error {
	want, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return err
	}
	if !got.Equals(want) {
		return errors.Wrapf(errors.ErrConstraint, "%s must be %s", name, want)
	}
	return nil
}

// closeOffer deletes the offer and returns its storage deposit.
func closeOffer(db swap.KVStore, bucket orm.ModelBucket, cashctrl cash.Controller, offer, dest swap.Address) error {
	if err := bucket.Delete(db, offer.Bytes()); err != nil {
		return errors.Wrap(err, "close offer")
	}
	if _, err := cashctrl.Drain(db, offer, dest); err != nil {
		return errors.Wrap(err, "offer deposit")
	}
	return nil
}
