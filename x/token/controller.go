package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
	"github.com/iov-one/swap/x"
	"github.com/iov-one/swap/x/cash"
)

// Controller is the token program as seen by other extensions.
type Controller interface {
	// Mint returns the mint stored at given address.
	Mint(db swap.ReadOnlyKVStore, mint swap.Address) (*Mint, error)

	// Account returns the token account stored at given address.
	Account(db swap.ReadOnlyKVStore, account swap.Address) (*Account, error)

	// InitializeMint creates a new asset. The payer funds its deposit.
	InitializeMint(ctx swap.Context, db swap.KVStore, payer, mint swap.Address, decimals uint8, authority swap.Address) error

	// CreateAccount creates the associated token account of the owner
	// for given mint and returns its address. The payer funds its
	// deposit. It fails with ErrDuplicate if the account exists.
	CreateAccount(ctx swap.Context, db swap.KVStore, payer, owner, mint swap.Address) (swap.Address, error)

	// CreateAccountIdempotent is like CreateAccount, but returns the
	// existing account if there is one.
	CreateAccountIdempotent(ctx swap.Context, db swap.KVStore, payer, owner, mint swap.Address) (swap.Address, error)

	// MintTo issues new tokens into an account. The authorization must
	// be the one of the mint authority.
	MintTo(ctx swap.Context, db swap.KVStore, mint, account swap.Address, amount uint64, auth Authorization) error

	// TransferChecked moves tokens between two accounts of the same mint.
	// Decimals must match the ones of the mint. The authorization must be
	// the one of the source account owner.
	TransferChecked(ctx swap.Context, db swap.KVStore, from, mint, to swap.Address, amount uint64, decimals uint8, auth Authorization) error

	// CloseAccount removes an empty token account and moves its deposit
	// to the destination. The authorization must be the one of the
	// account owner.
	CloseAccount(ctx swap.Context, db swap.KVStore, account, destination swap.Address, auth Authorization) error
}

// BaseController implements Controller.
type BaseController struct {
	auth     x.Authenticator
	cash     cash.Controller
	mints    orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = (*BaseController)(nil)

// NewController returns a token program verifying signatures with given
// authenticator and paying deposits with native balance.
func NewController(auth x.Authenticator, cashctrl cash.Controller) *BaseController {
	return &BaseController{
		auth:     auth,
		cash:     cashctrl,
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

func (c *BaseController) Mint(db swap.ReadOnlyKVStore, mint swap.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, mint.Bytes(), &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", mint)
	}
	return &m, nil
}

func (c *BaseController) Account(db swap.ReadOnlyKVStore, account swap.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, account.Bytes(), &a); err != nil {
		return nil, errors.Wrapf(err, "token account %s", account)
	}
	return &a, nil
}

func (c *BaseController) InitializeMint(ctx swap.Context, db swap.KVStore, payer, mint swap.Address, decimals uint8, authority swap.Address) error {
	if err := mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	m := &Mint{Decimals: decimals, MintAuthority: authority}
	if err := c.mints.Create(db, mint.Bytes(), m); err != nil {
		return err
	}
	if _, err := c.cash.Fund(db, payer, mint, MintSize); err != nil {
		return err
	}
	return nil
}

func (c *BaseController) CreateAccount(ctx swap.Context, db swap.KVStore, payer, owner, mint swap.Address) (swap.Address, error) {
	if _, err := c.Mint(db, mint); err != nil {
		return swap.Address{}, err
	}
	addr, err := AssociatedAddress(owner, mint)
	if err != nil {
		return swap.Address{}, err
	}
	if err := c.accounts.Create(db, addr.Bytes(), &Account{Mint: mint, Owner: owner}); err != nil {
		return swap.Address{}, err
	}
	if _, err := c.cash.Fund(db, payer, addr, AccountSize); err != nil {
		return swap.Address{}, err
	}
	return addr, nil
}

func (c *BaseController) CreateAccountIdempotent(ctx swap.Context, db swap.KVStore, payer, owner, mint swap.Address) (swap.Address, error) {
	addr, err := AssociatedAddress(owner, mint)
	if err != nil {
		return swap.Address{}, err
	}
	existing, err := c.Account(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return c.CreateAccount(ctx, db, payer, owner, mint)
	case err != nil:
		return swap.Address{}, err
	}
	if !existing.Owner.Equals(owner) || !existing.Mint.Equals(mint) {
		return swap.Address{}, errors.Wrapf(errors.ErrConstraint, "account %s belongs to another owner or mint", addr)
	}
	return addr, nil
}

func (c *BaseController) MintTo(ctx swap.Context, db swap.KVStore, mint, account swap.Address, amount uint64, auth Authorization) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if m.MintAuthority.IsZero() {
		return errors.Wrap(errors.ErrUnauthorized, "fixed supply")
	}
	if err := auth.authorize(ctx, c.auth, m.MintAuthority); err != nil {
		return errors.Wrap(err, "mint authority")
	}
	a, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if !a.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrConstraint, "account %s holds another mint", account)
	}

	supply := m.Supply + amount
	if supply < m.Supply {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	balance := a.Amount + amount
	if balance < a.Amount {
		return errors.Wrap(errors.ErrOverflow, "account balance")
	}
	m.Supply, a.Amount = supply, balance

	if err := c.mints.Put(db, mint.Bytes(), m); err != nil {
		return err
	}
	return c.accounts.Put(db, account.Bytes(), a)
}

func (c *BaseController) TransferChecked(ctx swap.Context, db swap.KVStore, from, mint, to swap.Address, amount uint64, decimals uint8, auth Authorization) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return errors.Wrapf(ErrDecimals, "mint has %d, got %d", m.Decimals, decimals)
	}

	src, err := c.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !src.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrConstraint, "source %s holds another mint", from)
	}
	if err := auth.authorize(ctx, c.auth, src.Owner); err != nil {
		return errors.Wrap(err, "source owner")
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !dst.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrConstraint, "destination %s holds another mint", to)
	}

	if amount > src.Amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, need %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	balance := dst.Amount + amount
	if balance < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Amount -= amount
	dst.Amount = balance

	if err := c.accounts.Put(db, from.Bytes(), src); err != nil {
		return err
	}
	return c.accounts.Put(db, to.Bytes(), dst)
}

func (c *BaseController) CloseAccount(ctx swap.Context, db swap.KVStore, account, destination swap.Address, auth Authorization) error {
	a, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if err := auth.authorize(ctx, c.auth, a.Owner); err != nil {
		return errors.Wrap(err, "account owner")
	}
	if a.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account %s holds %d tokens", account, a.Amount)
	}
	if err := destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := c.accounts.Delete(db, account.Bytes()); err != nil {
		return err
	}
	if _, err := c.cash.Drain(db, account, destination); err != nil {
		return err
	}
	return nil
}
