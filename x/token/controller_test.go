package token

import (
	"context"
	"math"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/weavetest"
	"github.com/iov-one/swap/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const funds = 1000000000

type fixture struct {
	db     swap.CacheableKVStore
	auth   *weavetest.Auth
	cash   cash.Controller
	tokens *BaseController
	payer  swap.Address
	mint   swap.Address
	owner  swap.Address
}

// newFixture creates a mint with 6 decimals, whose authority is the payer.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:    store.MemStore(),
		auth:  &weavetest.Auth{},
		cash:  cash.NewController(cash.NewBucket()),
		payer: weavetest.NewAddress(),
		mint:  weavetest.NewAddress(),
		owner: weavetest.NewAddress(),
	}
	f.tokens = NewController(f.auth, f.cash)
	require.NoError(t, f.cash.Issue(f.db, f.payer, funds))
	require.NoError(t, f.tokens.InitializeMint(context.Background(), f.db, f.payer, f.mint, 6, f.payer))
	return f
}

func (f *fixture) account(t *testing.T, owner swap.Address, amount uint64) swap.Address {
	t.Helper()
	ctx := context.Background()
	addr, err := f.tokens.CreateAccount(ctx, f.db, f.payer, owner, f.mint)
	require.NoError(t, err)
	if amount > 0 {
		f.auth.Signers = append(f.auth.Signers, f.payer)
		require.NoError(t, f.tokens.MintTo(ctx, f.db, f.mint, addr, amount, Signed(f.payer)))
		f.auth.Signers = f.auth.Signers[:len(f.auth.Signers)-1]
	}
	return addr
}

func (f *fixture) balance(t *testing.T, account swap.Address) uint64 {
	t.Helper()
	a, err := f.tokens.Account(f.db, account)
	require.NoError(t, err)
	return a.Amount
}

func TestInitializeMint(t *testing.T) {
	f := newFixture(t)

	m, err := f.tokens.Mint(f.db, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), m.Decimals)
	assert.Equal(t, uint64(0), m.Supply)
	assert.Equal(t, f.payer, m.MintAuthority)

	paid, err := f.cash.Balance(f.db, f.mint)
	require.NoError(t, err)
	assert.Equal(t, cash.Rent(MintSize), paid)

	err = f.tokens.InitializeMint(context.Background(), f.db, f.payer, f.mint, 2, f.payer)
	assert.True(t, errors.ErrDuplicate.Is(err))

	_, err = f.tokens.Mint(f.db, weavetest.NewAddress())
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	addr, err := f.tokens.CreateAccount(ctx, f.db, f.payer, f.owner, f.mint)
	require.NoError(t, err)
	want, err := AssociatedAddress(f.owner, f.mint)
	require.NoError(t, err)
	assert.Equal(t, want, addr)

	a, err := f.tokens.Account(f.db, addr)
	require.NoError(t, err)
	assert.Equal(t, &Account{Mint: f.mint, Owner: f.owner}, a)
	deposit, err := f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	assert.Equal(t, cash.Rent(AccountSize), deposit)

	_, err = f.tokens.CreateAccount(ctx, f.db, f.payer, f.owner, f.mint)
	assert.True(t, errors.ErrDuplicate.Is(err))

	again, err := f.tokens.CreateAccountIdempotent(ctx, f.db, f.payer, f.owner, f.mint)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	// the deposit is charged once
	deposit, err = f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	assert.Equal(t, cash.Rent(AccountSize), deposit)

	other := weavetest.NewAddress()
	created, err := f.tokens.CreateAccountIdempotent(ctx, f.db, f.payer, other, f.mint)
	require.NoError(t, err)
	assert.NotEqual(t, addr, created)

	_, err = f.tokens.CreateAccount(ctx, f.db, f.payer, f.owner, weavetest.NewAddress())
	assert.True(t, errors.ErrNotFound.Is(err), "mint must exist")

	poor := weavetest.NewAddress()
	_, err = f.tokens.CreateAccount(ctx, f.db, poor, poor, f.mint)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.account(t, f.owner, 0)

	err := f.tokens.MintTo(ctx, f.db, f.mint, addr, 50, Signed(f.payer))
	assert.True(t, errors.ErrUnauthorized.Is(err), "authority did not sign")

	f.auth.Signer = f.owner
	err = f.tokens.MintTo(ctx, f.db, f.mint, addr, 50, Signed(f.owner))
	assert.True(t, errors.ErrUnauthorized.Is(err), "not the authority")

	f.auth.Signer = f.payer
	require.NoError(t, f.tokens.MintTo(ctx, f.db, f.mint, addr, 50, Signed(f.payer)))
	assert.Equal(t, uint64(50), f.balance(t, addr))
	m, err := f.tokens.Mint(f.db, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), m.Supply)

	err = f.tokens.MintTo(ctx, f.db, f.mint, addr, math.MaxUint64, Signed(f.payer))
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestTransferChecked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	receiver := weavetest.NewAddress()
	from := f.account(t, f.owner, 1000)
	to := f.account(t, receiver, 0)

	err := f.tokens.TransferChecked(ctx, f.db, from, f.mint, to, 100, 6, Signed(f.owner))
	assert.True(t, errors.ErrUnauthorized.Is(err), "owner did not sign")

	f.auth.Signer = f.owner
	err = f.tokens.TransferChecked(ctx, f.db, from, f.mint, to, 100, 9, Signed(f.owner))
	assert.True(t, ErrDecimals.Is(err))

	err = f.tokens.TransferChecked(ctx, f.db, from, f.mint, to, 1001, 6, Signed(f.owner))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	err = f.tokens.TransferChecked(ctx, f.db, to, f.mint, from, 1, 6, Signed(f.owner))
	assert.True(t, errors.ErrUnauthorized.Is(err), "not the owner of the source")

	require.NoError(t, f.tokens.TransferChecked(ctx, f.db, from, f.mint, to, 100, 6, Signed(f.owner)))
	assert.Equal(t, uint64(900), f.balance(t, from))
	assert.Equal(t, uint64(100), f.balance(t, to))

	require.NoError(t, f.tokens.TransferChecked(ctx, f.db, from, f.mint, from, 900, 6, Signed(f.owner)))
	assert.Equal(t, uint64(900), f.balance(t, from))

	// a second asset cannot be mixed in
	otherMint := weavetest.NewAddress()
	require.NoError(t, f.tokens.InitializeMint(ctx, f.db, f.payer, otherMint, 6, f.payer))
	err = f.tokens.TransferChecked(ctx, f.db, from, otherMint, to, 1, 6, Signed(f.owner))
	assert.True(t, errors.ErrConstraint.Is(err))
}

func TestDerivedAuthorization(t *testing.T) {
	f := newFixture(t)
	program := weavetest.NewAddress()
	seeds := [][]byte{[]byte("vault"), swap.Uint64Seed(3)}
	pda, bump := swap.MustFindProgramAddress(program, seeds...)
	withBump := append(seeds, []byte{bump})

	from := f.account(t, pda, 40)
	to := f.account(t, f.owner, 0)

	// outside of the program nothing can be signed
	err := f.tokens.TransferChecked(context.Background(), f.db, from, f.mint, to, 40, 6, Derived(withBump...))
	assert.True(t, errors.ErrUnauthorized.Is(err))

	ctx := swap.WithProgram(context.Background(), program)
	err = f.tokens.TransferChecked(ctx, f.db, from, f.mint, to, 40, 6, Derived(seeds...))
	assert.True(t, errors.ErrUnauthorized.Is(err), "bump missing")

	other := swap.WithProgram(context.Background(), weavetest.NewAddress())
	err = f.tokens.TransferChecked(other, f.db, from, f.mint, to, 40, 6, Derived(withBump...))
	assert.True(t, errors.ErrUnauthorized.Is(err), "another program")

	require.NoError(t, f.tokens.TransferChecked(ctx, f.db, from, f.mint, to, 40, 6, Derived(withBump...)))
	assert.Equal(t, uint64(0), f.balance(t, from))
	assert.Equal(t, uint64(40), f.balance(t, to))

	dest := weavetest.NewAddress()
	require.NoError(t, f.tokens.CloseAccount(ctx, f.db, from, dest, Derived(withBump...)))
	_, err = f.tokens.Account(f.db, from)
	assert.True(t, errors.ErrNotFound.Is(err))
	refund, err := f.cash.Balance(f.db, dest)
	require.NoError(t, err)
	assert.Equal(t, cash.Rent(AccountSize), refund)
}

func TestCloseAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.account(t, f.owner, 10)
	dest := weavetest.NewAddress()

	err := f.tokens.CloseAccount(ctx, f.db, addr, dest, Signed(f.owner))
	assert.True(t, errors.ErrUnauthorized.Is(err))

	f.auth.Signer = f.owner
	err = f.tokens.CloseAccount(ctx, f.db, addr, dest, Signed(f.owner))
	assert.True(t, errors.ErrState.Is(err), "account is not empty")

	burn := f.account(t, weavetest.NewAddress(), 0)
	require.NoError(t, f.tokens.TransferChecked(ctx, f.db, addr, f.mint, burn, 10, 6, Signed(f.owner)))
	require.NoError(t, f.tokens.CloseAccount(ctx, f.db, addr, dest, Signed(f.owner)))

	err = f.tokens.CloseAccount(ctx, f.db, addr, dest, Signed(f.owner))
	assert.True(t, errors.ErrNotFound.Is(err))
}
