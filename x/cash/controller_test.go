package cash

import (
	"math"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRent(t *testing.T) {
	// a token account holds 165 bytes
	assert.Equal(t, uint64(2039280), Rent(165))
	assert.Equal(t, uint64(128*DepositPerByte), Rent(0))
	assert.Equal(t, Rent(0), Rent(-4))
}

func TestIssueAndTransfer(t *testing.T) {
	kv := store.MemStore()
	a := weavetest.SequenceAddress(1)
	b := weavetest.SequenceAddress(2)
	control := NewController(NewBucket())

	require.NoError(t, control.Issue(kv, a, 500))
	require.NoError(t, control.Transfer(kv, a, b, 200))
	assertBalance(t, control, kv, a, 300)
	assertBalance(t, control, kv, b, 200)

	err := control.Transfer(kv, a, b, 301)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	assertBalance(t, control, kv, a, 300)

	// moving everything removes the wallet
	require.NoError(t, control.Transfer(kv, a, b, 300))
	assertBalance(t, control, kv, a, 0)
	assert.True(t, errors.ErrNotFound.Is(NewBucket().Has(kv, a.Bytes())))

	require.NoError(t, control.Issue(kv, a, math.MaxUint64))
	err = control.Transfer(kv, a, b, math.MaxUint64)
	assert.True(t, errors.ErrOverflow.Is(err))

	err = control.Transfer(kv, a, swap.Address{}, 1)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestFundAndDrain(t *testing.T) {
	kv := store.MemStore()
	payer := weavetest.SequenceAddress(1)
	account := weavetest.SequenceAddress(2)
	dest := weavetest.SequenceAddress(3)
	control := NewController(NewBucket())

	_, err := control.Fund(kv, payer, account, 121)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	require.NoError(t, control.Issue(kv, payer, 10000000))
	paid, err := control.Fund(kv, payer, account, 121)
	require.NoError(t, err)
	assert.Equal(t, Rent(121), paid)
	assertBalance(t, control, kv, payer, 10000000-Rent(121))
	assertBalance(t, control, kv, account, Rent(121))

	drained, err := control.Drain(kv, account, dest)
	require.NoError(t, err)
	assert.Equal(t, Rent(121), drained)
	assertBalance(t, control, kv, account, 0)
	assertBalance(t, control, kv, dest, Rent(121))

	// draining an empty account is a no-op
	drained, err = control.Drain(kv, account, dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), drained)
}

func assertBalance(t testing.TB, c Controller, kv swap.ReadOnlyKVStore, addr swap.Address, want uint64) {
	t.Helper()
	got, err := c.Balance(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, want, got, "balance of %s", addr)
}
