package token

import (
	"context"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/app"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHandlers(t *testing.T) {
	f := newFixture(t)
	rt := app.NewRouter()
	RegisterRoutes(rt, f.auth, f.tokens)
	ctx := context.Background()

	newMint := weavetest.NewAddress()
	receiver := weavetest.NewAddress()
	receiverAccount, err := AssociatedAddress(receiver, newMint)
	require.NoError(t, err)
	payerAccount, err := AssociatedAddress(f.payer, newMint)
	require.NoError(t, err)

	steps := []struct {
		name    string
		signers []swap.Address
		msg     swap.Msg
		wantErr *errors.Error
	}{
		{
			name:    "mint key must sign",
			signers: []swap.Address{f.payer},
			msg:     &CreateMintMsg{Payer: f.payer, Mint: newMint, Decimals: 2, Authority: f.payer},
			wantErr: errors.ErrUnauthorized,
		},
		{
			name:    "create mint",
			signers: []swap.Address{f.payer, newMint},
			msg:     &CreateMintMsg{Payer: f.payer, Mint: newMint, Decimals: 2, Authority: f.payer},
		},
		{
			name:    "payer must sign",
			signers: []swap.Address{receiver},
			msg:     &CreateAccountMsg{Payer: f.payer, Owner: receiver, Mint: newMint},
			wantErr: errors.ErrUnauthorized,
		},
		{
			name:    "create receiver account",
			signers: []swap.Address{f.payer},
			msg:     &CreateAccountMsg{Payer: f.payer, Owner: receiver, Mint: newMint},
		},
		{
			name:    "create payer account twice",
			signers: []swap.Address{f.payer},
			msg:     &CreateAccountMsg{Payer: f.payer, Owner: f.payer, Mint: newMint, Idempotent: true},
		},
		{
			name:    "create payer account twice",
			signers: []swap.Address{f.payer},
			msg:     &CreateAccountMsg{Payer: f.payer, Owner: f.payer, Mint: newMint, Idempotent: true},
		},
		{
			name:    "zero mint",
			signers: []swap.Address{f.payer},
			msg:     &MintToMsg{Mint: newMint, Account: payerAccount, Authority: f.payer},
			wantErr: errors.ErrAmount,
		},
		{
			name:    "mint tokens",
			signers: []swap.Address{f.payer},
			msg:     &MintToMsg{Mint: newMint, Account: payerAccount, Authority: f.payer, Amount: 500},
		},
		{
			name:    "transfer wrong decimals",
			signers: []swap.Address{f.payer},
			msg: &TransferMsg{Source: payerAccount, Destination: receiverAccount, Mint: newMint,
				Owner: f.payer, Amount: 120, Decimals: 6},
			wantErr: ErrDecimals,
		},
		{
			name:    "transfer",
			signers: []swap.Address{f.payer},
			msg: &TransferMsg{Source: payerAccount, Destination: receiverAccount, Mint: newMint,
				Owner: f.payer, Amount: 120, Decimals: 2},
		},
	}

	for _, s := range steps {
		f.auth.Signers = s.signers
		tx := &weavetest.Tx{Msg: s.msg}
		_, err := rt.Deliver(ctx, f.db, tx)
		if s.wantErr != nil {
			require.True(t, s.wantErr.Is(err), "%s: got %v", s.name, err)
		} else {
			require.NoError(t, err, s.name)
		}
	}

	assert.Equal(t, uint64(380), f.balance(t, payerAccount))
	assert.Equal(t, uint64(120), f.balance(t, receiverAccount))
}

func TestWritableAccounts(t *testing.T) {
	owner := weavetest.NewAddress()
	mint := weavetest.NewAddress()
	payer := weavetest.NewAddress()
	addr, err := AssociatedAddress(owner, mint)
	require.NoError(t, err)

	msg := &CreateAccountMsg{Payer: payer, Owner: owner, Mint: mint}
	assert.Equal(t, []swap.Address{payer, addr}, msg.WritableAccounts())
}

func TestRegisterQuery(t *testing.T) {
	qr := swap.NewQueryRouter()
	RegisterQuery(qr)
	assert.NotNil(t, qr.Handler("/tokens/mints"))
	assert.NotNil(t, qr.Handler("/tokens/accounts"))
	assert.NotNil(t, qr.Handler("/tokens/accounts/owner"))
}
