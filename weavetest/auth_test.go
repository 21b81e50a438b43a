package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/swap"
	"github.com/stretchr/testify/assert"
)

func TestAuthNoSigners(t *testing.T) {
	var a Auth

	assert.Nil(t, a.GetSigners(nil))
	assert.False(t, a.HasAddress(nil, NewAddress()))
	assert.False(t, a.HasAddress(nil, swap.Address{}), "zero address is never a signer")
}

func TestAuthUsingSignerAndSigners(t *testing.T) {
	addrs := []swap.Address{NewAddress(), NewAddress(), NewAddress()}

	a := Auth{
		Signer:  addrs[2],
		Signers: addrs[:2],
	}

	assert.Equal(t, addrs, a.GetSigners(nil))
	for _, addr := range addrs {
		assert.True(t, a.HasAddress(nil, addr))
	}
	assert.False(t, a.HasAddress(nil, NewAddress()))
}

func TestCtxAuth(t *testing.T) {
	a := CtxAuth{Key: "auth"}
	alice, bob := NewAddress(), NewAddress()

	ctx := a.SetSigners(context.Background(), alice)
	assert.Equal(t, []swap.Address{alice}, a.GetSigners(ctx))
	assert.True(t, a.HasAddress(ctx, alice))
	assert.False(t, a.HasAddress(ctx, bob))

	other := CtxAuth{Key: "other"}
	assert.Nil(t, other.GetSigners(ctx))
}
