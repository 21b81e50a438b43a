package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/swap"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convinience attribute when creating an authentication method for a
	// single signer.
	Signer swap.Address

	// Signers represents an authentication of multiple signers.
	Signers []swap.Address
}

func (a *Auth) GetSigners(swap.Context) []swap.Address {
	if !a.Signer.IsZero() {
		return append(append([]swap.Address(nil), a.Signers...), a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx swap.Context, addr swap.Address) bool {
	if addr.IsZero() {
		return false
	}
	for _, s := range a.Signers {
		if addr.Equals(s) {
			return true
		}
	}
	return addr.Equals(a.Signer)
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convinience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetSigners(ctx swap.Context, signers ...swap.Address) swap.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetSigners(ctx swap.Context) []swap.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	signers, ok := val.([]swap.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []swap.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx swap.Context, addr swap.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
