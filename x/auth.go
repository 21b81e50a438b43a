package x

import (
	"github.com/iov-one/swap"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetSigners reveals all addresses that authorized the transaction.
	GetSigners(swap.Context) []swap.Address
	// HasAddress checks if the address authorized the transaction.
	HasAddress(swap.Context, swap.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetSigners combines all signers from all Authenticators. Duplicates are
// removed, first occurrence wins.
func (m MultiAuth) GetSigners(ctx swap.Context) []swap.Address {
	var res []swap.Address
	seen := make(map[swap.Address]struct{})
	for _, impl := range m.impls {
		for _, a := range impl.GetSigners(ctx) {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			res = append(res, a)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx swap.Context, addr swap.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer if any.
func MainSigner(ctx swap.Context, auth Authenticator) (swap.Address, bool) {
	signers := auth.GetSigners(ctx)
	if len(signers) == 0 {
		return swap.Address{}, false
	}
	return signers[0], true
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx swap.Context, auth Authenticator, required []swap.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx swap.Context, auth Authenticator, required []swap.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
