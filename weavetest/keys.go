package weavetest

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a new random key.
func NewAddress() swap.Address {
	return NewKey().PublicKey().Address()
}

// SequenceAddress returns a deterministic address built from given number.
// It is not a valid public key, which makes test failures easier to read.
func SequenceAddress(n uint64) swap.Address {
	var a swap.Address
	copy(a[:], swap.Uint64Seed(n))
	a[swap.AddressLength-1] = 0xff
	return a
}
