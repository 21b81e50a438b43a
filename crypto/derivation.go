package crypto

import (
	"github.com/iov-one/swap/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-10 path of the first account.
const DefaultDerivationPath = "m/44'/501'/0'/0'"

// DeriveKey computes an ed25519 private key from a master seed, following
// the SLIP-10 derivation for given path. Only hardened paths are supported.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if path == "" {
		path = DefaultDerivationPath
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key)
}
