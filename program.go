package swap

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/iov-one/swap/errors"
)

const (
	// MaxSeeds is the maximum number of seeds used to derive a program
	// address, bump seed included.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivationCacheSize = 4096
)

var programAddressMarker = []byte("ProgramDerivedAddress")

// derivations memoises FindProgramAddress. A derivation is a pure function
// of its input, so cached values never go stale.
var derivations = mustDerivationCache(derivationCacheSize)

type derivation struct {
	address Address
	bump    uint8
}

func mustDerivationCache(size int) *lru.Cache[string, derivation] {
	c, err := lru.New[string, derivation](size)
	if err != nil {
		panic(err)
	}
	return c
}

// CreateProgramAddress computes the address derived from given seeds for the
// given program. Last seed is usually the bump returned by the search.
//
// Derived address must not be a valid ed25519 point, so that nobody can
// hold its private key. If the computed hash lands on the curve, an error is
// returned and another bump must be tried.
func CreateProgramAddress(program Address, seeds ...[]byte) (Address, error) {
	if err := validateSeeds(seeds, MaxSeeds); err != nil {
		return Address{}, err
	}
	addr := hashSeeds(program, seeds)
	if IsOnCurve(addr) {
		return Address{}, errors.Wrap(errors.ErrInput, "derived address is a valid public key")
	}
	return addr, nil
}

// FindProgramAddress searches for the first bump, counting down from 255,
// for which the seeds produce a valid program derived address. Returned bump
// should be stored, so that later the address can be recomputed with
// CreateProgramAddress without searching again.
func FindProgramAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	if err := validateSeeds(seeds, MaxSeeds-1); err != nil {
		return Address{}, 0, err
	}
	key := derivationKey(program, seeds)
	if d, ok := derivations.Get(key); ok {
		return d.address, d.bump, nil
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr := hashSeeds(program, withBump)
		if IsOnCurve(addr) {
			continue
		}
		derivations.Add(key, derivation{address: addr, bump: uint8(bump)})
		return addr, uint8(bump), nil
	}
	return Address{}, 0, errors.Wrap(errors.ErrState, "no viable bump seed")
}

// MustFindProgramAddress is like FindProgramAddress but panics on error.
// Use only with seeds known to be valid.
func MustFindProgramAddress(program Address, seeds ...[]byte) (Address, uint8) {
	addr, bump, err := FindProgramAddress(program, seeds...)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// IsOnCurve returns true if the address is a valid ed25519 public key.
func IsOnCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}

// Uint64Seed returns the little endian encoding of n, the way numeric
// identifiers are used as derivation seeds.
func Uint64Seed(n uint64) []byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, n)
	return raw
}

func validateSeeds(seeds [][]byte, max int) error {
	if len(seeds) > max {
		return errors.Wrapf(errors.ErrInput, "max %d seeds, got %d", max, len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d longer than %d bytes", i, MaxSeedLength)
		}
	}
	return nil
}

func hashSeeds(program Address, seeds [][]byte) Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(program[:])
	h.Write(programAddressMarker)
	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}

func derivationKey(program Address, seeds [][]byte) string {
	buf := make([]byte, 0, AddressLength+len(seeds)*(MaxSeedLength+1))
	buf = append(buf, program[:]...)
	for _, s := range seeds {
		buf = append(buf, byte(len(s)))
		buf = append(buf, s...)
	}
	return string(buf)
}
