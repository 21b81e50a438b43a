package swap

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/swap/errors"
)

// AddressLength is the length of all addresses. It matches the size of an
// ed25519 public key.
const AddressLength = 32

// Address identifies an account. It is either the public key of a key pair
// or a program derived address, that has no private key.
type Address [AddressLength]byte

// ParseAddress decodes the base58 representation of an address.
func ParseAddress(s string) (Address, error) {
	var a Address
	if s == "" {
		return a, errors.Wrap(errors.ErrEmpty, "address")
	}
	raw := base58.Decode(s)
	if len(raw) != AddressLength {
		return a, errors.Wrapf(errors.ErrInput, "address %q: decoded length %d", s, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress is like ParseAddress, but panics on an invalid value.
// Only use with hardcoded values.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// NewAddress copies given bytes into an address. It fails if the length is
// not exactly AddressLength.
func NewAddress(raw []byte) (Address, error) {
	var a Address
	if len(raw) != AddressLength {
		return a, errors.Wrapf(errors.ErrInput, "address length %d", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return a == b
}

// IsZero returns true for the zero value, that is never a valid account.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// Validate returns an error if the address was never set.
func (a Address) Validate() error {
	if a.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	return nil
}

// String returns the base58 representation.
func (a Address) String() string {
	if a.IsZero() {
		return "(nil)"
	}
	return base58.Encode(a[:])
}

// Compare returns an integer comparing two addresses lexicographically.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText implements encoding.TextMarshaler using base58.
func (a Address) MarshalText() ([]byte, error) {
	if a.IsZero() {
		return []byte{}, nil
	}
	return []byte(base58.Encode(a[:])), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value zeroes
// the address.
func (a *Address) UnmarshalText(raw []byte) error {
	if len(raw) == 0 {
		*a = Address{}
		return nil
	}
	addr, err := ParseAddress(string(raw))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// MarshalJSON provides a base58 representation for JSON, to override the
// standard array encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	txt, _ := a.MarshalText()
	return json.Marshal(string(txt))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return a.UnmarshalText([]byte(enc))
}
