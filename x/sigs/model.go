package sigs

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData keeps the replay protection counter of a single signer.
type UserData struct {
	Pubkey   crypto.PublicKey `codec:"pubkey"`
	Sequence int64            `codec:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return swap.MarshalMsgpack(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return swap.UnmarshalMsgpack(raw, u)
}

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(u.Pubkey) == 0 {
		if u.Sequence > 0 {
			return errors.Wrap(ErrInvalidSequence, "needs pubkey")
		}
		return nil
	}
	return errors.Wrap(u.Pubkey.Validate(), "pubkey")
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// Greatest value a javascript client can represent exactly.
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, func() orm.Model { return &UserData{} }),
	}
}

// GetOrCreate loads the user data of the key owner. If none exist, a fresh
// one with sequence zero is returned. It is not saved.
func (b Bucket) GetOrCreate(db swap.ReadOnlyKVStore, pubkey crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address().Bytes(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save persists the user data under the address of its key.
func (b Bucket) Save(db swap.KVStore, u *UserData) error {
	return b.Put(db, u.Pubkey.Address().Bytes(), u)
}
