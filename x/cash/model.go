package cash

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native balance of a single account.
type Wallet struct {
	Balance uint64 `codec:"balance"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return swap.MarshalMsgpack(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return swap.UnmarshalMsgpack(raw, w)
}

// Validate always succeeds, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

// Add increases the balance, failing on overflow.
func (w *Wallet) Add(amount uint64) error {
	next := w.Balance + amount
	if next < w.Balance {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Balance = next
	return nil
}

// Subtract decreases the balance, failing if it would go below zero.
func (w *Wallet) Subtract(amount uint64) error {
	if amount > w.Balance {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, need %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, func() orm.Model { return &Wallet{} }),
	}
}

// GetOrCreate returns the wallet of given account. A missing wallet is
// returned empty, it is not saved.
func (b Bucket) GetOrCreate(db swap.ReadOnlyKVStore, addr swap.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr.Bytes(), &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet of given account. An empty wallet is removed from
// the store.
func (b Bucket) Save(db swap.KVStore, addr swap.Address, w *Wallet) error {
	if w.Balance == 0 {
		switch err := b.Delete(db, addr.Bytes()); {
		case err == nil, errors.ErrNotFound.Is(err):
			return nil
		default:
			return err
		}
	}
	return b.Put(db, addr.Bytes(), w)
}
