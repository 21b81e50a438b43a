package cash

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const (
	// AccountStorageOverhead is the size charged on top of the data held
	// by every account.
	AccountStorageOverhead = 128

	// DepositPerByte is the native amount locked per stored byte.
	DepositPerByte = 3480 * 2
)

// Rent returns the deposit an account holding size bytes must carry.
func Rent(size int) uint64 {
	if size < 0 {
		size = 0
	}
	return uint64(AccountStorageOverhead+size) * DepositPerByte
}

// Controller is the functionality needed by other extensions to pay with
// and for native balance.
type Controller interface {
	// Balance returns the native balance of an account. A missing account
	// has a zero balance.
	Balance(db swap.ReadOnlyKVStore, addr swap.Address) (uint64, error)

	// Transfer moves amount from src to dest. It fails if src does not
	// hold enough.
	Transfer(db swap.KVStore, src, dest swap.Address, amount uint64) error

	// Issue creates amount out of thin air and adds it to dest.
	Issue(db swap.KVStore, dest swap.Address, amount uint64) error

	// Fund moves the deposit of an account holding size bytes from the
	// payer to the account. It returns the amount paid.
	Fund(db swap.KVStore, payer, account swap.Address, size int) (uint64, error)

	// Drain moves the whole balance of an account to dest. It returns the
	// amount moved.
	Drain(db swap.KVStore, account, dest swap.Address) (uint64, error)
}

// BaseController is a simple implementation of the Controller interface
// working on a single bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db swap.ReadOnlyKVStore, addr swap.Address) (uint64, error) {
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (c BaseController) Transfer(db swap.KVStore, src, dest swap.Address, amount uint64) error {
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if amount == 0 || src.Equals(dest) {
		return nil
	}

	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return errors.Wrapf(err, "account %s", src)
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}

	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

func (c BaseController) Issue(db swap.KVStore, dest swap.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

func (c BaseController) Fund(db swap.KVStore, payer, account swap.Address, size int) (uint64, error) {
	deposit := Rent(size)
	if err := c.Transfer(db, payer, account, deposit); err != nil {
		return 0, errors.Wrap(err, "storage deposit")
	}
	return deposit, nil
}

func (c BaseController) Drain(db swap.KVStore, account, dest swap.Address) (uint64, error) {
	balance, err := c.Balance(db, account)
	if err != nil {
		return 0, err
	}
	if err := c.Transfer(db, account, dest, balance); err != nil {
		return 0, err
	}
	return balance, nil
}
