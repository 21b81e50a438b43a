package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
)

const (
	// MintSize is the storage size of a mint, used to compute its deposit.
	MintSize = 82

	// AccountSize is the storage size of a token account, used to compute
	// its deposit.
	AccountSize = 165
)

// Mint describes a fungible asset.
type Mint struct {
	Decimals uint8  `codec:"decimals"`
	Supply   uint64 `codec:"supply"`
	// MintAuthority may issue new tokens. A zero value means the supply
	// is fixed.
	MintAuthority swap.Address `codec:"mint_authority"`
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Marshal() ([]byte, error) {
	return swap.MarshalMsgpack(m)
}

func (m *Mint) Unmarshal(raw []byte) error {
	return swap.UnmarshalMsgpack(raw, m)
}

func (m *Mint) Validate() error {
	return nil
}

// Account holds the balance of an owner for a single mint.
type Account struct {
	Mint   swap.Address `codec:"mint"`
	Owner  swap.Address `codec:"owner"`
	Amount uint64       `codec:"amount"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Marshal() ([]byte, error) {
	return swap.MarshalMsgpack(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return swap.UnmarshalMsgpack(raw, a)
}

func (a *Account) Validate() error {
	if err := a.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// NewMintBucket returns a bucket storing mints under their address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mints", func() orm.Model { return &Mint{} })
}

// NewAccountBucket returns a bucket storing token accounts under their
// address, indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("accounts", func() orm.Model { return &Account{} },
		orm.WithIndex("owner", ownerIndex))
}

func ownerIndex(key []byte, m orm.Model) ([][]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, m)
	}
	return [][]byte{a.Owner.Bytes()}, nil
}
