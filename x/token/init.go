package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const optKey = "token"

// GenesisMint declares an asset existing from the first block.
type GenesisMint struct {
	Address   swap.Address `json:"address"`
	Decimals  uint8        `json:"decimals"`
	Authority swap.Address `json:"authority"`
}

// GenesisAccount declares an associated token account and its balance.
// The mint supply is increased by the balance.
type GenesisAccount struct {
	Owner  swap.Address `json:"owner"`
	Mint   swap.Address `json:"mint"`
	Amount uint64       `json:"amount"`
}

// Genesis is the "token" section of the genesis app state.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ swap.Initializer = Initializer{}

// FromGenesis stores all declared mints and accounts. No deposit is
// charged for them.
func (Initializer) FromGenesis(opts swap.Options, kv swap.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}

	mints := NewMintBucket()
	for i, m := range gen.Mints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		mint := &Mint{Decimals: m.Decimals, MintAuthority: m.Authority}
		if err := mints.Create(kv, m.Address.Bytes(), mint); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}

	accounts := NewAccountBucket()
	for i, a := range gen.Accounts {
		var mint Mint
		if err := mints.One(kv, a.Mint.Bytes(), &mint); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		supply := mint.Supply + a.Amount
		if supply < mint.Supply {
			return errors.Wrapf(errors.ErrOverflow, "account %d: supply", i)
		}
		mint.Supply = supply
		if err := mints.Put(kv, a.Mint.Bytes(), &mint); err != nil {
			return err
		}

		addr, err := AssociatedAddress(a.Owner, a.Mint)
		if err != nil {
			return err
		}
		acct := &Account{Mint: a.Mint, Owner: a.Owner, Amount: a.Amount}
		if err := accounts.Create(kv, addr.Bytes(), acct); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
