package cash

import (
	"github.com/iov-one/swap"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file. Addresses
// are base58 encoded.
type GenesisAccount struct {
	Address swap.Address `json:"address"`
	Balance uint64       `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ swap.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts swap.Options, kv swap.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewBucket())
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return err
		}
		if err := control.Issue(kv, acct.Address, acct.Balance); err != nil {
			return err
		}
	}
	return nil
}
