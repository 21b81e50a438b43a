package app

import (
	"encoding/json"
	"path/filepath"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/x/cash"
	"github.com/iov-one/swap/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// InitialBalance is the native balance given to the account created by
// GenInitOptions, enough to pay for the storage of many offers.
const InitialBalance = 1000000000000

// GenInitOptions produces the app_state of a development chain: a single
// funded account. Without an address, a new key is generated and its
// secret returned, so that it can be imported in a client.
func GenInitOptions(addr swap.Address) (json.RawMessage, *crypto.PrivateKey, error) {
	var key *crypto.PrivateKey
	if addr.IsZero() {
		key = crypto.GenPrivKeyEd25519()
		addr = key.PublicKey().Address()
	}

	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: addr, Balance: InitialBalance},
		},
		"token": token.Genesis{
			Mints:    []token.GenesisMint{},
			Accounts: []token.GenesisAccount{},
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return raw, key, nil
}

// GenerateApp is used to create the application run by the start command.
// Data is stored in home, or in memory when home is empty.
func GenerateApp(home string, logger log.Logger, debug bool, extra ...swap.Decorator) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	application, err := Application("escrow", Stack(extra...), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	application.WithLogger(logger)
	return application, nil
}
