package server

import (
	"encoding/json"
	"os"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/spf13/cobra"
)

// ValidateCmd loads genesis files into a throw away store, to find errors
// before a chain is started. Without arguments the genesis of home is
// checked.
func ValidateCmd(ini swap.Initializer, node *Node) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis.json...]",
		Short: "Check that genesis files can initialize the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{GenesisFile(node.Config.Home)}
			}
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis returns the first genesis file that fails to initialize
// the application.
func ValidateGenesis(ini swap.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini swap.Initializer, genesisPath string) error {
	b, err := os.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "cannot read genesis file")
	}

	var genesis struct {
		State swap.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot JSON deserialize genesis")
	}
	if len(genesis.State) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}

	// Use in memory store because we want to discard the result.
	if err := ini.FromGenesis(genesis.State, store.MemStore()); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
