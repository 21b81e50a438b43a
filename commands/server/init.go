package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
	"github.com/spf13/cobra"
)

const appStateKey = "app_state"

// GenOptions produces the app_state of a new chain, funding given address.
// For a zero address a key is generated and returned.
type GenOptions func(addr swap.Address) (json.RawMessage, *crypto.PrivateKey, error)

// GenesisFile returns the path of the tendermint genesis in home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd sets the app_state of the genesis file created by tendermint
// init, and writes a default node configuration.
func InitCmd(gen GenOptions, node *Node) *cobra.Command {
	var (
		address string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize app_state in the genesis file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr swap.Address
			if address != "" {
				var err error
				if addr, err = swap.ParseAddress(address); err != nil {
					return errors.Wrap(err, "address")
				}
			}
			options, key, err := gen(addr)
			if err != nil {
				return errors.Wrap(err, "generate app_state")
			}

			genFile := GenesisFile(node.Config.Home)
			if err := addGenesisOptions(genFile, options, force); err != nil {
				return err
			}
			node.Logger.Info("App state written", "path", genFile)

			if path, created, err := writeDefaultConfig(node.Config.Home); err != nil {
				return err
			} else if created {
				node.Logger.Info("Config written", "path", path)
			}

			if key != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "address: %s\nsecret:  %s\n",
					key.PublicKey().Address(), crypto.EncodePrivateKey(key))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "account funded at genesis, a new key is generated if empty")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing app_state")
	return cmd
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", filename)
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode genesis")
	}
	if state := doc[appStateKey]; len(state) > 0 && string(state) != "null" && !force {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set, use --force to replace it")
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return os.WriteFile(filename, out, 0o600)
}
