package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
	"github.com/spf13/cobra"
)

// KeysCmd groups key management helpers. Keys are printed, never stored.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate and derive ed25519 keys",
	}
	cmd.AddCommand(generateKeyCmd(), deriveKeyCmd())
	return cmd
}

func generateKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a new random key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printKey(cmd.OutOrStdout(), crypto.GenPrivKeyEd25519())
			return nil
		},
	}
}

func deriveKeyCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "derive <hex seed>",
		Short: "Derive a key from a seed using SLIP-10",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := DeriveKey(args[0], path)
			if err != nil {
				return err
			}
			printKey(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", crypto.DefaultDerivationPath, "hardened derivation path")
	return cmd
}

// DeriveKey decodes a hex encoded seed and derives the key at path.
func DeriveKey(hexSeed, path string) (*crypto.PrivateKey, error) {
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "seed must be hex encoded")
	}
	return crypto.DeriveKey(seed, path)
}

func printKey(w io.Writer, key *crypto.PrivateKey) {
	fmt.Fprintf(w, "address: %s\nsecret:  %s\n", key.PublicKey().Address(), crypto.EncodePrivateKey(key))
}
