package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/swap"
	escrowd "github.com/iov-one/swap/cmd/escrowd/app"
	"github.com/iov-one/swap/commands"
	"github.com/iov-one/swap/commands/server"
	"github.com/spf13/cobra"
)

func main() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	root, node := server.RootCmd("escrowd", "Token swap escrow node", defaultHome)
	root.AddCommand(
		server.InitCmd(escrowd.GenInitOptions, node),
		server.StartCmd(escrowd.GenerateApp, node),
		server.ValidateCmd(escrowd.Initializers(), node),
		commands.KeysCmd(),
		commands.TestGenCmd(escrowd.Examples),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), swap.Version())
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
