package server

import (
	"os"

	"github.com/iov-one/swap/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// Node carries what all commands share. It is filled before any command
// runs.
type Node struct {
	Config Config
	Logger log.Logger
}

// RootCmd returns the root command of a node binary. Subcommands receive
// the returned Node, loaded from flags, environment and config file.
func RootCmd(name, short, defaultHome string) (*cobra.Command, *Node) {
	node := &Node{Logger: log.NewNopLogger()}
	v := viper.New()

	var configPath string
	cmd := &cobra.Command{
		Use:           name,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString("home")
			conf, err := LoadConfig(v, home, configPath)
			if err != nil {
				return err
			}
			logger, err := NewLogger(name, conf.LogLevel)
			if err != nil {
				return err
			}
			node.Config = *conf
			node.Logger = logger
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("home", defaultHome, "directory to store files under")
	flags.StringVar(&configPath, "config", "", "config file (default $home/"+ConfigFile+")")
	flags.String("log-level", "info", "one of debug, info, error or none")
	flags.Bool("debug", false, "return call stacks on error")
	for key, flag := range map[string]string{
		"home":      "home",
		"log_level": "log-level",
		"debug":     "debug",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd, node
}

// NewLogger returns a tendermint logger writing to stdout, filtered to
// given level.
func NewLogger(module, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, opt).With("module", module), nil
}
