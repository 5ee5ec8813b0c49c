package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenescrow"
	escrowd "github.com/iov-one/tokenescrow/cmd/escrowd/app"
	"github.com/iov-one/tokenescrow/commands/server"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	conf := server.DefaultConfig(defaultHome)

	var (
		logger log.Logger = log.NewNopLogger()
		closer io.Closer
	)
	getLogger := func() log.Logger { return logger }

	root := &cobra.Command{
		Use:          "escrowd",
		Short:        "Token escrow node and tools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := server.LoadConfig(conf.Home)
			if err != nil {
				return err
			}
			applyFlags(cmd, &loaded, conf)
			if err := loaded.Validate(); err != nil {
				return err
			}
			conf = loaded

			l, c, err := server.NewLogger(conf)
			if err != nil {
				return err
			}
			logger, closer = l.With("module", "escrow"), c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closer == nil {
				return nil
			}
			return closer.Close()
		},
	}
	root.PersistentFlags().StringVar(&conf.Home, "home", conf.Home, "directory to store files under")

	root.AddCommand(
		server.InitCmd(escrowd.GenInitOptions, getLogger, &conf),
		server.StartCmd(escrowd.GenerateApp, getLogger, &conf),
		server.ValidateCmd(escrowd.Initializers()),
		keysCmd(),
		txCmd(),
		queryCmd(),
		versionCmd(),
	)
	return root
}

// applyFlags copies values given on the command line over the ones read
// from the configuration file.
func applyFlags(cmd *cobra.Command, dst *server.Config, flags server.Config) {
	dst.Home = flags.Home
	fs := cmd.Flags()
	if fs.Changed("bind") {
		dst.Bind = flags.Bind
	}
	if fs.Changed("debug") {
		dst.Debug = flags.Debug
	}
	if fs.Changed("metrics") {
		dst.MetricsAddress = flags.MetricsAddress
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(tokenescrow.Version())
		},
	}
}
