// Klingseed import daemon.
//
// Usage:
//
//	klingseedd [--testnet --rpc-port=...]  Run the import service
//	klingseedd init [--force]              Write a default config file
//	klingseedd --help                      Show help
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Klingon-tech/klingnet-seed/config"
	"github.com/Klingon-tech/klingnet-seed/internal/node"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "klingseedd",
		Short: "Klingseed recovery-phrase import daemon",
		Long: `klingseedd validates BIP-39 recovery phrases and imports them into
encrypted keystore wallets. Clients talk to it over JSON-RPC.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDaemon,
	}
	config.RegisterGlobalFlags(root.PersistentFlags())
	config.RegisterDaemonFlags(root.Flags())

	root.AddCommand(newInitCmd())
	return root
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	n, err := node.New(cfg)
	if err != nil {
		return err
	}

	if err := n.Start(); err != nil {
		n.Stop()
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	n.Stop()
	return nil
}

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			network := config.Network(flags)
			if network == "" {
				network = config.Mainnet
			}
			cfg := config.Default(network)
			if dir, _ := flags.GetString(config.FlagDataDir); dir != "" {
				cfg.DataDir = dir
			}
			path, _ := flags.GetString(config.FlagConfig)
			if path == "" {
				path = cfg.ConfigFile()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := config.WriteDefaultConfig(path, network); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
