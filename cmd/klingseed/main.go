// klingseed is a command-line client for the klingseedd import daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Klingon-tech/klingnet-seed/config"
	"github.com/Klingon-tech/klingnet-seed/internal/i18n"
	klog "github.com/Klingon-tech/klingnet-seed/internal/log"
	"github.com/Klingon-tech/klingnet-seed/internal/rpcclient"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg     *config.Config
	client  *rpcclient.Client
	bundle  *i18n.Bundle
	rpcURL  string
	timeout time.Duration

	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "klingseed",
		Short:         "Check recovery phrases and import wallets through klingseedd",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	config.RegisterGlobalFlags(pf)
	pf.StringVar(&a.rpcURL, "rpc-url", "", "Daemon endpoint (default from rpc.addr and rpc.port)")
	pf.DurationVar(&a.timeout, "timeout", 30*time.Second, "RPC timeout")

	root.AddCommand(
		newCheckCmd(a),
		newValidateCmd(a),
		newImportCmd(a),
		newTUICmd(a),
		newWalletsCmd(a),
		newAccountsCmd(a),
		newStatusCmd(a),
		newImportsCmd(a),
		newGenerateCmd(a),
	)
	return root
}

// open loads the configuration and creates the RPC client.
func (a *app) open(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// The client logs to stderr only, and quietly unless asked.
	level := "warn"
	if f := flags.Lookup(config.FlagLogLevel); f != nil && f.Changed {
		level = cfg.Log.Level
	}
	klog.SetOutput(cmd.ErrOrStderr(), level)
	a.logLevel = level

	a.bundle, err = i18n.NewBundle()
	if err != nil {
		return err
	}

	endpoint := a.rpcURL
	if endpoint == "" {
		endpoint = cfg.RPCEndpoint()
	}
	a.client = rpcclient.NewWithTimeout(endpoint, a.timeout)
	return nil
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// localizer renders messages in the configured locale.
func (a *app) localizer() *i18n.Localizer {
	return a.bundle.Localizer(a.cfg.Locale)
}
