package main

import (
	"fmt"
	"io"

	"github.com/Klingon-tech/klingnet-seed/internal/i18n"
	"github.com/Klingon-tech/klingnet-seed/internal/importer"
	"github.com/Klingon-tech/klingnet-seed/internal/node"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/rpc"
	"github.com/Klingon-tech/klingnet-seed/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-seed/internal/tui"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// importOutcome is the result of one dispatched import, local or remote.
type importOutcome struct {
	ID          string
	Name        string
	Fingerprint string
	Accounts    []wallet.AccountEntry
	Err         error
}

// importTarget is where the screen sends its request.
type importTarget struct {
	dispatcher onboard.Dispatcher
	results    <-chan importOutcome
	close      func()
}

// importFlags are shared by the import and tui commands.
type importFlags struct {
	name         string
	passwordFile string
	count        int
	local        bool
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Wallet name (default wallet-<fingerprint>)")
	cmd.Flags().StringVar(&f.passwordFile, "password-file", "", "Read the wallet password from a file")
	cmd.Flags().IntVar(&f.count, "count", 0, "Accounts to derive (default from config)")
	cmd.Flags().BoolVar(&f.local, "local", false, "Import into the local keystore without a daemon")
}

// newImportTarget returns a dispatcher that imports through the daemon, or
// through a local node when local is set.
func (a *app) newImportTarget(local bool, name string, password []byte) (*importTarget, error) {
	results := make(chan importOutcome, 1)

	if !local {
		d := rpcclient.NewRemoteDispatcher(a.client, name, string(password),
			func(req onboard.ImportRequest, res *rpc.WalletImportResult, err error) {
				out := importOutcome{ID: req.ID, Err: err}
				if res != nil {
					out.Name, out.Fingerprint, out.Accounts = res.Name, res.Fingerprint, res.Accounts
				}
				results <- out
			})
		d.SetLang(a.cfg.Locale)
		return &importTarget{dispatcher: d, results: results, close: d.Wait}, nil
	}

	cfg := *a.cfg
	cfg.RPC.Enabled = false
	cfg.Log.Level = a.logLevel
	n, err := node.New(&cfg)
	if err != nil {
		return nil, err
	}
	q, err := n.NewQueue(importer.Credentials{Name: name, Password: password},
		func(req onboard.ImportRequest, res *importer.Result, err error) {
			out := importOutcome{ID: req.ID, Err: err}
			if res != nil {
				out.Name, out.Fingerprint, out.Accounts = res.Name, res.Fingerprint, res.Accounts
			}
			results <- out
		})
	if err != nil {
		n.Stop()
		return nil, err
	}
	return &importTarget{dispatcher: q, results: results, close: n.Stop}, nil
}

func (f *importFlags) importCount(a *app) int {
	if f.count > 0 {
		return f.count
	}
	return a.cfg.Wallet.ImportCount
}

func newImportCmd(a *app) *cobra.Command {
	var (
		flags  importFlags
		phrase string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a wallet from a recovery phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.validator()
			if err != nil {
				return err
			}
			text, err := readPhrase(phrase)
			if err != nil {
				return err
			}
			password, err := readNewPassword(flags.passwordFile)
			if err != nil {
				return err
			}
			defer wallet.Zero(password)

			target, err := a.newImportTarget(flags.local, flags.name, password)
			if err != nil {
				return err
			}
			defer target.close()

			advanced := false
			screen, err := onboard.NewScreen(onboard.Options{
				Validator:   v,
				Dispatcher:  target.dispatcher,
				Navigator:   onboard.NavigatorFunc(func(onboard.RouteParams) { advanced = true }),
				Localizer:   a.localizer(),
				ImportCount: flags.importCount(a),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			screen.Change(text)
			ui := screen.Submit()
			if !advanced {
				fmt.Fprintln(out, ui.ErrorMessage)
				return errInvalidPhrase
			}
			fmt.Fprintln(out, a.localizer().T(i18n.MsgImporting))
			return a.awaitImport(cmd, target, out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&phrase, "phrase", "", "Recovery phrase (prompted without echo when omitted)")
	return cmd
}

func newTUICmd(a *app) *cobra.Command {
	var flags importFlags
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Enter a recovery phrase in a terminal screen and import it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.validator()
			if err != nil {
				return err
			}
			password, err := readNewPassword(flags.passwordFile)
			if err != nil {
				return err
			}
			defer wallet.Zero(password)

			target, err := a.newImportTarget(flags.local, flags.name, password)
			if err != nil {
				return err
			}
			defer target.close()

			m, err := tui.New(tui.Options{
				Validator:   v,
				Dispatcher:  target.dispatcher,
				Localizer:   a.localizer(),
				ImportCount: flags.importCount(a),
			})
			if err != nil {
				return err
			}
			advanced, err := tui.Run(m, tea.WithContext(cmd.Context()))
			if err != nil {
				return fmt.Errorf("running TUI: %w", err)
			}
			if !advanced {
				return nil
			}
			return a.awaitImport(cmd, target, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	return cmd
}

// awaitImport waits for the dispatched import and prints its result.
func (a *app) awaitImport(cmd *cobra.Command, target *importTarget, out io.Writer) error {
	var res importOutcome
	select {
	case res = <-target.results:
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}
	if res.Err != nil {
		return fmt.Errorf("import %s: %w", res.ID, res.Err)
	}

	fmt.Fprintf(out, "Wallet imported: %s\n", res.Name)
	fmt.Fprintf(out, "Fingerprint:     %s\n", res.Fingerprint)
	fmt.Fprintf(out, "Import ID:       %s\n", res.ID)
	printAccounts(out, res.Accounts)
	return nil
}
