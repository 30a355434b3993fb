package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
	"github.com/spf13/cobra"
)

// errInvalidPhrase is returned after an invalid phrase has been reported,
// so the exit status is non-zero.
var errInvalidPhrase = errors.New("invalid recovery phrase")

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCheckCmd(a *app) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "check <words...>",
		Short: "Check a partially typed recovery phrase",
		Long: `check classifies a phrase as it would be while typing: the word count is
checked first, and within range only the last word is inspected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if offline {
				v, err := a.validator()
				if err != nil {
					return err
				}
				check := v.ValidateSetOfWords(text)
				printCheck(out, check.Kind, check.InvalidWord, check.ValidLength, v.UserFinishedTypingWord(text))
				return nil
			}

			res, err := a.client.CheckWords(cmd.Context(), text)
			if err != nil {
				return err
			}
			printCheck(out, res.Error, res.InvalidWord, res.ValidLength, res.FinishedTyping)
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Check locally instead of asking the daemon")
	return cmd
}

func printCheck(w io.Writer, kind mnemonic.Kind, word string, validLength, finished bool) {
	fmt.Fprintf(w, "Result:          %s\n", kind)
	if word != "" {
		fmt.Fprintf(w, "Invalid word:    %s\n", word)
	}
	fmt.Fprintf(w, "Valid length:    %t\n", validLength)
	fmt.Fprintf(w, "Finished typing: %t\n", finished)
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		phrase  string
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a complete recovery phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readPhrase(phrase)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var (
				valid     bool
				canonical string
				message   string
			)
			if offline {
				v, err := a.validator()
				if err != nil {
					return err
				}
				res := v.ValidateMnemonic(text)
				valid, canonical = res.Valid, res.Mnemonic
				message = onboard.Message(a.localizer(), res.Kind, res.InvalidWord)
			} else {
				res, err := a.client.Validate(cmd.Context(), text, a.cfg.Locale)
				if err != nil {
					return err
				}
				valid, canonical, message = res.Valid, res.Mnemonic, res.Message
			}

			if !valid {
				fmt.Fprintln(out, message)
				return errInvalidPhrase
			}
			fmt.Fprintln(out, "Valid recovery phrase")
			fmt.Fprintf(out, "Words: %d\n", len(strings.Fields(canonical)))
			return nil
		},
	}
	cmd.Flags().StringVar(&phrase, "phrase", "", "Recovery phrase (prompted without echo when omitted)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Validate locally instead of asking the daemon")
	return cmd
}

func newWalletsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wallets",
		Short: "List wallets in the daemon's keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := a.client.ListWallets(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No wallets found.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFINGERPRINT\tNETWORK\tACCOUNTS\tCREATED")
			for _, w := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					w.Name, w.Fingerprint, w.Network, w.Accounts, w.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newAccountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts <wallet>",
		Short: "List the accounts derived for a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accts, err := a.client.ListAccounts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printAccounts(cmd.OutOrStdout(), accts)
			return nil
		},
	}
}

func printAccounts(w io.Writer, accts []wallet.AccountEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tPATH\tADDRESS")
	for _, acct := range accts {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", acct.Index, acct.Path, acct.Address)
	}
	tw.Flush()
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <import-id>",
		Short: "Show the journal record of an import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.client.ImportStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func newImportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "imports",
		Short: "List journaled imports, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := a.client.ListImports(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "No imports recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tWALLET\tACCOUNTS\tERROR")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Status, r.Name, len(r.Addresses), r.Error)
			}
			return tw.Flush()
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var words int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a new random recovery phrase (for testing)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wl, err := mnemonic.Lookup(a.cfg.Wallet.Wordlist)
			if err != nil {
				return err
			}
			phrase, err := wallet.GenerateMnemonic(words, wl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), phrase)
			return nil
		},
	}
	cmd.Flags().IntVar(&words, "words", wallet.DefaultMnemonicWords, "Phrase length (12, 15, 18, 21 or 24)")
	cmd.Flags().String("wordlist", "", "Wordlist language (default from config)")
	return cmd
}

// validator builds a local validator for the configured wordlist.
func (a *app) validator() (*mnemonic.Validator, error) {
	wl, err := mnemonic.Lookup(a.cfg.Wallet.Wordlist)
	if err != nil {
		return nil, err
	}
	return mnemonic.NewValidator(wl), nil
}
