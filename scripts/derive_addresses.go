// derive_addresses.go prints the fingerprint and addresses an import of a
// recovery phrase would produce, without writing a wallet.
// Usage: go run scripts/derive_addresses.go [-testnet] [-count n] < phrase.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
	"github.com/Klingon-tech/klingnet-seed/pkg/types"
)

func main() {
	testnet := flag.Bool("testnet", false, "use testnet addresses")
	count := flag.Int("count", onboard.DefaultImportCount, "number of accounts")
	flag.Parse()

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "usage: derive_addresses [-testnet] [-count n] < phrase.txt")
		os.Exit(1)
	}

	res := mnemonic.ValidateMnemonic(line)
	if !res.Valid {
		fmt.Fprintln(os.Stderr, res.Err())
		os.Exit(1)
	}

	seed := wallet.NewSeed(res.Mnemonic, "")
	defer wallet.Zero(seed)
	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	network := "mainnet"
	if *testnet {
		network = "testnet"
	}
	accounts, err := master.DeriveAccounts(types.HRPFor(network), onboard.Indexes(*count))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("fingerprint=%s\n", master.Fingerprint())
	for _, a := range accounts {
		fmt.Printf("%s %s\n", a.Path, a.Address)
	}
}
