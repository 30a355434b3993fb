package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// NewSeed derives the BIP-39 seed for a phrase that has already been
// validated. Phrase and passphrase are NFKD-normalised first.
func NewSeed(canonical, passphrase string) []byte {
	return bip39.NewSeed(norm.NFKD.String(canonical), norm.NFKD.String(passphrase))
}

// SeedFromMnemonic validates an English phrase and derives its seed.
func SeedFromMnemonic(phrase, passphrase string) ([]byte, error) {
	return SeedFromMnemonicWith(mnemonic.NewValidator(nil), phrase, passphrase)
}

// SeedFromMnemonicWith validates phrase with v and derives its seed.
// The returned error wraps a *mnemonic.ValidationError on bad input.
func SeedFromMnemonicWith(v *mnemonic.Validator, phrase, passphrase string) ([]byte, error) {
	res := v.ValidateMnemonic(phrase)
	if !res.Valid {
		return nil, fmt.Errorf("invalid mnemonic: %w", res.Err())
	}
	return NewSeed(res.Mnemonic, passphrase), nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
