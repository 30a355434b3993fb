// Package wallet derives HD keys from recovery phrases and keeps the
// resulting seeds encrypted on disk.
package wallet

import (
	"fmt"
	"strings"

	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/tyler-smith/go-bip39"
)

// DefaultMnemonicWords is the length of phrases made by GenerateMnemonic
// when no length is given.
const DefaultMnemonicWords = 24

// GenerateMnemonic creates a new BIP-39 phrase with the given number of
// words, spelled in wl. A zero length means DefaultMnemonicWords and a nil
// wl means English.
func GenerateMnemonic(words int, wl *mnemonic.Wordlist) (string, error) {
	if words == 0 {
		words = DefaultMnemonicWords
	}
	bits, err := entropyBits(words)
	if err != nil {
		return "", err
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	phrase, err := bip39.NewMnemonic(entropy)
	Zero(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}

	english := mnemonic.English()
	if wl == nil || wl == english {
		return phrase, nil
	}

	// Same indices, other language.
	fields := strings.Fields(phrase)
	for i, w := range fields {
		idx, ok := english.Index(w)
		if !ok {
			return "", fmt.Errorf("generate mnemonic: unexpected word %q", w)
		}
		fields[i] = wl.Word(idx)
	}
	return strings.Join(fields, " "), nil
}

// entropyBits maps a phrase length to its BIP-39 entropy size.
func entropyBits(words int) (int, error) {
	if words%3 != 0 || words < mnemonic.MinWords || words > mnemonic.MaxWords {
		return 0, fmt.Errorf("mnemonic length must be one of 12, 15, 18, 21 or 24 words, got %d", words)
	}
	return words / 3 * 32, nil
}
