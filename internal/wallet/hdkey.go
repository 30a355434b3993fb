package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-seed/pkg/crypto"
	"github.com/Klingon-tech/klingnet-seed/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// HardenedOffset is added to an index for hardened derivation.
const HardenedOffset = bip32.FirstHardenedChild

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = HardenedOffset + 44

	// CoinTypeKlingnet is the coin type used for derived accounts (hardened).
	CoinTypeKlingnet = HardenedOffset + 8888

	// ChangeExternal is for receiving addresses.
	ChangeExternal = 0

	// ChangeInternal is for change addresses.
	ChangeInternal = 1
)

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add HardenedOffset to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the account key at m/44'/8888'/account'.
func (k *HDKey) DeriveAccount(account uint32) (*HDKey, error) {
	return k.DerivePath(PurposeBIP44, CoinTypeKlingnet, HardenedOffset+account)
}

// DeriveAddress derives the key at m/44'/8888'/account'/change/index.
func (k *HDKey) DeriveAddress(account, change, index uint32) (*HDKey, error) {
	acct, err := k.DeriveAccount(account)
	if err != nil {
		return nil, err
	}
	return acct.DerivePath(change, index)
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	return k.key.PublicKey().Key
}

// Address derives the address for this key's public key.
func (k *HDKey) Address() (types.Address, error) {
	return crypto.AddressFromPubKey(k.PublicKeyBytes())
}

// Fingerprint identifies the wallet a master key belongs to.
func (k *HDKey) Fingerprint() string {
	return crypto.Fingerprint(k.PublicKeyBytes())
}

// ExtendedPublic returns the base58 xpub for this key.
func (k *HDKey) ExtendedPublic() string {
	return k.key.PublicKey().B58Serialize()
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy (for watch-only wallets).
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}

// DeriveAccounts derives the external addresses for the given indexes
// under account 0 and formats them with hrp.
func (k *HDKey) DeriveAccounts(hrp string, indexes []uint32) ([]AccountEntry, error) {
	acct, err := k.DeriveAccount(0)
	if err != nil {
		return nil, err
	}
	external, err := acct.DeriveChild(ChangeExternal)
	if err != nil {
		return nil, err
	}

	out := make([]AccountEntry, 0, len(indexes))
	for _, idx := range indexes {
		child, err := external.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		addr, err := child.Address()
		if err != nil {
			return nil, fmt.Errorf("address %d: %w", idx, err)
		}
		text, err := addr.Encode(hrp)
		if err != nil {
			return nil, err
		}
		out = append(out, AccountEntry{
			Index:   idx,
			Change:  ChangeExternal,
			Name:    fmt.Sprintf("account-%d", idx),
			Address: text,
			Path:    DerivationPath(0, ChangeExternal, idx),
		})
	}
	return out, nil
}
