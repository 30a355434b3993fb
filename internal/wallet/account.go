package wallet

import "fmt"

// AccountEntry stores metadata for a derived account.
type AccountEntry struct {
	Index   uint32 `json:"index"`
	Change  uint32 `json:"change"` // 0=external (deposit), 1=internal (change)
	Name    string `json:"name"`
	Address string `json:"address"` // bech32
	Path    string `json:"path"`
}

// Derivation returns the BIP-44 (change, index) pair for this account entry.
func (a AccountEntry) Derivation() (change uint32, index uint32) {
	return a.Change, a.Index
}

// DerivationPath formats m/44'/8888'/account'/change/index.
func DerivationPath(account, change, index uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinTypeKlingnet-HardenedOffset, account, change, index)
}
