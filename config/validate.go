package config

import (
	"fmt"
	"net"

	"github.com/Klingon-tech/klingnet-seed/internal/importer"
	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/Klingon-tech/klingnet-seed/internal/storage"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
	"golang.org/x/text/language"
)

// MaxImportCount bounds how many accounts one import may derive.
const MaxImportCount = importer.MaxIndexes

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	for _, entry := range cfg.RPC.AllowedIPs {
		if net.ParseIP(entry) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(entry); err != nil {
			return fmt.Errorf("rpc.allowed: %q is not an IP or CIDR", entry)
		}
	}

	if cfg.Locale != "" {
		if _, _, err := language.ParseAcceptLanguage(cfg.Locale); err != nil {
			return fmt.Errorf("locale: %w", err)
		}
	}

	if _, err := mnemonic.Lookup(cfg.Wallet.Wordlist); err != nil {
		return fmt.Errorf("wallet.wordlist: %w", err)
	}
	if cfg.Wallet.ImportCount < 1 || cfg.Wallet.ImportCount > MaxImportCount {
		return fmt.Errorf("wallet.import_count must be in range [1, %d]", MaxImportCount)
	}
	if err := cfg.KDFParams().Validate(); err != nil {
		return fmt.Errorf("wallet: %w", err)
	}

	switch cfg.Storage.Backend {
	case storage.BackendBadger, storage.BackendSQLite, storage.BackendMemory:
	default:
		return fmt.Errorf("storage.backend must be %s, %s or %s",
			storage.BackendBadger, storage.BackendSQLite, storage.BackendMemory)
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error", "disabled", "off":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

// KDFParams returns the Argon2id parameters for new wallets.
func (c *Config) KDFParams() wallet.EncryptionParams {
	return wallet.EncryptionParams{
		Memory:      c.Wallet.KDFMemory,
		Iterations:  c.Wallet.KDFIterations,
		Parallelism: c.Wallet.KDFParallelism,
	}
}
