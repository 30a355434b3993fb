package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. KLINGSEED_RPC_PORT.
const EnvPrefix = "KLINGSEED"

// newViper returns a viper instance seeded with cfg as defaults, so every
// key is known to environment lookups and Unmarshal.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("network", string(cfg.Network))
	v.SetDefault("datadir", cfg.DataDir)
	v.SetDefault("locale", cfg.Locale)

	v.SetDefault("rpc.enabled", cfg.RPC.Enabled)
	v.SetDefault("rpc.addr", cfg.RPC.Addr)
	v.SetDefault("rpc.port", cfg.RPC.Port)
	v.SetDefault("rpc.allowed", cfg.RPC.AllowedIPs)
	v.SetDefault("rpc.cors", cfg.RPC.CORSOrigins)

	v.SetDefault("wallet.wordlist", cfg.Wallet.Wordlist)
	v.SetDefault("wallet.import_count", cfg.Wallet.ImportCount)
	v.SetDefault("wallet.kdf_memory", cfg.Wallet.KDFMemory)
	v.SetDefault("wallet.kdf_iterations", cfg.Wallet.KDFIterations)
	v.SetDefault("wallet.kdf_parallelism", cfg.Wallet.KDFParallelism)

	v.SetDefault("storage.backend", cfg.Storage.Backend)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.json", cfg.Log.JSON)
	return v
}

// LoadFile merges the YAML file at path and KLINGSEED_* environment
// variables into cfg. A missing file is not an error.
func LoadFile(cfg *Config, path string) error {
	v := newViper(cfg)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// WriteDefaultConfig writes a commented default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	d := Default(network)
	content := `# Klingseed configuration
#
# Every key can also be set from the environment, e.g. KLINGSEED_RPC_PORT=9000.

# Network: mainnet or testnet
network: ` + string(network) + `

# Data directory (default: ~/.klingseed)
# datadir: ~/.klingseed

# Preferred languages for messages, Accept-Language style
locale: en

# ============================================================================
# RPC Server
# ============================================================================

rpc:
  enabled: true
  addr: 127.0.0.1
  port: ` + fmt.Sprint(d.RPC.Port) + `
  allowed:
    - 127.0.0.1
  # CORS allowed origins ("*" for all)
  # cors:
  #   - http://localhost:3000

# ============================================================================
# Wallet import
# ============================================================================

wallet:
  # english, spanish, french, italian, japanese, korean, czech,
  # chinese_simplified or chinese_traditional
  wordlist: english
  # Accounts derived per import
  import_count: ` + fmt.Sprint(d.Wallet.ImportCount) + `
  # Argon2id parameters for the encrypted seed
  kdf_memory: ` + fmt.Sprint(d.Wallet.KDFMemory) + `
  kdf_iterations: ` + fmt.Sprint(d.Wallet.KDFIterations) + `
  kdf_parallelism: ` + fmt.Sprint(d.Wallet.KDFParallelism) + `

# ============================================================================
# Import journal
# ============================================================================

storage:
  # badger, sqlite or memory
  backend: ` + d.Storage.Backend + `

# ============================================================================
# Logging
# ============================================================================

log:
  level: info
  # file: /var/log/klingseed.log
  json: false
`
	return os.WriteFile(path, []byte(content), 0644)
}
