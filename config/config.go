// Package config handles application configuration.
//
// Settings come from three layers, later ones winning: built-in defaults
// for the network, the YAML file in the data directory (plus KLINGSEED_*
// environment variables), and command-line flags that were set explicitly.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// FileName is the config file name inside the data directory.
const FileName = "klingseed.yaml"

// Config holds runtime configuration for the daemon and the client.
type Config struct {
	// Core
	Network NetworkType `mapstructure:"network"`
	DataDir string      `mapstructure:"datadir"`
	Locale  string      `mapstructure:"locale"` // Accept-Language style, e.g. "de, en;q=0.8"

	// RPC server
	RPC RPCConfig `mapstructure:"rpc"`

	// Wallet import
	Wallet WalletConfig `mapstructure:"wallet"`

	// Import journal
	Storage StorageConfig `mapstructure:"storage"`

	// Logging
	Log LogConfig `mapstructure:"log"`
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Addr        string   `mapstructure:"addr"`
	Port        int      `mapstructure:"port"`
	AllowedIPs  []string `mapstructure:"allowed"`
	CORSOrigins []string `mapstructure:"cors"` // Allowed CORS origins ("*" = all).
}

// WalletConfig holds recovery-phrase import settings.
type WalletConfig struct {
	Wordlist       string `mapstructure:"wordlist"`
	ImportCount    int    `mapstructure:"import_count"`
	KDFMemory      uint32 `mapstructure:"kdf_memory"` // KiB
	KDFIterations  uint32 `mapstructure:"kdf_iterations"`
	KDFParallelism uint8  `mapstructure:"kdf_parallelism"`
}

// StorageConfig selects the journal backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // badger, sqlite or memory
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingseed
//	macOS:   ~/Library/Application Support/Klingseed
//	Windows: %APPDATA%\Klingseed
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingseed"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Klingseed")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Klingseed")
		}
		return filepath.Join(home, "AppData", "Roaming", "Klingseed")
	default:
		return filepath.Join(home, ".klingseed")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// StorageDir returns the directory holding the import journal.
func (c *Config) StorageDir() string {
	return c.NetworkDataDir()
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, FileName)
}

// RPCListenAddr returns host:port for the RPC server.
func (c *Config) RPCListenAddr() string {
	return net.JoinHostPort(c.RPC.Addr, strconv.Itoa(c.RPC.Port))
}

// RPCEndpoint returns the URL clients use to reach the RPC server.
func (c *Config) RPCEndpoint() string {
	host := c.RPC.Addr
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, strconv.Itoa(c.RPC.Port)))
}
