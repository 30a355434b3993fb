package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by the daemon and the client.
const (
	FlagNetwork     = "network"
	FlagTestnet     = "testnet"
	FlagDataDir     = "datadir"
	FlagConfig      = "config"
	FlagLocale      = "locale"
	FlagRPC         = "rpc"
	FlagRPCAddr     = "rpc-addr"
	FlagRPCPort     = "rpc-port"
	FlagRPCAllowed  = "rpc-allowed"
	FlagRPCCORS     = "rpc-cors"
	FlagWordlist    = "wordlist"
	FlagImportCount = "import-count"
	FlagStorage     = "storage"
	FlagLogLevel    = "log-level"
	FlagLogFile     = "log-file"
	FlagLogJSON     = "log-json"
)

// RegisterGlobalFlags adds the flags every command understands.
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.String(FlagNetwork, "", "Network type (mainnet or testnet)")
	fs.Bool(FlagTestnet, false, "Use testnet (shorthand for --network=testnet)")
	fs.String(FlagDataDir, "", "Data directory path")
	fs.StringP(FlagConfig, "c", "", "Config file path")
	fs.String(FlagLocale, "", "Preferred message languages, e.g. \"de, en;q=0.8\"")
	fs.String(FlagRPCAddr, "", "RPC address")
	fs.Int(FlagRPCPort, 0, "RPC port")
	fs.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
	fs.String(FlagLogFile, "", "Log file path")
	fs.Bool(FlagLogJSON, false, "Output logs as JSON")
}

// RegisterDaemonFlags adds the daemon-only flags.
func RegisterDaemonFlags(fs *pflag.FlagSet) {
	fs.Bool(FlagRPC, true, "Enable RPC server")
	fs.StringSlice(FlagRPCAllowed, nil, "Allowed IPs or CIDRs for RPC")
	fs.StringSlice(FlagRPCCORS, nil, "Allowed CORS origins for RPC")
	fs.String(FlagWordlist, "", "Recovery phrase wordlist")
	fs.Int(FlagImportCount, 0, "Accounts derived per import")
	fs.String(FlagStorage, "", "Journal backend (badger, sqlite, memory)")
}

// Network returns the network selected on the command line, or "" when
// neither --network nor --testnet was given.
func Network(fs *pflag.FlagSet) NetworkType {
	if on, err := fs.GetBool(FlagTestnet); err == nil && on {
		return Testnet
	}
	if s, err := fs.GetString(FlagNetwork); err == nil && s != "" {
		return NetworkType(s)
	}
	return ""
}

// ApplyFlags overrides cfg with every flag in fs that was set explicitly.
// Flags not registered in fs are skipped.
func ApplyFlags(cfg *Config, fs *pflag.FlagSet) {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if n := Network(fs); n != "" {
		cfg.Network = n
	}
	if changed(FlagDataDir) {
		cfg.DataDir, _ = fs.GetString(FlagDataDir)
	}
	if changed(FlagLocale) {
		cfg.Locale, _ = fs.GetString(FlagLocale)
	}

	if changed(FlagRPC) {
		cfg.RPC.Enabled, _ = fs.GetBool(FlagRPC)
	}
	if changed(FlagRPCAddr) {
		cfg.RPC.Addr, _ = fs.GetString(FlagRPCAddr)
	}
	if changed(FlagRPCPort) {
		cfg.RPC.Port, _ = fs.GetInt(FlagRPCPort)
	}
	if changed(FlagRPCAllowed) {
		cfg.RPC.AllowedIPs, _ = fs.GetStringSlice(FlagRPCAllowed)
	}
	if changed(FlagRPCCORS) {
		cfg.RPC.CORSOrigins, _ = fs.GetStringSlice(FlagRPCCORS)
	}

	if changed(FlagWordlist) {
		cfg.Wallet.Wordlist, _ = fs.GetString(FlagWordlist)
	}
	if changed(FlagImportCount) {
		cfg.Wallet.ImportCount, _ = fs.GetInt(FlagImportCount)
	}
	if changed(FlagStorage) {
		cfg.Storage.Backend, _ = fs.GetString(FlagStorage)
	}

	if changed(FlagLogLevel) {
		cfg.Log.Level, _ = fs.GetString(FlagLogLevel)
	}
	if changed(FlagLogFile) {
		cfg.Log.File, _ = fs.GetString(FlagLogFile)
	}
	if changed(FlagLogJSON) {
		cfg.Log.JSON, _ = fs.GetBool(FlagLogJSON)
	}
}

// Load builds the effective configuration: defaults for the selected
// network, then the config file and environment, then explicit flags.
func Load(fs *pflag.FlagSet) (*Config, error) {
	network := Network(fs)
	if network == "" {
		network = Mainnet
	}
	cfg := Default(network)
	if dir, _ := fs.GetString(FlagDataDir); dir != "" {
		cfg.DataDir = dir
	}

	path, _ := fs.GetString(FlagConfig)
	if path == "" {
		path = cfg.ConfigFile()
	}
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	ApplyFlags(cfg, fs)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
