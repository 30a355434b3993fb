package config

import "github.com/Klingon-tech/klingnet-seed/internal/storage"

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Locale:  "en",
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8565,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Wallet: WalletConfig{
			Wordlist:       "english",
			ImportCount:    10,
			KDFMemory:      64 * 1024,
			KDFIterations:  3,
			KDFParallelism: 4,
		},
		Storage: StorageConfig{
			Backend: storage.BackendBadger,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.Port = 8665
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
