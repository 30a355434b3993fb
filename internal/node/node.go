// Package node wires the keystore, import journal, importer and RPC server
// into one unit that can be embedded in any binary (daemon, client, etc.).
package node

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Klingon-tech/klingnet-seed/config"
	"github.com/Klingon-tech/klingnet-seed/internal/i18n"
	"github.com/Klingon-tech/klingnet-seed/internal/importer"
	klog "github.com/Klingon-tech/klingnet-seed/internal/log"
	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/rpc"
	"github.com/Klingon-tech/klingnet-seed/internal/storage"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized import service.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	// Core
	db        storage.DB
	keystore  *wallet.Keystore
	validator *mnemonic.Validator
	bundle    *i18n.Bundle
	importer  *importer.Importer

	// RPC
	rpcServer *rpc.Server

	// Local import queues
	queueMu sync.Mutex
	queues  []*importer.Queue

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates and initializes a new Node. It performs all setup steps
// (logger, storage, keystore, wordlist, importer, RPC) but does NOT bind
// the RPC listener. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	// ── 1. Init logger ──────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "klingseed.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	logger.Info().
		Str("network", string(cfg.Network)).
		Str("datadir", cfg.NetworkDataDir()).
		Str("wordlist", cfg.Wallet.Wordlist).
		Msg("Starting Klingnet seed service")

	// ── 2. Wordlist + translations ──────────────────────────────────
	wl, err := mnemonic.Lookup(cfg.Wallet.Wordlist)
	if err != nil {
		return nil, fmt.Errorf("load wordlist: %w", err)
	}
	validator := mnemonic.NewValidator(wl)

	bundle, err := i18n.NewBundle()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	// ── 3. Open storage ─────────────────────────────────────────────
	if cfg.Storage.Backend != storage.BackendMemory {
		if err := os.MkdirAll(cfg.StorageDir(), 0700); err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}
	}
	db, err := storage.Open(cfg.Storage.Backend, cfg.StorageDir())
	if err != nil {
		return nil, fmt.Errorf("open %s journal at %s: %w", cfg.Storage.Backend, cfg.StorageDir(), err)
	}
	logger.Info().
		Str("backend", cfg.Storage.Backend).
		Str("path", cfg.StorageDir()).
		Msg("Journal opened")

	// ── 4. Keystore + importer ──────────────────────────────────────
	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open keystore: %w", err)
	}

	imp, err := importer.New(ks, importer.NewJournal(db), importer.Options{
		Network:   string(cfg.Network),
		Validator: validator,
		Params:    cfg.KDFParams(),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create importer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Node{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		keystore:  ks,
		validator: validator,
		bundle:    bundle,
		importer:  imp,
		ctx:       ctx,
		cancel:    cancel,
	}

	// ── 5. RPC ──────────────────────────────────────────────────────
	if cfg.RPC.Enabled {
		srv := rpc.New(cfg.RPCListenAddr(), validator, bundle, cfg.RPC)
		srv.SetImporter(imp)
		srv.SetImportCount(cfg.Wallet.ImportCount)
		srv.SetLocale(cfg.Locale)
		n.rpcServer = srv
	}

	return n, nil
}

// Start binds the RPC listener, if enabled.
func (n *Node) Start() error {
	if n.rpcServer == nil {
		n.logger.Info().Msg("RPC disabled")
		return nil
	}
	if err := n.rpcServer.Start(); err != nil {
		return err
	}
	n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server listening")
	return nil
}

// Stop shuts the node down. Local queues are drained before the journal
// is closed.
func (n *Node) Stop() {
	n.cancel()

	if n.rpcServer != nil {
		if err := n.rpcServer.Stop(); err != nil {
			n.logger.Warn().Err(err).Msg("RPC shutdown")
		}
	}

	n.queueMu.Lock()
	queues := n.queues
	n.queues = nil
	n.queueMu.Unlock()
	for _, q := range queues {
		q.Stop()
	}

	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
}

// NewQueue starts an import queue bound to the node's lifetime. Stop
// drains it before the journal closes.
func (n *Node) NewQueue(creds importer.Credentials, onResult importer.ResultFunc) (*importer.Queue, error) {
	n.queueMu.Lock()
	defer n.queueMu.Unlock()
	if n.ctx.Err() != nil {
		return nil, errors.New("node is stopped")
	}

	q := importer.NewQueue(n.importer, creds, importer.DefaultQueueSize, n.observe(onResult))
	q.Start(n.ctx)
	n.queues = append(n.queues, q)
	return q, nil
}

// observe logs every finished import before handing it to fn.
func (n *Node) observe(fn importer.ResultFunc) importer.ResultFunc {
	return func(req onboard.ImportRequest, res *importer.Result, err error) {
		if err != nil {
			n.logger.Warn().Str("id", req.ID).Err(err).Msg("Local import failed")
		} else {
			n.logger.Info().Str("id", req.ID).Str("wallet", res.Name).Msg("Local import finished")
		}
		if fn != nil {
			fn(req, res, err)
		}
	}
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Config returns the node's configuration.
func (n *Node) Config() *config.Config { return n.cfg }

// Validator returns the validator for the configured wordlist.
func (n *Node) Validator() *mnemonic.Validator { return n.validator }

// Bundle returns the loaded translations.
func (n *Node) Bundle() *i18n.Bundle { return n.bundle }

// Importer returns the node's importer.
func (n *Node) Importer() *importer.Importer { return n.importer }
