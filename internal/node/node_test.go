package node

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Klingon-tech/klingnet-seed/config"
	"github.com/Klingon-tech/klingnet-seed/internal/importer"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/rpc"
	"github.com/Klingon-tech/klingnet-seed/internal/storage"
)

const testPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default(config.Testnet)
	cfg.DataDir = t.TempDir()
	cfg.RPC.Port = 0 // Use random port.
	cfg.Storage.Backend = storage.BackendMemory
	cfg.Wallet.ImportCount = 2
	cfg.Wallet.KDFMemory = 64
	cfg.Wallet.KDFIterations = 1
	cfg.Wallet.KDFParallelism = 1
	cfg.Log.Level = "disabled"
	return cfg
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Wallet.Wordlist = "klingon"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown wordlist")
	}
}

func TestNodeLifecycle(t *testing.T) {
	n, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := n.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer n.Stop()

	addr := n.RPCAddr()
	if addr == "" {
		t.Fatal("RPCAddr should not be empty")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var h rpc.HealthResult
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !h.Importer || h.Wordlist != "english" {
		t.Errorf("health = %+v", h)
	}
}

func TestNode_RPCDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.RPC.Enabled = false

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := n.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer n.Stop()

	if n.RPCAddr() != "" {
		t.Errorf("RPCAddr = %q, want empty", n.RPCAddr())
	}
}

func TestNode_NewQueue(t *testing.T) {
	cfg := testConfig(t)
	cfg.RPC.Enabled = false
	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	done := make(chan error, 1)
	q, err := n.NewQueue(importer.Credentials{Name: "local", Password: []byte("pw")},
		func(_ onboard.ImportRequest, _ *importer.Result, err error) { done <- err })
	if err != nil {
		t.Fatalf("NewQueue() error: %v", err)
	}

	req := onboard.NewImportRequest(testPhrase, cfg.Wallet.ImportCount)
	q.Dispatch(req)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("import error: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("import did not finish")
	}

	rec, err := n.Importer().Journal().Get(req.ID)
	if err != nil {
		t.Fatalf("Journal().Get() error: %v", err)
	}
	if rec.Status != importer.StatusDone || rec.Name != "local" || len(rec.Addresses) != 2 {
		t.Errorf("record = %+v", rec)
	}

	n.Stop()
	if _, err := n.NewQueue(importer.Credentials{Password: []byte("pw")}, nil); err == nil {
		t.Error("NewQueue after Stop should fail")
	}
}

func TestNode_SQLiteJournalPersists(t *testing.T) {
	cfg := testConfig(t)
	cfg.RPC.Enabled = false
	cfg.Storage.Backend = storage.BackendSQLite

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	req := onboard.NewImportRequest(testPhrase, 1)
	res, err := n.Importer().Import(t.Context(), req, importer.Credentials{Password: []byte("pw")})
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	n.Stop()

	n2, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer n2.Stop()

	rec, err := n2.Importer().Journal().Get(req.ID)
	if err != nil {
		t.Fatalf("Journal().Get() error: %v", err)
	}
	if rec.Fingerprint != res.Fingerprint || rec.Status != importer.StatusDone {
		t.Errorf("record = %+v, want fingerprint %s", rec, res.Fingerprint)
	}
}
