package rpc

import (
	"github.com/Klingon-tech/klingnet-seed/internal/importer"
	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeInvalidPhrase  = -32001 // Data carries a MnemonicErrorData.
	CodeWalletExists   = -32002
	CodeUnavailable    = -32003
	CodeDuplicateID    = -32004
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Mnemonic types ──────────────────────────────────────────────────────

// CheckWordsParam is used by mnemonic_checkWords.
type CheckWordsParam struct {
	Text string `json:"text"`
}

// CheckWordsResult is returned by mnemonic_checkWords.
type CheckWordsResult struct {
	Error          mnemonic.Kind `json:"error"`
	InvalidWord    string        `json:"invalid_word,omitempty"`
	ValidLength    bool          `json:"valid_length"`
	FinishedTyping bool          `json:"finished_typing"`
}

// ValidateParam is used by mnemonic_validate.
type ValidateParam struct {
	Mnemonic string `json:"mnemonic"`
	Lang     string `json:"lang,omitempty"` // Accept-Language style; empty uses the server locale.
}

// ValidateResult is returned by mnemonic_validate. Message is empty for a
// valid phrase.
type ValidateResult struct {
	Valid       bool          `json:"valid"`
	Mnemonic    string        `json:"mnemonic,omitempty"`
	Error       mnemonic.Kind `json:"error"`
	InvalidWord string        `json:"invalid_word,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// MnemonicErrorData is attached to CodeInvalidPhrase errors.
type MnemonicErrorData struct {
	Error       mnemonic.Kind `json:"error"`
	InvalidWord string        `json:"invalid_word,omitempty"`
}

// ── Wallet types ────────────────────────────────────────────────────────

// WalletImportParam is used by wallet_import. Empty Indexes derives the
// server's default import count; empty Name uses wallet-<fingerprint>.
// Replaying the ID of a completed import returns its result.
type WalletImportParam struct {
	Name     string   `json:"name,omitempty"`
	Password string   `json:"password"`
	Mnemonic string   `json:"mnemonic"`
	Indexes  []uint32 `json:"indexes,omitempty"`
	ID       string   `json:"id,omitempty"`
	Lang     string   `json:"lang,omitempty"`
}

// WalletImportResult is returned by wallet_import.
type WalletImportResult struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Fingerprint string                `json:"fingerprint"`
	Accounts    []wallet.AccountEntry `json:"accounts"`
}

// WalletListResult is returned by wallet_list.
type WalletListResult struct {
	Wallets []*wallet.WalletInfo `json:"wallets"`
}

// WalletNameParam is used by wallet_listAccounts.
type WalletNameParam struct {
	Name string `json:"name"`
}

// WalletAccountsResult is returned by wallet_listAccounts.
type WalletAccountsResult struct {
	Accounts []wallet.AccountEntry `json:"accounts"`
}

// ── Import journal types ────────────────────────────────────────────────

// ImportIDParam is used by import_getStatus.
type ImportIDParam struct {
	ID string `json:"id"`
}

// ImportListResult is returned by import_list.
type ImportListResult struct {
	Imports []*importer.Record `json:"imports"`
}

// HealthResult is the body of GET /healthz.
type HealthResult struct {
	Status   string `json:"status"`
	Wordlist string `json:"wordlist"`
	Importer bool   `json:"importer"`
}
