package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"
)

const keystoreVersion = 1

// Keystore errors.
var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrInvalidName    = errors.New("invalid wallet name")
)

var walletNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	Fingerprint   string         `json:"fingerprint"`
	Network       string         `json:"network"`
	Wordlist      string         `json:"wordlist"`
	XPub          string         `json:"xpub,omitempty"` // m/44'/8888'/0'
	EncryptedSeed []byte         `json:"encrypted_seed"`
	Accounts      []AccountEntry `json:"accounts"`
}

// NewWallet describes a wallet to be created. Seed and Password are not
// retained by the keystore.
type NewWallet struct {
	Name        string
	Fingerprint string
	Network     string
	Wordlist    string
	XPub        string
	Seed        []byte
	Password    []byte
	Params      EncryptionParams
}

// WalletInfo is the unencrypted metadata of a stored wallet.
type WalletInfo struct {
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	Network     string    `json:"network"`
	Wordlist    string    `json:"wordlist"`
	XPub        string    `json:"xpub,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Accounts    int       `json:"accounts"`
}

// Keystore manages encrypted key storage on disk. It is safe for
// concurrent use within one process.
type Keystore struct {
	path string
	mu   sync.Mutex
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Dir returns the keystore directory.
func (ks *Keystore) Dir() string { return ks.path }

// ValidName reports whether name can be used as a wallet name.
func ValidName(name string) bool {
	return walletNameRe.MatchString(name)
}

// walletPath returns the file path for a wallet by name.
func (ks *Keystore) walletPath(name string) string {
	return filepath.Join(ks.path, name+".wallet")
}

// Create writes a new encrypted wallet file. The seed is bound to the
// fingerprint so the two cannot be swapped independently on disk.
func (ks *Keystore) Create(w NewWallet) error {
	if !ValidName(w.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, w.Name)
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	path := ks.walletPath(w.Name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %q", ErrWalletExists, w.Name)
	}

	encrypted, err := Encrypt(w.Seed, w.Password, []byte(w.Fingerprint), w.Params)
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	kf := keystoreFile{
		Version:       keystoreVersion,
		CreatedAt:     time.Now().UTC(),
		Fingerprint:   w.Fingerprint,
		Network:       w.Network,
		Wordlist:      w.Wordlist,
		XPub:          w.XPub,
		EncryptedSeed: encrypted,
		Accounts:      []AccountEntry{},
	}
	return ks.writeFile(path, &kf)
}

// Load decrypts a wallet and returns the seed bytes.
func (ks *Keystore) Load(name string, password []byte) ([]byte, error) {
	ks.mu.Lock()
	kf, err := ks.readFile(name)
	ks.mu.Unlock()
	if err != nil {
		return nil, err
	}

	seed, err := Decrypt(kf.EncryptedSeed, password, []byte(kf.Fingerprint))
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}
	return seed, nil
}

// AddAccount records a derived account in the wallet metadata.
func (ks *Keystore) AddAccount(walletName string, acct AccountEntry) error {
	return ks.AddAccounts(walletName, []AccountEntry{acct})
}

// AddAccounts records several accounts with a single write. Re-adding an
// account with the same path and address is a no-op.
func (ks *Keystore) AddAccounts(walletName string, accts []AccountEntry) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	kf, err := ks.readFile(walletName)
	if err != nil {
		return err
	}

next:
	for _, acct := range accts {
		change, index := acct.Derivation()
		for _, existing := range kf.Accounts {
			exChange, exIndex := existing.Derivation()
			if exChange == change && exIndex == index {
				if existing.Address == acct.Address {
					continue next
				}
				return fmt.Errorf("account path change=%d index=%d already exists", change, index)
			}
			if existing.Address != "" && existing.Address == acct.Address {
				continue next
			}
		}
		kf.Accounts = append(kf.Accounts, acct)
	}

	return ks.writeFile(ks.walletPath(walletName), kf)
}

// ListAccounts returns the account entries for a wallet.
func (ks *Keystore) ListAccounts(walletName string) ([]AccountEntry, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	kf, err := ks.readFile(walletName)
	if err != nil {
		return nil, err
	}
	return kf.Accounts, nil
}

// Info returns a wallet's metadata without decrypting it.
func (ks *Keystore) Info(name string) (*WalletInfo, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	kf, err := ks.readFile(name)
	if err != nil {
		return nil, err
	}
	return &WalletInfo{
		Name:        name,
		Fingerprint: kf.Fingerprint,
		Network:     kf.Network,
		Wordlist:    kf.Wordlist,
		XPub:        kf.XPub,
		CreatedAt:   kf.CreatedAt,
		Accounts:    len(kf.Accounts),
	}, nil
}

// List returns the names of all wallet files in the keystore, sorted.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".wallet" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindByFingerprint returns the names of wallets holding the same seed.
func (ks *Keystore) FindByFingerprint(fp string) ([]string, error) {
	names, err := ks.List()
	if err != nil {
		return nil, err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	var out []string
	for _, name := range names {
		kf, err := ks.readFile(name)
		if err != nil {
			continue
		}
		if kf.Fingerprint == fp {
			out = append(out, name)
		}
	}
	return out, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	path := ks.walletPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return os.Remove(path)
}

// writeFile replaces path atomically.
func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}

	tmp, err := os.CreateTemp(ks.path, ".wallet-*")
	if err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("write wallet: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(name string) (*keystoreFile, error) {
	data, err := os.ReadFile(ks.walletPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
