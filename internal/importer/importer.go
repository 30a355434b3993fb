// Package importer turns mnemonic import requests into encrypted keystore
// wallets with their derived accounts, and journals every attempt.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	klog "github.com/Klingon-tech/klingnet-seed/internal/log"
	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
	"github.com/Klingon-tech/klingnet-seed/pkg/types"
	"github.com/google/uuid"
)

// MaxIndexes bounds how many accounts one request may derive.
const MaxIndexes = 1000

// Import errors.
var (
	ErrUnsupportedAccount = errors.New("unsupported account type")
	ErrNoIndexes          = errors.New("no derivation indexes")
	ErrIndexOutOfRange    = errors.New("derivation index must be non-hardened")
	ErrTooManyIndexes     = errors.New("too many derivation indexes")
	ErrDuplicateIndex     = errors.New("duplicate derivation index")
	ErrDuplicateRequest   = errors.New("import request already recorded")
	ErrPasswordRequired   = errors.New("wallet password is required")
	ErrRecordNotFound     = errors.New("import record not found")
	ErrQueueFull          = errors.New("import queue is full")
	ErrQueueStopped       = errors.New("import queue is stopped")

	// ErrWalletExists is returned when the target wallet name is taken.
	ErrWalletExists = wallet.ErrWalletExists
)

// Credentials protect the wallet created by an import. An empty Name
// selects "wallet-<fingerprint>".
type Credentials struct {
	Name     string
	Password []byte
}

// Result describes a completed import.
type Result struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Fingerprint string                `json:"fingerprint"`
	Accounts    []wallet.AccountEntry `json:"accounts"`
}

// Options configures an Importer.
type Options struct {
	Network   string
	Validator *mnemonic.Validator // nil means English
	Params    wallet.EncryptionParams
}

// Importer performs imports synchronously. It is safe for concurrent use.
type Importer struct {
	keystore  *wallet.Keystore
	journal   *Journal
	validator *mnemonic.Validator
	network   string
	hrp       string
	params    wallet.EncryptionParams

	now func() time.Time
}

// New creates an importer writing wallets to ks and records to journal.
func New(ks *wallet.Keystore, journal *Journal, opts Options) (*Importer, error) {
	if ks == nil || journal == nil {
		return nil, errors.New("importer: keystore and journal are required")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}
	v := opts.Validator
	if v == nil {
		v = mnemonic.NewValidator(nil)
	}
	network := opts.Network
	if network == "" {
		network = "mainnet"
	}
	return &Importer{
		keystore:  ks,
		journal:   journal,
		validator: v,
		network:   network,
		hrp:       types.HRPFor(network),
		params:    opts.Params,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Journal returns the importer's journal.
func (im *Importer) Journal() *Journal { return im.journal }

// Keystore returns the keystore wallets are written to.
func (im *Importer) Keystore() *wallet.Keystore { return im.keystore }

// checkRequest rejects requests that cannot be imported regardless of the
// phrase.
func checkRequest(req onboard.ImportRequest) error {
	if req.AccountType != onboard.AccountTypeMnemonic {
		return fmt.Errorf("%w: %q", ErrUnsupportedAccount, req.AccountType)
	}
	if len(req.DerivationIndexes) == 0 {
		return ErrNoIndexes
	}
	if len(req.DerivationIndexes) > MaxIndexes {
		return fmt.Errorf("%w: %d > %d", ErrTooManyIndexes, len(req.DerivationIndexes), MaxIndexes)
	}
	seen := make(map[uint32]bool, len(req.DerivationIndexes))
	for _, idx := range req.DerivationIndexes {
		if idx >= wallet.HardenedOffset {
			return fmt.Errorf("%w: %d", ErrIndexOutOfRange, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: %d", ErrDuplicateIndex, idx)
		}
		seen[idx] = true
	}
	return nil
}

// Import validates the request, creates the wallet and records the derived
// accounts. A journal record is written whatever the outcome.
//
// The request ID is an idempotency key. Replaying an ID whose import is done
// returns the recorded result when the phrase matches; a pending ID or a
// different phrase fails with ErrDuplicateRequest. Neither case touches the
// journal. Failed imports may be retried under the same ID.
func (im *Importer) Import(ctx context.Context, req onboard.ImportRequest, creds Credentials) (*Result, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	rec := &Record{
		ID:        req.ID,
		Name:      creds.Name,
		Indexes:   append([]uint32(nil), req.DerivationIndexes...),
		Status:    StatusPending,
		CreatedAt: im.now(),
	}
	prev, err := im.journal.Begin(rec)
	if errors.Is(err, ErrDuplicateRequest) && prev.Status == StatusDone {
		return im.replay(prev, req)
	}
	if err != nil {
		return nil, err
	}

	logger := klog.Importer.With().Str("id", req.ID).Int("indexes", len(req.DerivationIndexes)).Logger()

	res, err := im.run(ctx, req, creds, rec)
	if err != nil {
		logger.Warn().Err(err).Msg("Import failed")
		rec.Status = StatusFailed
		rec.Error = err.Error()
	} else {
		logger.Info().Str("wallet", res.Name).Str("fingerprint", res.Fingerprint).Msg("Import complete")
		rec.Status = StatusDone
	}
	rec.FinishedAt = im.now()
	if jerr := im.journal.Put(rec); jerr != nil {
		logger.Error().Err(jerr).Msg("Failed to finish import record")
		if err == nil {
			err = jerr
		}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (im *Importer) run(ctx context.Context, req onboard.ImportRequest, creds Credentials, rec *Record) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	if len(creds.Password) == 0 {
		return nil, ErrPasswordRequired
	}
	if creds.Name != "" && !wallet.ValidName(creds.Name) {
		return nil, fmt.Errorf("%w: %q", wallet.ErrInvalidName, creds.Name)
	}

	check := im.validator.ValidateMnemonic(req.Mnemonic)
	if !check.Valid {
		return nil, fmt.Errorf("invalid mnemonic: %w", check.Err())
	}

	seed := wallet.NewSeed(check.Mnemonic, "")
	defer wallet.Zero(seed)

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	fp := master.Fingerprint()
	rec.Fingerprint = fp

	name := creds.Name
	if name == "" {
		name = "wallet-" + fp
	}
	rec.Name = name

	acct, err := master.DeriveAccount(0)
	if err != nil {
		return nil, err
	}
	accounts, err := master.DeriveAccounts(im.hrp, req.DerivationIndexes)
	if err != nil {
		return nil, fmt.Errorf("derive accounts: %w", err)
	}
	for _, a := range accounts {
		rec.Addresses = append(rec.Addresses, a.Address)
	}

	// Key stretching is the slow part; give up before it if the caller has.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = im.keystore.Create(wallet.NewWallet{
		Name:        name,
		Fingerprint: fp,
		Network:     im.network,
		Wordlist:    im.validator.Wordlist().Name(),
		XPub:        acct.ExtendedPublic(),
		Seed:        seed,
		Password:    creds.Password,
		Params:      im.params,
	})
	if err != nil {
		return nil, err
	}
	if err := im.keystore.AddAccounts(name, accounts); err != nil {
		if derr := im.keystore.Delete(name); derr != nil {
			klog.Importer.Error().Err(derr).Str("wallet", name).Msg("Failed to remove partial wallet")
		}
		return nil, fmt.Errorf("record accounts: %w", err)
	}

	return &Result{
		ID:          req.ID,
		Name:        name,
		Fingerprint: fp,
		Accounts:    accounts,
	}, nil
}

// replay returns the result of the completed import prev. The phrase must
// belong to the same wallet.
func (im *Importer) replay(prev *Record, req onboard.ImportRequest) (*Result, error) {
	check := im.validator.ValidateMnemonic(req.Mnemonic)
	if !check.Valid {
		return nil, fmt.Errorf("%w: %s with a different phrase", ErrDuplicateRequest, prev.ID)
	}
	seed := wallet.NewSeed(check.Mnemonic, "")
	defer wallet.Zero(seed)
	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	if master.Fingerprint() != prev.Fingerprint {
		return nil, fmt.Errorf("%w: %s with a different phrase", ErrDuplicateRequest, prev.ID)
	}

	stored, err := im.keystore.ListAccounts(prev.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDuplicateRequest, prev.ID, err)
	}
	want := make(map[string]bool, len(prev.Addresses))
	for _, a := range prev.Addresses {
		want[a] = true
	}
	accounts := make([]wallet.AccountEntry, 0, len(prev.Addresses))
	for _, a := range stored {
		if want[a.Address] {
			accounts = append(accounts, a)
		}
	}

	klog.Importer.Debug().Str("id", prev.ID).Str("wallet", prev.Name).Msg("Replayed completed import")
	return &Result{
		ID:          prev.ID,
		Name:        prev.Name,
		Fingerprint: prev.Fingerprint,
		Accounts:    accounts,
	}, nil
}

// Fail records req as failed without attempting it. A pending or done
// record under the same ID is left as is and ErrDuplicateRequest returned.
func (im *Importer) Fail(req onboard.ImportRequest, creds Credentials, cause error) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := im.now()
	_, err := im.journal.Begin(&Record{
		ID:         req.ID,
		Name:       creds.Name,
		Indexes:    append([]uint32(nil), req.DerivationIndexes...),
		Status:     StatusFailed,
		Error:      cause.Error(),
		CreatedAt:  now,
		FinishedAt: now,
	})
	return err
}
