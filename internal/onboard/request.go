// Package onboard implements the recovery-phrase entry screen: the state
// machine that turns text updates and submit presses into UI state, one
// import request and one navigation signal.
package onboard

import "github.com/google/uuid"

// AccountType identifies how an imported account is derived.
type AccountType string

// AccountTypeMnemonic imports accounts derived from a BIP-39 phrase.
const AccountTypeMnemonic AccountType = "mnemonic"

// DefaultImportCount is how many accounts are derived on import.
const DefaultImportCount = 10

// ImportRequest is handed to the import subsystem after a successful submit.
type ImportRequest struct {
	ID                string      `json:"id"`
	AccountType       AccountType `json:"account_type"`
	Mnemonic          string      `json:"mnemonic"`
	DerivationIndexes []uint32    `json:"derivation_indexes"`
}

// NewImportRequest builds a mnemonic import for indexes 0..count-1.
// The phrase must already be in canonical form.
func NewImportRequest(canonical string, count int) ImportRequest {
	return ImportRequest{
		ID:                uuid.NewString(),
		AccountType:       AccountTypeMnemonic,
		Mnemonic:          canonical,
		DerivationIndexes: Indexes(count),
	}
}

// Indexes returns [0, 1, ..., count-1].
func Indexes(count int) []uint32 {
	if count < 0 {
		count = 0
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

// RouteParams are forwarded untouched to the next screen.
type RouteParams map[string]string

// Dispatcher receives import requests. Dispatch must not block on the
// import itself; the screen never observes the outcome.
type Dispatcher interface {
	Dispatch(req ImportRequest)
}

// Navigator advances the onboarding flow past this screen.
type Navigator interface {
	Advance(params RouteParams)
}

// Localizer renders a message ID with template data.
type Localizer interface {
	Localize(id string, data map[string]any) string
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(req ImportRequest)

// Dispatch calls f(req).
func (f DispatcherFunc) Dispatch(req ImportRequest) { f(req) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(params RouteParams)

// Advance calls f(params).
func (f NavigatorFunc) Advance(params RouteParams) { f(params) }
