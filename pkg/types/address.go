// Package types holds the small value types shared between klingseed packages.
package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 20

// Address HRP (human-readable part) constants for bech32 encoding.
const (
	MainnetHRP = "kgx"
	TestnetHRP = "tkgx"
)

// Address represents a 160-bit address (public key hash).
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Encode returns the bech32 text form of the address under hrp (e.g. "kgx1...").
func (a Address) Encode(hrp string) (string, error) {
	s, err := bech32.EncodeFromBase256(hrp, a[:])
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	return s, nil
}

// Hex returns the raw hex-encoded address without prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// ParseAddress parses a bech32 address and reports the HRP it was encoded with.
// A raw 40-char hex string is also accepted; its HRP is empty.
func ParseAddress(s string) (Address, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, "", fmt.Errorf("empty address")
	}

	if len(s) == 2*AddressSize {
		if b, err := hex.DecodeString(s); err == nil {
			var a Address
			copy(a[:], b)
			return a, "", nil
		}
	}

	hrp, data, err := bech32.DecodeToBase256(s)
	if err != nil {
		return Address{}, "", fmt.Errorf("invalid bech32 address: %w", err)
	}
	if len(data) != AddressSize {
		return Address{}, "", fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(data))
	}
	var a Address
	copy(a[:], data)
	return a, hrp, nil
}

// HRPFor returns the address HRP used on the named network.
func HRPFor(network string) string {
	if network == "testnet" {
		return TestnetHRP
	}
	return MainnetHRP
}
