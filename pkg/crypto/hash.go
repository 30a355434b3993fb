// Package crypto provides the hashing and key helpers used to turn derived
// keys into addresses and wallet fingerprints.
package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/Klingon-tech/klingnet-seed/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/zeebo/blake3"
)

// HashSize is the size of a BLAKE3-256 digest.
const HashSize = 32

// FingerprintSize is the number of hash bytes kept in a wallet fingerprint.
const FingerprintSize = 4

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) [HashSize]byte {
	return blake3.Sum256(data)
}

// CompressPubKey parses a serialized secp256k1 public key (compressed or
// uncompressed) and returns the 33-byte compressed form. Points that are not
// on the curve are rejected.
func CompressPubKey(pub []byte) ([]byte, error) {
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return key.SerializeCompressed(), nil
}

// AddressFromPubKey derives an address from a public key.
// Address = BLAKE3(compressed_pubkey)[:20].
func AddressFromPubKey(pub []byte) (types.Address, error) {
	compressed, err := CompressPubKey(pub)
	if err != nil {
		return types.Address{}, err
	}
	h := Hash(compressed)
	var addr types.Address
	copy(addr[:], h[:types.AddressSize])
	return addr, nil
}

// Fingerprint returns a short hex identifier for a master public key.
// Two imports of the same phrase always share a fingerprint.
func Fingerprint(masterPub []byte) string {
	h := Hash(masterPub)
	return hex.EncodeToString(h[:FingerprintSize])
}
