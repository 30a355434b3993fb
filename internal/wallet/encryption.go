package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Encryption constants.
const (
	SaltSize = 32

	// formatV1 prefixes every sealed blob.
	formatV1 byte = 1

	// Sealed format: [version(1)][salt(32)][memory(4)][iterations(4)][parallelism(1)][nonce(24)][ciphertext...]
	headerSize = 1 + SaltSize + 4 + 4 + 1
)

// Limits applied to parameters read back from a sealed blob.
const (
	maxMemoryKiB  = 4 * 1024 * 1024
	maxIterations = 64
)

// ErrDecrypt is returned when a blob cannot be opened, which almost always
// means the password is wrong.
var ErrDecrypt = errors.New("decryption failed: wrong password or corrupted data")

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns recommended Argon2id parameters.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// Validate rejects parameters that argon2 cannot use or that would make
// opening a wallet unreasonably slow.
func (p EncryptionParams) Validate() error {
	switch {
	case p.Iterations == 0 || p.Iterations > maxIterations:
		return fmt.Errorf("kdf iterations must be 1-%d, got %d", maxIterations, p.Iterations)
	case p.Parallelism == 0:
		return fmt.Errorf("kdf parallelism must be positive")
	case p.Memory < 8*uint32(p.Parallelism) || p.Memory > maxMemoryKiB:
		return fmt.Errorf("kdf memory must be %d-%d KiB, got %d", 8*uint32(p.Parallelism), maxMemoryKiB, p.Memory)
	}
	return nil
}

// deriveKey uses Argon2id to derive a 32-byte encryption key from password and salt.
func deriveKey(password, salt []byte, params EncryptionParams) []byte {
	return argon2.IDKey(
		password,
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// Encrypt seals data with password using Argon2id + XChaCha20-Poly1305.
// aad is authenticated but not encrypted; Decrypt must be given the same aad.
func Encrypt(data, password, aad []byte, params EncryptionParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey(password, salt, params)
	defer Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(data)+aead.Overhead())
	out = append(out, formatV1)
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.Memory)
	out = binary.LittleEndian.AppendUint32(out, params.Iterations)
	out = append(out, params.Parallelism)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, aad), nil
}

// Decrypt opens a blob produced by Encrypt.
func Decrypt(encrypted, password, aad []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := headerSize + nonceSize + chacha20poly1305.Overhead
	if len(encrypted) < minSize {
		return nil, fmt.Errorf("encrypted data too short: %d bytes, need at least %d", len(encrypted), minSize)
	}
	if encrypted[0] != formatV1 {
		return nil, fmt.Errorf("unsupported encryption format %d", encrypted[0])
	}

	body := encrypted[1:]
	salt := body[:SaltSize]
	params := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(body[SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(body[SaltSize+4:]),
		Parallelism: body[SaltSize+8],
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("stored params: %w", err)
	}

	nonce := encrypted[headerSize : headerSize+nonceSize]
	ciphertext := encrypted[headerSize+nonceSize:]

	key := deriveKey(password, salt, params)
	defer Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
