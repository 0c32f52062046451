// Package vault encrypts individual document fields with a process-wide key.
//
// Each field is sealed independently with XChaCha20-Poly1305 and the field
// name as associated data, so a ciphertext copied into a different field
// fails authentication instead of decrypting to the wrong value.
//
// Token format: "v1." + base64url(nonce || ciphertext || tag), unpadded.
// Fernet tokens written by the previous storage format are still opened
// with the same key; Encrypt always writes v1 tokens.
package vault

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const tokenPrefix = "v1."

var (
	// ErrKey is returned when the configured key is missing or malformed.
	ErrKey = errors.New("vault: invalid key")

	// ErrDecrypt is returned when a token cannot be authenticated or parsed.
	ErrDecrypt = errors.New("vault: decrypt failed")
)

// Vault seals and opens field values. Safe for concurrent use.
type Vault struct {
	aead   cipher.AEAD
	legacy fernetKey
}

// New creates a Vault from a raw 32-byte key.
func New(key []byte) (*Vault, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrKey, chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKey, err)
	}
	return &Vault{aead: aead, legacy: newFernetKey(key)}, nil
}

// ParseKey decodes a base64 key (standard or URL alphabet, padded or not).
// Keys generated for the previous Fernet-based storage have the same shape
// and are accepted as-is; their Fernet tokens open through Decrypt.
func ParseKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty", ErrKey)
	}
	encodings := []*base64.Encoding{
		base64.URLEncoding,
		base64.RawURLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	for _, enc := range encodings {
		key, err := enc.DecodeString(encoded)
		if err == nil && len(key) == chacha20poly1305.KeySize {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: expected base64 of %d bytes", ErrKey, chacha20poly1305.KeySize)
}

// FromEncodedKey is ParseKey followed by New.
func FromEncodedKey(encoded string) (*Vault, error) {
	key, err := ParseKey(encoded)
	if err != nil {
		return nil, err
	}
	return New(key)
}

// GenerateKey returns a fresh random key, base64url encoded with padding.
func GenerateKey() (string, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

// Encrypt seals plaintext bound to the given field name.
func (v *Vault) Encrypt(field, plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize(), v.aead.NonceSize()+len(plaintext)+v.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encrypt %s: %w", field, err)
	}
	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), []byte(field))
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt for the same field name, or a
// legacy Fernet token.
func (v *Vault) Decrypt(field, token string) (string, error) {
	body, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		if isFernetToken(token) {
			plain, err := v.legacy.open(token)
			if err != nil {
				return "", fmt.Errorf("%w: %s: %v", ErrDecrypt, field, err)
			}
			return plain, nil
		}
		return "", fmt.Errorf("%w: %s: unknown token format", ErrDecrypt, field)
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecrypt, field, err)
	}
	ns := v.aead.NonceSize()
	if len(raw) < ns+v.aead.Overhead() {
		return "", fmt.Errorf("%w: %s: token too short", ErrDecrypt, field)
	}
	plain, err := v.aead.Open(nil, raw[:ns], raw[ns:], []byte(field))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecrypt, field, err)
	}
	return string(plain), nil
}
