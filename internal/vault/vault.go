// Package vault seals LMS bearer tokens at rest with AES-256-GCM.
//
// The sealed layout is base64(ciphertext||tag) and base64(nonce), with a
// 12-byte nonce drawn fresh for every Encrypt call.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// KeySize is the required key length in bytes.
const KeySize = 32

var (
	// ErrInvalidKey is a deployment error: the key is missing or not 32 bytes.
	ErrInvalidKey = errors.New("vault key must be 32 bytes")
	// ErrCorrupted means the sealed token cannot be opened with this key.
	// Callers must ask the user to reconnect and never retry.
	ErrCorrupted = errors.New("sealed token is corrupted or was sealed with another key")
)

// Sealed is an encrypted token as persisted.
type Sealed struct {
	Ciphertext string
	Nonce      string
}

// Vault is safe for concurrent use. The key is read-only after New.
type Vault struct {
	aead cipher.AEAD
}

func New(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKey, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// NewFromBase64 decodes a standard base64 key, the form kept in the environment.
func NewFromBase64(encoded string) (*Vault, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidKey, err)
	}
	return New(key)
}

func (v *Vault) Encrypt(plaintext string) (Sealed, error) {
	if v == nil || v.aead == nil {
		return Sealed{}, ErrInvalidKey
	}

	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Sealed{}, fmt.Errorf("read nonce: %w", err)
	}

	ciphertext := v.aead.Seal(nil, nonce, []byte(plaintext), nil)

	return Sealed{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

func (v *Vault) Decrypt(sealed Sealed) (string, error) {
	if v == nil || v.aead == nil {
		return "", ErrInvalidKey
	}

	nonce, err := base64.StdEncoding.DecodeString(sealed.Nonce)
	if err != nil || len(nonce) != v.aead.NonceSize() {
		return "", ErrCorrupted
	}

	ciphertext, err := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	if err != nil || len(ciphertext) < v.aead.Overhead() {
		return "", ErrCorrupted
	}

	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCorrupted
	}

	return string(plaintext), nil
}
