// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptit.
//
// go-cryptit is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package aesgcm implements AES-256-GCM authenticated encryption for
// protected file payloads.
//
// The cipher operates with fixed parameters:
//   - 256-bit keys
//   - 96-bit (12-byte) nonces
//   - 128-bit (16-byte) authentication tags
//   - No additional authenticated data
//
// Authentication failures are reported through types.ErrAuthenticationFailed
// without revealing whether the key, nonce, ciphertext, or tag was at fault.
package aesgcm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/jeremyhahn/go-cryptit/pkg/types"
)

const (
	// KeySize is the required key length in bytes (256 bits).
	KeySize = 32

	// NonceSize is the GCM nonce length in bytes (96 bits).
	NonceSize = 12

	// TagSize is the GCM authentication tag length in bytes (128 bits).
	TagSize = 16
)

// AEAD provides AES-256-GCM authenticated encryption over a fixed key.
type AEAD interface {
	// Encrypt encrypts plaintext and returns EncryptedData containing the
	// nonce, ciphertext, and authentication tag as separate fields.
	// If nonce is nil, a random 12-byte nonce is generated.
	Encrypt(plaintext, nonce []byte) (*types.EncryptedData, error)

	// Decrypt verifies the authentication tag and decrypts the ciphertext.
	// Returns types.ErrAuthenticationFailed if verification fails for any
	// reason.
	Decrypt(data *types.EncryptedData) ([]byte, error)

	// NonceSize returns the nonce size for this cipher (12 bytes).
	NonceSize() int

	// Overhead returns the authentication tag overhead (16 bytes).
	Overhead() int
}

// aesGCM implements the AEAD interface using the standard library AES-GCM.
type aesGCM struct {
	aead cipher.AEAD
}

// New creates a new AES-256-GCM cipher with the given key.
// The key must be exactly 32 bytes (256 bits).
//
// Example:
//
//	key, err := aesgcm.GenerateKey()
//	if err != nil {
//	    return err
//	}
//	cipher, err := aesgcm.New(key)
//	if err != nil {
//	    return err
//	}
//	encrypted, err := cipher.Encrypt(plaintext, nil)
func New(key []byte) (AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size: %d bytes (must be %d bytes)", len(key), KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &aesGCM{aead: gcm}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
//
// A fresh random nonce is generated when nonce is nil. Never reuse a nonce
// with the same key.
func (c *aesGCM) Encrypt(plaintext, nonce []byte) (*types.EncryptedData, error) {
	if nonce == nil {
		var err error
		nonce, err = GenerateNonce()
		if err != nil {
			return nil, err
		}
	} else if len(nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce size: %d bytes (must be %d bytes)", len(nonce), NonceSize)
	}

	// Seal appends the 16-byte tag to the ciphertext
	ciphertextWithTag := c.aead.Seal(nil, nonce, plaintext, nil)

	ciphertext := ciphertextWithTag[:len(ciphertextWithTag)-TagSize]
	tag := ciphertextWithTag[len(ciphertextWithTag)-TagSize:]

	return &types.EncryptedData{
		Algorithm:  types.AlgorithmAES256GCM,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
	}, nil
}

// Decrypt decrypts ciphertext using AES-256-GCM.
//
// Authentication is verified before any plaintext is returned. The error on
// failure is deliberately opaque: callers cannot distinguish a wrong key
// from tampered ciphertext, a tampered tag, or a tampered nonce.
func (c *aesGCM) Decrypt(data *types.EncryptedData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("encrypted data cannot be nil")
	}
	if len(data.Nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce size: %d bytes (must be %d bytes)", len(data.Nonce), NonceSize)
	}
	if len(data.Tag) != TagSize {
		return nil, fmt.Errorf("invalid tag size: %d bytes (must be %d bytes)", len(data.Tag), TagSize)
	}

	// Open expects the tag appended to the ciphertext
	ciphertextWithTag := make([]byte, len(data.Ciphertext)+len(data.Tag))
	copy(ciphertextWithTag, data.Ciphertext)
	copy(ciphertextWithTag[len(data.Ciphertext):], data.Tag)

	plaintext, err := c.aead.Open(nil, data.Nonce, ciphertextWithTag, nil)
	if err != nil {
		return nil, types.ErrAuthenticationFailed
	}

	return plaintext, nil
}

// NonceSize returns the nonce size for this cipher (12 bytes).
func (c *aesGCM) NonceSize() int {
	return c.aead.NonceSize()
}

// Overhead returns the authentication tag size (16 bytes).
func (c *aesGCM) Overhead() int {
	return c.aead.Overhead()
}

// GenerateKey generates a new random 256-bit (32-byte) key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// GenerateNonce generates a new random 96-bit (12-byte) GCM nonce.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}
