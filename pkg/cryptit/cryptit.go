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

// Package cryptit composes the secret-sharing engine, the AES-256-GCM
// cipher, and the container codec into the two top-level operations:
// Encrypt protects a file's bytes and issues key shares, Decrypt recovers
// the bytes from a container and enough shares.
//
// The pipeline owns the key lifecycle. A fresh key is generated for every
// Encrypt, exists only inside the call, and is overwritten with zeros
// before the call returns on every path. Decrypt does the same with the
// reconstructed key.
//
// Known gap: container header fields (threshold, shares, filename) are not
// covered by the authentication tag. Tampering with them cannot expose
// plaintext or bypass tag verification, but it is not itself detected.
// Authenticating the header would change the wire format, so existing
// containers pin the current behavior.
//
// The pipeline performs no disk or network I/O. Hosts supply plaintext or
// container bytes and persist the results.
package cryptit

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-cryptit/pkg/container"
	"github.com/jeremyhahn/go-cryptit/pkg/crypto/aesgcm"
	"github.com/jeremyhahn/go-cryptit/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-cryptit/pkg/logging"
	"github.com/jeremyhahn/go-cryptit/pkg/types"
)

// FileExtension is the conventional suffix for protected container files.
const FileExtension = ".cryptit"

// Pipeline orchestrates encrypt and decrypt operations. It holds no key
// material between calls; concurrent operations are independent.
type Pipeline struct {
	logger *logging.Logger
}

// New creates a Pipeline. A nil logger falls back to the default logger.
func New(logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Pipeline{logger: logger}
}

// Encrypt protects plaintext under a fresh 256-bit key and splits the key
// into shares with reconstruction threshold k. It returns the serialized
// container and the key shares; the caller persists the container and
// distributes the shares. The key itself never leaves this call.
//
// Threshold parameters are validated before any randomness is drawn;
// violations return types.ErrInvalidThreshold.
func (p *Pipeline) Encrypt(plaintext []byte, filename string, threshold, shares int) ([]byte, []secretsharing.Share, error) {
	scheme, err := secretsharing.New(threshold, shares)
	if err != nil {
		return nil, nil, err
	}

	opID := uuid.New()
	p.logger.Debug("encrypting",
		"op", opID,
		"filename", filename,
		"plaintext_bytes", len(plaintext),
		"threshold", threshold,
		"shares", shares)

	keyBytes, err := aesgcm.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key: %w", err)
	}
	key := NewKey(keyBytes)
	defer key.Destroy()

	aead, err := aesgcm.New(key.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	checksum := sha256.Sum256(plaintext)

	encrypted, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption failed: %w", err)
	}

	keyShares, err := scheme.Split(key.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to split key: %w", err)
	}

	c := &container.Container{
		Algorithm:         encrypted.Algorithm,
		Threshold:         byte(threshold),
		Shares:            byte(shares),
		Filename:          filename,
		PlaintextSize:     uint64(len(plaintext)),
		PlaintextChecksum: checksum[:],
		Nonce:             encrypted.Nonce,
		Ciphertext:        encrypted.Ciphertext,
		Tag:               encrypted.Tag,
	}
	containerBytes, err := c.Marshal()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize container: %w", err)
	}

	p.logger.Debug("encrypted",
		"op", opID,
		"container_bytes", len(containerBytes),
		"shares_issued", len(keyShares))

	return containerBytes, keyShares, nil
}

// Decrypt recovers plaintext from container bytes using the supplied
// shares. Structural container failures abort before any share is touched;
// share validation failures abort before decryption.
//
// Wrong shares, a tampered ciphertext, a tampered tag, and a tampered nonce
// all surface as types.ErrAuthenticationFailed. The cases are deliberately
// indistinguishable so a caller probing with modified inputs learns nothing
// about which input was at fault.
func (p *Pipeline) Decrypt(containerBytes []byte, shares []secretsharing.Share) ([]byte, error) {
	c, err := container.Unmarshal(containerBytes)
	if err != nil {
		return nil, err
	}

	opID := uuid.New()
	p.logger.Debug("decrypting",
		"op", opID,
		"filename", c.Filename,
		"threshold", c.Threshold,
		"shares_supplied", len(shares))

	// The header threshold is informational. Reconstructing with a
	// tampered value yields a wrong key, which fails tag verification
	// below rather than exposing plaintext.
	scheme, err := secretsharing.New(int(c.Threshold), int(c.Shares))
	if err != nil {
		return nil, err
	}

	keyBytes, err := scheme.Reconstruct(shares)
	if err != nil {
		return nil, err
	}
	key := NewKey(keyBytes)
	defer key.Destroy()

	aead, err := aesgcm.New(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	plaintext, err := aead.Decrypt(c.EncryptedData())
	if err != nil {
		return nil, err
	}

	// Defense in depth. Tag verification has already proven integrity, so
	// a mismatch here indicates a logic fault, not an attack.
	checksum := sha256.Sum256(plaintext)
	if !bytes.Equal(checksum[:], c.PlaintextChecksum) {
		return nil, types.ErrChecksumMismatch
	}

	p.logger.Debug("decrypted",
		"op", opID,
		"plaintext_bytes", len(plaintext))

	return plaintext, nil
}
