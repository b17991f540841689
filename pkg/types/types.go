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

// Package types contains shared type definitions used across the encryption
// pipeline, including the cipher algorithm registry, encrypted payload
// structure, and the error taxonomy. This package has no dependencies on
// other go-cryptit packages to prevent import cycles.
package types

import "fmt"

// =============================================================================
// Constants
// =============================================================================

// ContainerVersion is the current container wire format version.
const ContainerVersion byte = 1

// SecretSize is the fixed length in bytes of secrets handled by the secret
// sharing engine. It equals the AES-256 key size so that a file key can be
// placed directly under the sharing scheme.
const SecretSize = 32

// =============================================================================
// Algorithms
// =============================================================================

// Algorithm identifies an authenticated cipher in the container header.
// Exactly one algorithm is supported; the identifier exists in the wire
// format for forward compatibility and all other values are rejected.
type Algorithm byte

const (
	// AlgorithmAES256GCM is AES-256 in Galois/Counter Mode with a 96-bit
	// nonce and a 128-bit authentication tag.
	AlgorithmAES256GCM Algorithm = 0x01
)

// String returns a human-readable algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmAES256GCM:
		return "AES-256-GCM"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(a))
	}
}

// Valid reports whether the algorithm identifier is supported.
func (a Algorithm) Valid() bool {
	return a == AlgorithmAES256GCM
}

// =============================================================================
// Encrypted payload
// =============================================================================

// EncryptedData holds the output of an authenticated encryption operation.
// Ciphertext and Tag are kept separate so the container codec can frame them
// independently; Ciphertext is always the same length as the plaintext.
type EncryptedData struct {
	Algorithm  Algorithm
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}
