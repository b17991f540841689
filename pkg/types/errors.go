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

package types

import "errors"

// =============================================================================
// Secret sharing errors
// =============================================================================

var (
	// ErrInvalidThreshold is returned when the (threshold, shares) pair does
	// not satisfy 1 <= threshold <= shares <= 255. Rejected before any
	// randomness is drawn.
	ErrInvalidThreshold = errors.New("invalid threshold parameters")

	// ErrInsufficientShares is returned when fewer shares than the required
	// threshold are supplied to reconstruction.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrDuplicateShare is returned when two supplied shares carry the same
	// share ID.
	ErrDuplicateShare = errors.New("duplicate share")

	// ErrInvalidShare is returned for a structurally malformed share: a zero
	// ID, a wrong value length, or an undecodable external representation.
	ErrInvalidShare = errors.New("invalid share")

	// ErrCorruptShare is returned when a share's checksum does not match its
	// ID and value bytes, indicating accidental corruption in transit or at
	// rest. The checksum is not an adversarial integrity guarantee.
	ErrCorruptShare = errors.New("corrupt share")
)

// =============================================================================
// Container errors
// =============================================================================

var (
	// ErrUnrecognizedFormat is returned when the input does not begin with
	// the container magic bytes or carries data that no container version
	// could have produced. Checked before any other field is read.
	ErrUnrecognizedFormat = errors.New("unrecognized container format")

	// ErrUnsupportedVersion is returned when the container declares a wire
	// format version this build does not implement.
	ErrUnsupportedVersion = errors.New("unsupported container version")

	// ErrUnsupportedAlgorithm is returned when the container declares a
	// cipher algorithm identifier that is not supported.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrTruncatedContainer is returned when a declared length exceeds the
	// remaining input. No cryptographic field is consumed from a container
	// that fails structural validation.
	ErrTruncatedContainer = errors.New("truncated container")
)

// =============================================================================
// Cipher and pipeline errors
// =============================================================================

var (
	// ErrAuthenticationFailed is returned when authenticated decryption
	// rejects the input. It deliberately does not distinguish a wrong key,
	// wrong or insufficient shares, or a tampered ciphertext or tag.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrChecksumMismatch is returned when the recovered plaintext does not
	// match the content checksum stored in the container. Tag verification
	// has already passed at that point, so this signals a logic fault rather
	// than tampering; it is surfaced distinctly for exactly that reason.
	ErrChecksumMismatch = errors.New("plaintext checksum mismatch")
)
