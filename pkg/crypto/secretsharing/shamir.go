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

// Package secretsharing implements Shamir's Secret Sharing over GF(256) for
// fixed 32-byte secrets, splitting a file encryption key into n shares of
// which any threshold-sized subset reconstructs the key and any smaller
// subset reveals nothing.
//
// Each secret byte is the constant term of its own random polynomial of
// degree threshold-1; share x holds the 32 polynomial evaluations at x.
// Share IDs are the nonzero field elements 1..n assigned sequentially. A
// CRC-32 checksum over ID and values detects accidental corruption; it is
// not an adversarial integrity guarantee, which is the cipher tag's job.
package secretsharing

import (
	"crypto/rand"
	"fmt"

	"github.com/jeremyhahn/go-cryptit/pkg/crypto/gf256"
	"github.com/jeremyhahn/go-cryptit/pkg/types"
)

const (
	// SecretSize is the only secret length the scheme accepts, matching the
	// AES-256 key size.
	SecretSize = types.SecretSize

	// MaxShares is the largest share count; IDs are nonzero bytes, so at
	// most 255 distinct shares exist in GF(256).
	MaxShares = 255
)

// Shamir splits and reconstructs 32-byte secrets under fixed threshold
// parameters. Instances are stateless beyond the parameters and safe for
// concurrent use.
type Shamir struct {
	threshold int
	shares    int
}

// New creates a Shamir scheme for the given threshold parameters. The pair
// must satisfy 1 <= threshold <= shares <= 255; anything else is rejected
// with types.ErrInvalidThreshold before any randomness is drawn.
func New(threshold, shares int) (*Shamir, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("threshold must be at least 1, got %d: %w",
			threshold, types.ErrInvalidThreshold)
	}
	if shares < threshold {
		return nil, fmt.Errorf("shares (%d) must be >= threshold (%d): %w",
			shares, threshold, types.ErrInvalidThreshold)
	}
	if shares > MaxShares {
		return nil, fmt.Errorf("shares must be <= %d, got %d: %w",
			MaxShares, shares, types.ErrInvalidThreshold)
	}

	return &Shamir{
		threshold: threshold,
		shares:    shares,
	}, nil
}

// Threshold returns the minimum number of shares needed to reconstruct.
func (s *Shamir) Threshold() int {
	return s.threshold
}

// Shares returns the total number of shares produced by Split.
func (s *Shamir) Shares() int {
	return s.shares
}

// Split divides a 32-byte secret into n shares. Every call draws fresh
// random coefficients, so repeated splits of the same secret yield unrelated
// share sets. Polynomial coefficients are zeroized before Split returns on
// every path; the caller remains responsible for zeroizing the secret.
func (s *Shamir) Split(secret []byte) ([]Share, error) {
	if len(secret) != SecretSize {
		return nil, fmt.Errorf("secret must be exactly %d bytes, got %d", SecretSize, len(secret))
	}

	shares := make([]Share, s.shares)
	for i := range shares {
		shares[i].ID = byte(i + 1) // IDs start at 1; 0 would expose the secret
		shares[i].Values = make([]byte, SecretSize)
	}

	// One polynomial per secret byte. The coefficient buffer is reused
	// across byte positions and wiped on every exit path.
	coeffs := make([]byte, s.threshold)
	defer zeroize(coeffs)

	for byteIdx := 0; byteIdx < SecretSize; byteIdx++ {
		// p(x) = a0 + a1*x + ... + a(k-1)*x^(k-1) with a0 the secret byte
		coeffs[0] = secret[byteIdx]
		if s.threshold > 1 {
			if _, err := rand.Read(coeffs[1:]); err != nil {
				return nil, fmt.Errorf("failed to generate random coefficients: %w", err)
			}
		}

		for i := range shares {
			shares[i].Values[byteIdx] = evaluatePolynomial(coeffs, shares[i].ID)
		}
	}

	for i := range shares {
		shares[i].Checksum = shareChecksum(shares[i].ID, shares[i].Values)
	}

	return shares, nil
}

// Reconstruct recovers the secret from at least threshold shares. Validation
// happens in order before any interpolation: share count, per-share
// structure and ID uniqueness across everything supplied, then checksums.
// Exactly the first threshold shares are interpolated; extras are accepted
// but unused, and any valid threshold-sized subset yields the same secret.
//
// Reconstruction alone cannot tell a correct secret from the wrong one
// produced by valid-but-mismatched shares; only the cipher's tag check can.
func (s *Shamir) Reconstruct(shares []Share) ([]byte, error) {
	if len(shares) < s.threshold {
		return nil, fmt.Errorf("have %d shares, need %d: %w",
			len(shares), s.threshold, types.ErrInsufficientShares)
	}

	var seen [256]bool
	for i, share := range shares {
		if share.ID == 0 {
			return nil, fmt.Errorf("share %d has id 0: %w", i, types.ErrInvalidShare)
		}
		if len(share.Values) != SecretSize {
			return nil, fmt.Errorf("share %d has %d value bytes, want %d: %w",
				i, len(share.Values), SecretSize, types.ErrInvalidShare)
		}
		if seen[share.ID] {
			return nil, fmt.Errorf("share id %d supplied more than once: %w",
				share.ID, types.ErrDuplicateShare)
		}
		seen[share.ID] = true
	}

	for i, share := range shares {
		if share.Checksum != shareChecksum(share.ID, share.Values) {
			return nil, fmt.Errorf("share %d: %w", i, types.ErrCorruptShare)
		}
	}

	// Use only the first threshold shares
	subset := shares[:s.threshold]

	secret := make([]byte, SecretSize)
	for byteIdx := 0; byteIdx < SecretSize; byteIdx++ {
		secret[byteIdx] = interpolateAtZero(subset, byteIdx)
	}

	return secret, nil
}

// evaluatePolynomial evaluates the polynomial with the given coefficients at
// point x in GF(256) using Horner's method:
// p(x) = a0 + x(a1 + x(a2 + ... + x*a(k-1)))
func evaluatePolynomial(coeffs []byte, x byte) byte {
	result := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = gf256.Add(gf256.Mul(result, x), coeffs[i])
	}
	return result
}

// interpolateAtZero performs Lagrange interpolation at x=0 in GF(256) to
// recover one secret byte from the given shares. All share IDs must be
// distinct and nonzero; Reconstruct validates that before calling.
func interpolateAtZero(shares []Share, byteIdx int) byte {
	// Two points admit a direct solution of p(x) = a + b*x:
	// b = (y1 + y2) / (x1 + x2), a = y1 + b*x1
	if len(shares) == 2 {
		x1, y1 := shares[0].ID, shares[0].Values[byteIdx]
		x2, y2 := shares[1].ID, shares[1].Values[byteIdx]

		b := gf256.Mul(gf256.Sub(y1, y2), gf256.Inverse(gf256.Sub(x1, x2)))
		return gf256.Sub(y1, gf256.Mul(b, x1))
	}

	var result byte
	for i := range shares {
		xi := shares[i].ID
		yi := shares[i].Values[byteIdx]

		// Lagrange basis l_i(0) = prod(xj) / prod(xi + xj) over j != i.
		// In GF(2^8) the numerator term (0 - xj) is just xj.
		var numerator byte = 1
		var denominator byte = 1
		for j := range shares {
			if i == j {
				continue
			}
			xj := shares[j].ID
			numerator = gf256.Mul(numerator, xj)
			denominator = gf256.Mul(denominator, gf256.Sub(xi, xj))
		}

		basis := gf256.Mul(numerator, gf256.Inverse(denominator))
		result = gf256.Add(result, gf256.Mul(yi, basis))
	}

	return result
}

// zeroize overwrites b with zeros.
func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
