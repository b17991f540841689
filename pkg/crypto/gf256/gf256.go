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

// Package gf256 implements arithmetic in the finite field GF(2^8).
//
// The field is fixed to the AES representation: the irreducible polynomial
// x^8 + x^4 + x^3 + x + 1 (0x11B) with generator 0x03. Changing either value
// breaks interoperability with previously issued shares, so both are pinned
// here rather than configurable.
//
// Multiplication and inversion use logarithm and exponentiation tables
// precomputed at package initialization. The tables are immutable after
// init and safe for concurrent use without synchronization.
package gf256

// Log and exp tables for the generator 0x03.
var (
	logTable [256]byte
	expTable [256]byte
)

func init() {
	var x byte = 1
	for i := 0; i < 255; i++ {
		expTable[i] = x
		logTable[x] = byte(i)
		x = mulSlow(x, 0x03)
	}
	// exp is periodic with period 255; duplicating the first entry lets
	// Mul index with (log a + log b) % 255 without a second reduction.
	expTable[255] = expTable[0]
}

// Add returns a + b in GF(256). Addition is bitwise XOR: self-inverse,
// commutative and associative, with identity 0.
func Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a - b in GF(256). In a characteristic-2 field subtraction is
// identical to addition.
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b in GF(256).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(int(logTable[a])+int(logTable[b]))%255]
}

// Inverse returns the multiplicative inverse of a in GF(256), the unique b
// with Mul(a, b) == 1. Zero has no inverse; Inverse panics if a is 0, which
// indicates a caller bug since every interpolation denominator is a product
// of nonzero field elements.
func Inverse(a byte) byte {
	if a == 0 {
		panic("gf256: inverse of zero")
	}
	return expTable[255-logTable[a]]
}

// mulSlow multiplies in GF(256) with the peasant algorithm, reducing by the
// irreducible polynomial. Used only to build the lookup tables.
func mulSlow(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		highBit := a & 0x80
		a <<= 1
		if highBit != 0 {
			a ^= 0x1B // low byte of 0x11B
		}
		b >>= 1
	}
	return p
}
