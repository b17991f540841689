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

// Package container implements the on-disk format for protected files.
//
// A container is immutable once written. Parsing validates the structure
// completely before any byte range is handed to the cipher: magic first,
// then version, then algorithm, then bounds. Header fields are not covered
// by the authentication tag (see the package documentation for cryptit);
// tampering with them cannot bypass tag verification but is not itself
// detected.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-cryptit/pkg/types"
)

const (
	// magic opens every container file.
	magic = "CRPT"

	// ChecksumSize is the length of the SHA-256 plaintext digest stored in
	// the header.
	ChecksumSize = 32

	// NonceSize is the length of the AES-GCM nonce region.
	NonceSize = 12

	// TagSize is the length of the AES-GCM authentication tag region.
	TagSize = 16

	// MaxFilenameLength bounds the length-prefixed filename field.
	MaxFilenameLength = 65535

	magicSize    = len(magic)
	reservedSize = 24

	// fixedTailSize is the combined length of the regions that follow the
	// ciphertext length field: checksum, nonce, and tag (the ciphertext
	// itself is variable).
	fixedTailSize = ChecksumSize + NonceSize + TagSize
)

// Container holds the parsed fields of a protected file.
type Container struct {
	// Algorithm identifies the AEAD cipher that produced the payload.
	Algorithm types.Algorithm

	// Threshold and Shares record the k-of-n split parameters used when
	// the file was protected. They are informational: reconstruction never
	// trusts them, and modifying them cannot bypass tag verification.
	Threshold byte
	Shares    byte

	// Filename is the original name of the protected file.
	Filename string

	// PlaintextSize is the plaintext length in bytes. The ciphertext
	// region has exactly this length.
	PlaintextSize uint64

	// PlaintextChecksum is the SHA-256 digest of the plaintext, compared
	// after decryption as a sanity check.
	PlaintextChecksum []byte

	// Nonce, Ciphertext, and Tag form the cryptographic payload.
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// Marshal serializes the container to its on-disk byte form.
//
// Wire Format (version 1, all integers big-endian):
//
//	┌────────────────────────────────────────────────────┐
//	│ Magic: 4 bytes ("CRPT")                            │
//	│ Version: 1 byte (0x01)                             │
//	│ Algorithm: 1 byte                                  │
//	│ Threshold (k): 1 byte                              │
//	│ Shares (n): 1 byte                                 │
//	│ Reserved: 24 bytes (zero)                          │
//	├────────────────────────────────────────────────────┤
//	│ Filename Length: 2 bytes                           │
//	│ Filename: variable bytes (UTF-8)                   │
//	│ Plaintext Size: 8 bytes                            │
//	│ Plaintext Checksum: 32 bytes (SHA-256)             │
//	├────────────────────────────────────────────────────┤
//	│ Nonce: 12 bytes                                    │
//	│ Ciphertext: variable (= plaintext size)            │
//	│ Tag: 16 bytes                                      │
//	└────────────────────────────────────────────────────┘
func (c *Container) Marshal() ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("container is nil")
	}
	if !c.Algorithm.Valid() {
		return nil, fmt.Errorf("cannot serialize algorithm 0x%02x: %w",
			byte(c.Algorithm), types.ErrUnsupportedAlgorithm)
	}
	if c.Threshold < 1 || c.Threshold > c.Shares {
		return nil, fmt.Errorf("header threshold %d of %d: %w",
			c.Threshold, c.Shares, types.ErrInvalidThreshold)
	}

	filename := []byte(c.Filename)
	if len(filename) > MaxFilenameLength {
		return nil, fmt.Errorf("filename too long: %d bytes (maximum %d)",
			len(filename), MaxFilenameLength)
	}
	if len(c.PlaintextChecksum) != ChecksumSize {
		return nil, fmt.Errorf("invalid checksum size: %d bytes (must be %d bytes)",
			len(c.PlaintextChecksum), ChecksumSize)
	}
	if len(c.Nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce size: %d bytes (must be %d bytes)",
			len(c.Nonce), NonceSize)
	}
	if len(c.Tag) != TagSize {
		return nil, fmt.Errorf("invalid tag size: %d bytes (must be %d bytes)",
			len(c.Tag), TagSize)
	}
	if c.PlaintextSize != uint64(len(c.Ciphertext)) {
		return nil, fmt.Errorf("plaintext size %d does not match ciphertext length %d",
			c.PlaintextSize, len(c.Ciphertext))
	}

	buf := new(bytes.Buffer)
	buf.Grow(magicSize + 4 + reservedSize + 2 + len(filename) + 8 + fixedTailSize + len(c.Ciphertext))

	if _, err := buf.WriteString(magic); err != nil {
		return nil, fmt.Errorf("failed to write magic: %w", err)
	}
	if err := buf.WriteByte(types.ContainerVersion); err != nil {
		return nil, fmt.Errorf("failed to write version: %w", err)
	}
	if err := buf.WriteByte(byte(c.Algorithm)); err != nil {
		return nil, fmt.Errorf("failed to write algorithm: %w", err)
	}
	if err := buf.WriteByte(c.Threshold); err != nil {
		return nil, fmt.Errorf("failed to write threshold: %w", err)
	}
	if err := buf.WriteByte(c.Shares); err != nil {
		return nil, fmt.Errorf("failed to write shares: %w", err)
	}
	if _, err := buf.Write(make([]byte, reservedSize)); err != nil {
		return nil, fmt.Errorf("failed to write reserved region: %w", err)
	}

	// #nosec G115 - Length is validated to be <= 65535 before conversion
	if err := binary.Write(buf, binary.BigEndian, uint16(len(filename))); err != nil {
		return nil, fmt.Errorf("failed to write filename length: %w", err)
	}
	if _, err := buf.Write(filename); err != nil {
		return nil, fmt.Errorf("failed to write filename: %w", err)
	}
	if err := binary.Write(buf, binary.BigEndian, c.PlaintextSize); err != nil {
		return nil, fmt.Errorf("failed to write plaintext size: %w", err)
	}
	if _, err := buf.Write(c.PlaintextChecksum); err != nil {
		return nil, fmt.Errorf("failed to write plaintext checksum: %w", err)
	}

	if _, err := buf.Write(c.Nonce); err != nil {
		return nil, fmt.Errorf("failed to write nonce: %w", err)
	}
	if _, err := buf.Write(c.Ciphertext); err != nil {
		return nil, fmt.Errorf("failed to write ciphertext: %w", err)
	}
	if _, err := buf.Write(c.Tag); err != nil {
		return nil, fmt.Errorf("failed to write tag: %w", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal parses container bytes, validating structure before any
// cryptographic field becomes available.
//
// Validation order is fixed: magic (types.ErrUnrecognizedFormat), version
// (types.ErrUnsupportedVersion), algorithm (types.ErrUnsupportedAlgorithm),
// then bounds (types.ErrTruncatedContainer). Bytes past the declared end of
// the container are rejected as types.ErrUnrecognizedFormat.
func Unmarshal(data []byte) (*Container, error) {
	// Magic is checked before anything else so arbitrary files are
	// rejected without touching any cryptographic field.
	if len(data) < magicSize || !bytes.Equal(data[:magicSize], []byte(magic)) {
		return nil, fmt.Errorf("missing container magic: %w", types.ErrUnrecognizedFormat)
	}

	r := bytes.NewReader(data[magicSize:])

	version, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("container header: %w", types.ErrTruncatedContainer)
	}
	if version != types.ContainerVersion {
		return nil, fmt.Errorf("container version 0x%02x: %w", version, types.ErrUnsupportedVersion)
	}

	algorithmByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("container header: %w", types.ErrTruncatedContainer)
	}
	algorithm := types.Algorithm(algorithmByte)
	if !algorithm.Valid() {
		return nil, fmt.Errorf("algorithm 0x%02x: %w", algorithmByte, types.ErrUnsupportedAlgorithm)
	}

	threshold, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("container header: %w", types.ErrTruncatedContainer)
	}
	shares, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("container header: %w", types.ErrTruncatedContainer)
	}

	var reserved [reservedSize]byte
	if _, err := io.ReadFull(r, reserved[:]); err != nil {
		return nil, fmt.Errorf("container header: %w", types.ErrTruncatedContainer)
	}

	var filenameLen uint16
	if err := binary.Read(r, binary.BigEndian, &filenameLen); err != nil {
		return nil, fmt.Errorf("filename length: %w", types.ErrTruncatedContainer)
	}
	filename := make([]byte, filenameLen)
	if _, err := io.ReadFull(r, filename); err != nil {
		return nil, fmt.Errorf("filename: %w", types.ErrTruncatedContainer)
	}

	var plaintextSize uint64
	if err := binary.Read(r, binary.BigEndian, &plaintextSize); err != nil {
		return nil, fmt.Errorf("plaintext size: %w", types.ErrTruncatedContainer)
	}

	// The declared ciphertext length must account for exactly the bytes
	// that remain after the fixed-size tail regions.
	remaining := uint64(r.Len())
	if remaining < fixedTailSize || plaintextSize > remaining-fixedTailSize {
		return nil, fmt.Errorf("declared ciphertext length %d exceeds remaining %d bytes: %w",
			plaintextSize, remaining, types.ErrTruncatedContainer)
	}
	if plaintextSize < remaining-fixedTailSize {
		return nil, fmt.Errorf("%d bytes past container end: %w",
			remaining-fixedTailSize-plaintextSize, types.ErrUnrecognizedFormat)
	}

	checksum := make([]byte, ChecksumSize)
	if _, err := io.ReadFull(r, checksum); err != nil {
		return nil, fmt.Errorf("plaintext checksum: %w", types.ErrTruncatedContainer)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", types.ErrTruncatedContainer)
	}
	ciphertext := make([]byte, plaintextSize)
	if _, err := io.ReadFull(r, ciphertext); err != nil {
		return nil, fmt.Errorf("ciphertext: %w", types.ErrTruncatedContainer)
	}
	tag := make([]byte, TagSize)
	if _, err := io.ReadFull(r, tag); err != nil {
		return nil, fmt.Errorf("tag: %w", types.ErrTruncatedContainer)
	}

	return &Container{
		Algorithm:         algorithm,
		Threshold:         threshold,
		Shares:            shares,
		Filename:          string(filename),
		PlaintextSize:     plaintextSize,
		PlaintextChecksum: checksum,
		Nonce:             nonce,
		Ciphertext:        ciphertext,
		Tag:               tag,
	}, nil
}

// EncryptedData returns the cryptographic payload in the form the cipher
// adapter consumes.
func (c *Container) EncryptedData() *types.EncryptedData {
	return &types.EncryptedData{
		Algorithm:  c.Algorithm,
		Nonce:      c.Nonce,
		Ciphertext: c.Ciphertext,
		Tag:        c.Tag,
	}
}
