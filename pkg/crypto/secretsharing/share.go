// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptit.

package secretsharing

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/jeremyhahn/go-cryptit/pkg/types"
)

// EncodedShareSize is the length of a share's binary representation:
// id(1) | values(32) | checksum(4), checksum big-endian.
const EncodedShareSize = 1 + SecretSize + 4

// Share is a single participant's piece of a split secret. Each share
// belongs to one holder; the system keeps no copy after generation.
type Share struct {
	ID       byte   // share index, the nonzero field element the polynomials were evaluated at
	Values   []byte // one polynomial evaluation per secret byte
	Checksum uint32 // CRC-32 (IEEE) over ID and Values
}

// shareChecksum computes the CRC-32 (IEEE) checksum over id followed by the
// value bytes.
func shareChecksum(id byte, values []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, []byte{id})
	return crc32.Update(crc, crc32.IEEETable, values)
}

// Verify checks the share's structure and checksum. It returns
// types.ErrInvalidShare for a zero ID or wrong value length and
// types.ErrCorruptShare when the checksum does not match.
func (s Share) Verify() error {
	if s.ID == 0 {
		return fmt.Errorf("share id must be nonzero: %w", types.ErrInvalidShare)
	}
	if len(s.Values) != SecretSize {
		return fmt.Errorf("share value must be %d bytes, got %d: %w",
			SecretSize, len(s.Values), types.ErrInvalidShare)
	}
	if s.Checksum != shareChecksum(s.ID, s.Values) {
		return types.ErrCorruptShare
	}
	return nil
}

// Marshal returns the share's 37-byte binary representation. The checksum
// field is written as stored, not recomputed, so a corrupted share survives
// a round trip intact for later detection.
func (s Share) Marshal() ([]byte, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("share id must be nonzero: %w", types.ErrInvalidShare)
	}
	if len(s.Values) != SecretSize {
		return nil, fmt.Errorf("share value must be %d bytes, got %d: %w",
			SecretSize, len(s.Values), types.ErrInvalidShare)
	}

	buf := make([]byte, EncodedShareSize)
	buf[0] = s.ID
	copy(buf[1:1+SecretSize], s.Values)
	binary.BigEndian.PutUint32(buf[1+SecretSize:], s.Checksum)
	return buf, nil
}

// UnmarshalShare parses the 37-byte binary representation produced by
// Marshal. It validates structure only; checksum verification is a separate
// step so callers can distinguish malformed input from corrupted shares.
func UnmarshalShare(data []byte) (Share, error) {
	if len(data) != EncodedShareSize {
		return Share{}, fmt.Errorf("share must be %d bytes, got %d: %w",
			EncodedShareSize, len(data), types.ErrInvalidShare)
	}
	if data[0] == 0 {
		return Share{}, fmt.Errorf("share id must be nonzero: %w", types.ErrInvalidShare)
	}

	values := make([]byte, SecretSize)
	copy(values, data[1:1+SecretSize])

	return Share{
		ID:       data[0],
		Values:   values,
		Checksum: binary.BigEndian.Uint32(data[1+SecretSize:]),
	}, nil
}

// EncodeString returns the share as standard base64 text, the form handed
// to share holders.
func (s Share) EncodeString() (string, error) {
	raw, err := s.Marshal()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeShareString parses a base64 share produced by EncodeString.
func DecodeShareString(encoded string) (Share, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Share{}, fmt.Errorf("share is not valid base64: %w", types.ErrInvalidShare)
	}
	return UnmarshalShare(raw)
}

// String returns a debug representation with the value bytes truncated.
// Full share material is never printed.
func (s Share) String() string {
	preview := s.Values
	if len(preview) > 4 {
		preview = preview[:4]
	}
	return fmt.Sprintf("Share{ID: %d, Values: %x...(%d bytes), Checksum: %08x}",
		s.ID, preview, len(s.Values), s.Checksum)
}
