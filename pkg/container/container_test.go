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

package container

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/jeremyhahn/go-cryptit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContainer(t *testing.T, plaintextLen int) *Container {
	t.Helper()

	ciphertext := make([]byte, plaintextLen)
	_, err := rand.Read(ciphertext)
	require.NoError(t, err)

	nonce := make([]byte, NonceSize)
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	tag := make([]byte, TagSize)
	_, err = rand.Read(tag)
	require.NoError(t, err)

	checksum := sha256.Sum256([]byte("test plaintext"))

	return &Container{
		Algorithm:         types.AlgorithmAES256GCM,
		Threshold:         2,
		Shares:            3,
		Filename:          "document.pdf",
		PlaintextSize:     uint64(plaintextLen),
		PlaintextChecksum: checksum[:],
		Nonce:             nonce,
		Ciphertext:        ciphertext,
		Tag:               tag,
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		plaintextLen int
	}{
		{"typical file", "document.pdf", 1024},
		{"empty filename", "", 64},
		{"unicode filename", "契約書-2025 (final).txt", 256},
		{"empty plaintext", "empty.bin", 0},
		{"large payload", "backup.tar", 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := testContainer(t, tt.plaintextLen)
			original.Filename = tt.filename

			data, err := original.Marshal()
			require.NoError(t, err)

			parsed, err := Unmarshal(data)
			require.NoError(t, err)

			assert.Equal(t, original.Algorithm, parsed.Algorithm)
			assert.Equal(t, original.Threshold, parsed.Threshold)
			assert.Equal(t, original.Shares, parsed.Shares)
			assert.Equal(t, original.Filename, parsed.Filename)
			assert.Equal(t, original.PlaintextSize, parsed.PlaintextSize)
			assert.Equal(t, original.PlaintextChecksum, parsed.PlaintextChecksum)
			assert.Equal(t, original.Nonce, parsed.Nonce)
			assert.Equal(t, original.Ciphertext, parsed.Ciphertext)
			assert.Equal(t, original.Tag, parsed.Tag)
		})
	}
}

func TestMarshalLayout(t *testing.T) {
	c := testContainer(t, 11)
	c.Filename = "f"

	data, err := c.Marshal()
	require.NoError(t, err)

	// magic(4) version(1) algorithm(1) k(1) n(1) reserved(24)
	assert.Equal(t, []byte("CRPT"), data[:4])
	assert.Equal(t, byte(types.ContainerVersion), data[4])
	assert.Equal(t, byte(types.AlgorithmAES256GCM), data[5])
	assert.Equal(t, byte(2), data[6])
	assert.Equal(t, byte(3), data[7])
	assert.Equal(t, make([]byte, 24), data[8:32])

	// filename_len(2) filename(1)
	assert.Equal(t, []byte{0x00, 0x01}, data[32:34])
	assert.Equal(t, byte('f'), data[34])

	// plaintext_size(8) big-endian
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 11}, data[35:43])

	expectedLen := 32 + 2 + 1 + 8 + ChecksumSize + NonceSize + 11 + TagSize
	assert.Len(t, data, expectedLen)
}

func TestMarshalValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Container)
		wantErr error
	}{
		{
			name:    "unknown algorithm",
			mutate:  func(c *Container) { c.Algorithm = types.Algorithm(0xEE) },
			wantErr: types.ErrUnsupportedAlgorithm,
		},
		{
			name:    "zero threshold",
			mutate:  func(c *Container) { c.Threshold = 0 },
			wantErr: types.ErrInvalidThreshold,
		},
		{
			name:    "threshold above shares",
			mutate:  func(c *Container) { c.Threshold = 4; c.Shares = 3 },
			wantErr: types.ErrInvalidThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContainer(t, 32)
			tt.mutate(c)
			_, err := c.Marshal()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("filename too long", func(t *testing.T) {
		c := testContainer(t, 32)
		c.Filename = string(bytes.Repeat([]byte{'a'}, MaxFilenameLength+1))
		_, err := c.Marshal()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "filename too long")
	})

	t.Run("wrong checksum size", func(t *testing.T) {
		c := testContainer(t, 32)
		c.PlaintextChecksum = c.PlaintextChecksum[:16]
		_, err := c.Marshal()
		assert.Error(t, err)
	})

	t.Run("wrong nonce size", func(t *testing.T) {
		c := testContainer(t, 32)
		c.Nonce = c.Nonce[:8]
		_, err := c.Marshal()
		assert.Error(t, err)
	})

	t.Run("wrong tag size", func(t *testing.T) {
		c := testContainer(t, 32)
		c.Tag = append(c.Tag, 0x00)
		_, err := c.Marshal()
		assert.Error(t, err)
	})

	t.Run("plaintext size mismatch", func(t *testing.T) {
		c := testContainer(t, 32)
		c.PlaintextSize = 31
		_, err := c.Marshal()
		assert.Error(t, err)
	})
}

func TestUnmarshalRejectsWrongMagic(t *testing.T) {
	valid, err := testContainer(t, 64).Marshal()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"one byte", []byte{'C'}},
		{"magic prefix only", []byte("CRP")},
		{"wrong magic", append([]byte("NOPE"), valid[4:]...)},
		{"lowercase magic", append([]byte("crpt"), valid[4:]...)},
		{"plain text file", []byte("this is not a container at all")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUnrecognizedFormat)
		})
	}
}

// TestUnmarshalValidationOrder verifies magic is checked before version,
// and version before algorithm.
func TestUnmarshalValidationOrder(t *testing.T) {
	valid, err := testContainer(t, 64).Marshal()
	require.NoError(t, err)

	t.Run("bad magic wins over bad version", func(t *testing.T) {
		data := bytes.Clone(valid)
		copy(data, "XXXX")
		data[4] = 0x7F
		_, err := Unmarshal(data)
		assert.ErrorIs(t, err, types.ErrUnrecognizedFormat)
	})

	t.Run("bad version wins over bad algorithm", func(t *testing.T) {
		data := bytes.Clone(valid)
		data[4] = 0x7F
		data[5] = 0xEE
		_, err := Unmarshal(data)
		assert.ErrorIs(t, err, types.ErrUnsupportedVersion)
	})

	t.Run("bad algorithm", func(t *testing.T) {
		data := bytes.Clone(valid)
		data[5] = 0xEE
		_, err := Unmarshal(data)
		assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)
	})
}

// TestUnmarshalTruncation cuts a valid container at every possible point and
// verifies each prefix is rejected with the truncation sentinel.
func TestUnmarshalTruncation(t *testing.T) {
	valid, err := testContainer(t, 48).Marshal()
	require.NoError(t, err)

	for cut := 4; cut < len(valid); cut++ {
		_, err := Unmarshal(valid[:cut])
		require.Error(t, err, "prefix of %d bytes must not parse", cut)
		assert.ErrorIs(t, err, types.ErrTruncatedContainer, "prefix of %d bytes", cut)
	}
}

func TestUnmarshalTrailingBytes(t *testing.T) {
	valid, err := testContainer(t, 48).Marshal()
	require.NoError(t, err)

	for _, extra := range []int{1, 7, 1024} {
		data := append(bytes.Clone(valid), make([]byte, extra)...)
		_, err := Unmarshal(data)
		require.Error(t, err, "%d trailing bytes must not parse", extra)
		assert.ErrorIs(t, err, types.ErrUnrecognizedFormat)
	}
}

func TestUnmarshalOversizedDeclaredLength(t *testing.T) {
	c := testContainer(t, 48)
	data, err := c.Marshal()
	require.NoError(t, err)

	// Inflate the declared plaintext size past the end of the buffer.
	// plaintext_size sits after the 32-byte fixed header, the 2-byte
	// filename length, and the filename itself.
	offset := 32 + 2 + len(c.Filename)
	for i := 0; i < 8; i++ {
		data[offset+i] = 0xFF
	}

	_, err = Unmarshal(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTruncatedContainer)
}

func TestEncryptedData(t *testing.T) {
	c := testContainer(t, 64)

	ed := c.EncryptedData()
	require.NotNil(t, ed)
	assert.Equal(t, c.Algorithm, ed.Algorithm)
	assert.Equal(t, c.Nonce, ed.Nonce)
	assert.Equal(t, c.Ciphertext, ed.Ciphertext)
	assert.Equal(t, c.Tag, ed.Tag)
}
