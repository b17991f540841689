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

package cryptit

// Key is an owned secret buffer. The pipeline wraps every encryption key in
// a Key so the material is overwritten with zeros on every exit path,
// including error returns.
type Key struct {
	bytes []byte
}

// NewKey takes ownership of b. The caller must not retain or reuse b after
// this call; Destroy will overwrite it.
func NewKey(b []byte) *Key {
	return &Key{bytes: b}
}

// Bytes exposes the underlying buffer for in-place use. The slice remains
// owned by the Key: callers must not retain it past Destroy.
func (k *Key) Bytes() []byte {
	if k == nil {
		return nil
	}
	return k.bytes
}

// Destroy overwrites the key material with zeros. Safe to call more than
// once and on a nil Key.
func (k *Key) Destroy() {
	if k == nil {
		return
	}
	for i := range k.bytes {
		k.bytes[i] = 0
	}
}
