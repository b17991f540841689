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

package storage

import (
	"fmt"
	"strings"
)

// This file provides adapter functions that wrap Backend operations with
// artifact-typed interfaces. Hosts use these instead of composing storage
// keys by hand, so container and share naming stays consistent across
// backends.

const (
	// containerSuffix marks protected container artifacts.
	containerSuffix = ".cryptit"

	// sharePattern formats one share file per holder. The id is padded so
	// List returns shares in numeric order.
	sharePattern = "%s.share-%03d"
)

// ContainerKey returns the storage key for the protected container of the
// named file. Names that already carry the container suffix are used as-is.
func ContainerKey(name string) string {
	if strings.HasSuffix(name, containerSuffix) {
		return name
	}
	return name + containerSuffix
}

// ShareKey returns the storage key for one share of the named file.
func ShareKey(name string, id byte) string {
	return fmt.Sprintf(sharePattern, name, id)
}

// SaveContainer stores container bytes for the named file.
// Returns ErrInvalidKey if the name is empty.
func SaveContainer(backend Backend, name string, data []byte) error {
	if name == "" {
		return ErrInvalidKey
	}
	return backend.Put(ContainerKey(name), data, nil)
}

// GetContainer retrieves container bytes for the named file.
// Returns ErrInvalidKey if the name is empty.
// Returns ErrNotFound if no container exists.
func GetContainer(backend Backend, name string) ([]byte, error) {
	if name == "" {
		return nil, ErrInvalidKey
	}
	return backend.Get(ContainerKey(name))
}

// ContainerExists checks whether a container exists for the named file.
// Returns ErrInvalidKey if the name is empty.
func ContainerExists(backend Backend, name string) (bool, error) {
	if name == "" {
		return false, ErrInvalidKey
	}
	return backend.Exists(ContainerKey(name))
}

// DeleteContainer removes the container for the named file.
// Returns ErrInvalidKey if the name is empty.
// Returns ErrNotFound if no container exists.
func DeleteContainer(backend Backend, name string) error {
	if name == "" {
		return ErrInvalidKey
	}
	return backend.Delete(ContainerKey(name))
}

// SaveShare stores the encoded share with the given holder id for the named
// file. Returns ErrInvalidKey if the name is empty or the id is zero.
func SaveShare(backend Backend, name string, id byte, data []byte) error {
	if name == "" || id == 0 {
		return ErrInvalidKey
	}
	return backend.Put(ShareKey(name, id), data, nil)
}

// GetShare retrieves the encoded share with the given holder id for the
// named file. Returns ErrInvalidKey if the name is empty or the id is zero.
// Returns ErrNotFound if the share does not exist.
func GetShare(backend Backend, name string, id byte) ([]byte, error) {
	if name == "" || id == 0 {
		return nil, ErrInvalidKey
	}
	return backend.Get(ShareKey(name, id))
}

// ListShares returns the storage keys of all shares issued for the named
// file, in holder-id order. Returns ErrInvalidKey if the name is empty.
func ListShares(backend Backend, name string) ([]string, error) {
	if name == "" {
		return nil, ErrInvalidKey
	}
	return backend.List(name + ".share-")
}

// DeleteShares removes every stored share for the named file. Missing
// shares are not an error; the count of deleted shares is returned.
func DeleteShares(backend Backend, name string) (int, error) {
	keys, err := ListShares(backend, name)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, key := range keys {
		if err := backend.Delete(key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
