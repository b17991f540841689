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

package memory

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/jeremyhahn/go-cryptit/pkg/storage"
)

func TestPutGet(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	value := []byte("artifact bytes")
	if err := backend.Put("doc.cryptit", value, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := backend.Get("doc.cryptit")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get() = %q, want %q", got, value)
	}
}

func TestPutRejectsEmptyKey(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	if err := backend.Put("", []byte("data"), nil); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Put() error = %v, want storage.ErrInvalidKey", err)
	}
}

func TestGetNotFound(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	if _, err := backend.Get("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want storage.ErrNotFound", err)
	}
}

// TestDefensiveCopies verifies the backend is isolated from caller buffer
// reuse in both directions. Shares routinely pass through here, so aliasing
// bugs would be a confidentiality problem, not just a correctness one.
func TestDefensiveCopies(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	original := []byte("sensitive share")
	if err := backend.Put("doc.share-001", original, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Mutating the caller's buffer must not change what is stored.
	for i := range original {
		original[i] = 0xFF
	}
	got, err := backend.Get("doc.share-001")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "sensitive share" {
		t.Errorf("stored value was aliased to caller buffer: %q", got)
	}

	// Mutating a returned buffer must not change subsequent reads.
	for i := range got {
		got[i] = 0x00
	}
	again, err := backend.Get("doc.share-001")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(again) != "sensitive share" {
		t.Errorf("returned value was aliased to stored buffer: %q", again)
	}
}

func TestPutOverwrites(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	if err := backend.Put("doc.cryptit", []byte("first"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := backend.Put("doc.cryptit", []byte("second"), nil); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	got, err := backend.Get("doc.cryptit")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
}

func TestDelete(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	if err := backend.Put("doc.cryptit", []byte("data"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := backend.Delete("doc.cryptit"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := backend.Get("doc.cryptit"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want storage.ErrNotFound", err)
	}
	if err := backend.Delete("doc.cryptit"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete() of missing key error = %v, want storage.ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	keys := []string{"b.cryptit", "a.share-002", "a.share-001", "a.cryptit"}
	for _, key := range keys {
		if err := backend.Put(key, []byte(key), nil); err != nil {
			t.Fatalf("Put(%q) error = %v", key, err)
		}
	}

	t.Run("all keys sorted", func(t *testing.T) {
		got, err := backend.List("")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := []string{"a.cryptit", "a.share-001", "a.share-002", "b.cryptit"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("List() = %v, want %v", got, want)
		}
	})

	t.Run("prefix filter", func(t *testing.T) {
		got, err := backend.List("a.share-")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := []string{"a.share-001", "a.share-002"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("List() = %v, want %v", got, want)
		}
	})
}

func TestExists(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	exists, err := backend.Exists("doc.cryptit")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for missing key")
	}

	if err := backend.Put("doc.cryptit", []byte("data"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	exists, err = backend.Exists("doc.cryptit")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for stored key")
	}
}

func TestClose(t *testing.T) {
	backend := New()

	if err := backend.Put("doc.cryptit", []byte("data"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := backend.Get("doc.cryptit"); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Get() after Close error = %v, want storage.ErrClosed", err)
	}
	if err := backend.Put("other", []byte("data"), nil); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Put() after Close error = %v, want storage.ErrClosed", err)
	}
	if err := backend.Delete("doc.cryptit"); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Delete() after Close error = %v, want storage.ErrClosed", err)
	}
	if _, err := backend.List(""); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("List() after Close error = %v, want storage.ErrClosed", err)
	}
	if _, err := backend.Exists("doc.cryptit"); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Exists() after Close error = %v, want storage.ErrClosed", err)
	}

	// Closing twice is safe.
	if err := backend.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	backend := New()
	defer func() { _ = backend.Close() }()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			key := string(rune('a'+n)) + ".share-001"
			if err := backend.Put(key, []byte{byte(n)}, nil); err != nil {
				t.Errorf("Put(%q) error = %v", key, err)
				return
			}
			if _, err := backend.Get(key); err != nil {
				t.Errorf("Get(%q) error = %v", key, err)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	keys, err := backend.List("")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 8 {
		t.Errorf("List() returned %d keys, want 8", len(keys))
	}
}
