package kv

import (
	"errors"
	"testing"
)

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, err := s.Get("k")
	if err != nil || v != "v" {
		t.Fatalf("get = %q, %v", v, err)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// keys with path-hostile characters must round-trip
	key := "client_overrides_42/../x"
	if err := s.Set(key, `{"phone":"+41"}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, err := s.Get(key)
	if err != nil || v != `{"phone":"+41"}` {
		t.Fatalf("get = %q, %v", v, err)
	}

	if err := s.Set(key, "second"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	v, _ = s.Get(key)
	if v != "second" {
		t.Fatalf("overwrite not visible, got %q", v)
	}

	if err := s.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// deleting a missing key is not an error
	if err := s.Delete("never-set"); err != nil {
		t.Fatalf("delete of missing key: %v", err)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_ = first.Set("next_local_client_id", "5000002")

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	v, err := second.Get("next_local_client_id")
	if err != nil || v != "5000002" {
		t.Fatalf("state lost across reopen: %q, %v", v, err)
	}
}
