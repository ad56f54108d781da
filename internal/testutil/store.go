// Package testutil provides store fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"vaultry/internal/field"
	"vaultry/internal/logging"
	"vaultry/internal/model"
	"vaultry/internal/store"
)

// NewStore opens a fresh migrated store in a temp directory. It is closed
// automatically when the test finishes.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "vaultry.db")
	s, err := store.Open(dbPath, logging.Nop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// CreateVault creates a vault or fails the test.
func CreateVault(t *testing.T, s *store.Store, name string) *model.Vault {
	t.Helper()
	vault, err := s.CreateVault(context.Background(), model.CreateVault{Name: name})
	if err != nil {
		t.Fatalf("failed to create vault %q: %v", name, err)
	}
	return vault
}

// CreateField creates a field definition or fails the test.
func CreateField(t *testing.T, s *store.Store, vaultID int64, name string, fieldType field.Type, required bool, options *field.Options) *model.FieldDefinition {
	t.Helper()
	f, err := s.CreateFieldDefinition(context.Background(), model.CreateField{
		VaultID:  vaultID,
		Name:     name,
		Type:     fieldType,
		Options:  options,
		Required: required,
	})
	if err != nil {
		t.Fatalf("failed to create field %q: %v", name, err)
	}
	return f
}

// CreateEntry creates an entry or fails the test.
func CreateEntry(t *testing.T, s *store.Store, vaultID int64, title string) *model.Entry {
	t.Helper()
	entry, err := s.CreateEntry(context.Background(), model.CreateEntry{VaultID: vaultID, Title: title})
	if err != nil {
		t.Fatalf("failed to create entry %q: %v", title, err)
	}
	return entry
}

// CreateEntryFull creates an entry with description and metadata or fails the
// test.
func CreateEntryFull(t *testing.T, s *store.Store, params model.CreateEntry) *model.Entry {
	t.Helper()
	entry, err := s.CreateEntry(context.Background(), params)
	if err != nil {
		t.Fatalf("failed to create entry %q: %v", params.Title, err)
	}
	return entry
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// Int64Ptr returns a pointer to n.
func Int64Ptr(n int64) *int64 { return &n }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
