package relation_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"vaultry/internal/apperr"
	"vaultry/internal/field"
	"vaultry/internal/model"
	"vaultry/internal/relation"
	"vaultry/internal/store"
	"vaultry/internal/testutil"
)

func newResolver(t *testing.T) (*relation.Resolver, *store.Store) {
	t.Helper()
	s := testutil.NewStore(t)
	return relation.NewResolver(s, s), s
}

func TestResolve(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	vault := testutil.CreateVault(t, s, "Books")
	entry := testutil.CreateEntry(t, s, vault.ID, "Dune")

	t.Run("existing entry resolves with vault name", func(t *testing.T) {
		resolved, err := r.Resolve(ctx, entry.ID, vault.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !resolved.Exists || resolved.Title != "Dune" {
			t.Errorf("unexpected resolution: %+v", resolved)
		}
		if resolved.VaultName == nil || *resolved.VaultName != "Books" {
			t.Errorf("expected vault name, got %v", resolved.VaultName)
		}
	})

	t.Run("missing entry resolves to deleted, not an error", func(t *testing.T) {
		resolved, err := r.Resolve(ctx, 9999, vault.ID)
		if err != nil {
			t.Fatal(err)
		}
		if resolved.Exists || resolved.Title != relation.DeletedTitle {
			t.Errorf("unexpected resolution: %+v", resolved)
		}
	})

	t.Run("vault mismatch resolves to deleted", func(t *testing.T) {
		other := testutil.CreateVault(t, s, "Other")
		resolved, err := r.Resolve(ctx, entry.ID, other.ID)
		if err != nil {
			t.Fatal(err)
		}
		if resolved.Exists {
			t.Errorf("expected not-exists for wrong vault, got %+v", resolved)
		}
	})

	t.Run("deleted entry resolves to deleted after removal", func(t *testing.T) {
		doomed := testutil.CreateEntry(t, s, vault.ID, "Ephemeral")
		if err := s.DeleteEntry(ctx, doomed.ID); err != nil {
			t.Fatal(err)
		}
		resolved, err := r.Resolve(ctx, doomed.ID, vault.ID)
		if err != nil {
			t.Fatal(err)
		}
		if resolved.Exists || resolved.Title != relation.DeletedTitle {
			t.Errorf("unexpected resolution: %+v", resolved)
		}
	})
}

func TestResolveBatch(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	vault := testutil.CreateVault(t, s, "Books")
	a := testutil.CreateEntry(t, s, vault.ID, "A")
	b := testutil.CreateEntry(t, s, vault.ID, "B")

	t.Run("mixed found and missing", func(t *testing.T) {
		refs := []field.RelationValue{
			{EntryID: a.ID, VaultID: vault.ID},
			{EntryID: b.ID, VaultID: vault.ID},
			{EntryID: 9999, VaultID: vault.ID},
		}
		results, err := r.ResolveBatch(ctx, refs)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if got := results[fmt.Sprintf("%d:%d", a.ID, vault.ID)]; !got.Exists || got.Title != "A" {
			t.Errorf("unexpected result for a: %+v", got)
		}
		if got := results[fmt.Sprintf("9999:%d", vault.ID)]; got.Exists || got.Title != relation.DeletedTitle {
			t.Errorf("unexpected result for missing ref: %+v", got)
		}
	})

	t.Run("duplicate references collapse to one key", func(t *testing.T) {
		refs := []field.RelationValue{
			{EntryID: a.ID, VaultID: vault.ID},
			{EntryID: a.ID, VaultID: vault.ID},
		}
		results, err := r.ResolveBatch(ctx, refs)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 {
			t.Errorf("expected 1 result, got %d", len(results))
		}
	})

	t.Run("vault mismatch is deleted in batch too", func(t *testing.T) {
		other := testutil.CreateVault(t, s, "Other")
		results, err := r.ResolveBatch(ctx, []field.RelationValue{{EntryID: a.ID, VaultID: other.ID}})
		if err != nil {
			t.Fatal(err)
		}
		got := results[fmt.Sprintf("%d:%d", a.ID, other.ID)]
		if got.Exists {
			t.Errorf("expected not-exists, got %+v", got)
		}
	})

	t.Run("empty input yields empty map", func(t *testing.T) {
		results, err := r.ResolveBatch(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("expected empty map, got %v", results)
		}
	})
}

func TestSearchEntriesForPicker(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	vault := testutil.CreateVault(t, s, "Books")

	long := strings.Repeat("x", 150)
	testutil.CreateEntryFull(t, s, model.CreateEntry{
		VaultID: vault.ID, Title: "Wordy", Description: &long,
	})
	testutil.CreateEntry(t, s, vault.ID, "Terse")

	t.Run("empty query lists recent entries", func(t *testing.T) {
		items, err := r.SearchEntriesForPicker(ctx, vault.ID, "", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 {
			t.Errorf("expected 2 items, got %d", len(items))
		}
	})

	t.Run("query filters by title substring", func(t *testing.T) {
		items, err := r.SearchEntriesForPicker(ctx, vault.ID, "ter", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].Title != "Terse" {
			t.Errorf("unexpected items: %v", items)
		}
	})

	t.Run("long subtitle is truncated", func(t *testing.T) {
		items, err := r.SearchEntriesForPicker(ctx, vault.ID, "wordy", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].Subtitle == nil {
			t.Fatalf("unexpected items: %v", items)
		}
		subtitle := *items[0].Subtitle
		if !strings.HasSuffix(subtitle, "...") || len([]rune(subtitle)) != 103 {
			t.Errorf("unexpected subtitle (%d runes): %q", len([]rune(subtitle)), subtitle)
		}
	})

	t.Run("missing vault is an error", func(t *testing.T) {
		_, err := r.SearchEntriesForPicker(ctx, 9999, "", 10)
		if !apperr.IsNotFound(err) {
			t.Errorf("expected VaultNotFound, got %v", err)
		}
	})
}
