package search_test

import (
	"context"
	"fmt"
	"testing"

	"vaultry/internal/apperr"
	"vaultry/internal/model"
	"vaultry/internal/search"
	"vaultry/internal/store"
	"vaultry/internal/testutil"
)

func newService(t *testing.T) (*search.Service, *store.Store) {
	t.Helper()
	s := testutil.NewStore(t)
	return search.NewService(s, s.DB(), nil), s
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single word", "apple", `"apple"*`},
		{"multiple words", "red apple", `"red"* "apple"*`},
		{"extra whitespace collapses", "  red   apple  ", `"red"* "apple"*`},
		{"embedded quotes are doubled", `say "hi"`, `"say"* """hi"""*`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search.BuildQuery(tt.input); got != tt.want {
				t.Errorf("BuildQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSearchPrefixMatching(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()
	vault := testutil.CreateVault(t, s, "Stuff")

	testutil.CreateEntry(t, s, vault.ID, "Application Settings")
	testutil.CreateEntry(t, s, vault.ID, "Apple Products")
	testutil.CreateEntry(t, s, vault.ID, "Banana Recipes")

	t.Run("prefix matches multiple titles", func(t *testing.T) {
		result, err := svc.Search(ctx, vault.ID, "app", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 2 {
			t.Fatalf("expected 2 matches, got %d", result.Total)
		}
		titles := map[string]bool{}
		for _, e := range result.Entries {
			titles[e.Title] = true
		}
		if !titles["Application Settings"] || !titles["Apple Products"] {
			t.Errorf("unexpected titles: %v", titles)
		}
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		result, err := svc.Search(ctx, vault.ID, "BANANA", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 1 || result.Entries[0].Title != "Banana Recipes" {
			t.Errorf("unexpected result: total=%d", result.Total)
		}
	})

	t.Run("every term must match", func(t *testing.T) {
		result, err := svc.Search(ctx, vault.ID, "apple settings", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 0 {
			t.Errorf("expected no matches, got %d", result.Total)
		}
	})
}

func TestSearchScopesAndEdges(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()
	vaultA := testutil.CreateVault(t, s, "A")
	vaultB := testutil.CreateVault(t, s, "B")
	testutil.CreateEntry(t, s, vaultA.ID, "Shared Topic")
	testutil.CreateEntry(t, s, vaultB.ID, "Shared Topic")

	t.Run("results are scoped to the vault", func(t *testing.T) {
		result, err := svc.Search(ctx, vaultA.ID, "shared", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 1 || result.Entries[0].VaultID != vaultA.ID {
			t.Errorf("expected 1 match in vault A, got total=%d", result.Total)
		}
	})

	t.Run("empty query short-circuits", func(t *testing.T) {
		result, err := svc.Search(ctx, vaultA.ID, "   ", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 0 || len(result.Entries) != 0 || result.HasMore {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("missing vault is an error", func(t *testing.T) {
		_, err := svc.Search(ctx, 9999, "x", 0, 20)
		if !apperr.IsNotFound(err) {
			t.Errorf("expected VaultNotFound, got %v", err)
		}
	})

	t.Run("quotes in the query do not break matching", func(t *testing.T) {
		result, err := svc.Search(ctx, vaultA.ID, `"shared"`, 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 1 {
			t.Errorf("expected 1 match, got %d", result.Total)
		}
	})
}

func TestSearchIndexFollowsWrites(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()
	vault := testutil.CreateVault(t, s, "Live")
	entry := testutil.CreateEntry(t, s, vault.ID, "Original Title")

	t.Run("updated title is searchable", func(t *testing.T) {
		title := "Renamed Completely"
		if _, err := s.UpdateEntry(ctx, entry.ID, model.UpdateEntry{Title: &title}); err != nil {
			t.Fatal(err)
		}

		result, err := svc.Search(ctx, vault.ID, "renamed", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 1 {
			t.Errorf("expected renamed entry found, got %d", result.Total)
		}

		result, err = svc.Search(ctx, vault.ID, "original", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 0 {
			t.Errorf("expected old title gone from index, got %d", result.Total)
		}
	})

	t.Run("description is indexed", func(t *testing.T) {
		description := "mentions xylophone once"
		if _, err := s.UpdateEntry(ctx, entry.ID, model.UpdateEntry{Description: &description}); err != nil {
			t.Fatal(err)
		}
		result, err := svc.Search(ctx, vault.ID, "xylophone", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 1 {
			t.Errorf("expected description match, got %d", result.Total)
		}
	})

	t.Run("deleted entry leaves the index", func(t *testing.T) {
		if err := s.DeleteEntry(ctx, entry.ID); err != nil {
			t.Fatal(err)
		}
		result, err := svc.Search(ctx, vault.ID, "renamed", 0, 20)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 0 {
			t.Errorf("expected no matches after delete, got %d", result.Total)
		}
	})
}

func TestSearchPagination(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()
	vault := testutil.CreateVault(t, s, "Paged")
	for i := 0; i < 25; i++ {
		testutil.CreateEntry(t, s, vault.ID, fmt.Sprintf("Widget %02d", i))
	}

	page0, err := svc.Search(ctx, vault.ID, "widget", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page0.Total != 25 || len(page0.Entries) != 10 || !page0.HasMore {
		t.Errorf("page 0: total=%d len=%d hasMore=%v", page0.Total, len(page0.Entries), page0.HasMore)
	}

	page2, err := svc.Search(ctx, vault.ID, "widget", 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Entries) != 5 || page2.HasMore {
		t.Errorf("page 2: len=%d hasMore=%v", len(page2.Entries), page2.HasMore)
	}

	t.Run("defaults applied for bad page and limit", func(t *testing.T) {
		result, err := svc.Search(ctx, vault.ID, "widget", -3, 0)
		if err != nil {
			t.Fatal(err)
		}
		if result.Page != 0 || result.Limit != 20 {
			t.Errorf("expected page 0 limit 20, got page %d limit %d", result.Page, result.Limit)
		}
	})
}
