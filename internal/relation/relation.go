// Package relation resolves typed cross-vault references into display-ready
// summaries. References are weak: a missing or misdirected target is a
// normal "[Deleted]" outcome, never an error.
package relation

import (
	"context"
	"fmt"
	"strings"

	"vaultry/internal/apperr"
	"vaultry/internal/field"
	"vaultry/internal/model"
)

// DeletedTitle is the placeholder title for references whose target no
// longer exists (or now belongs to a different vault than stated).
const DeletedTitle = "[Deleted]"

// EntrySource is the entry-lookup collaborator.
type EntrySource interface {
	GetEntry(ctx context.Context, id int64) (*model.Entry, error)
	ListEntriesByIDs(ctx context.Context, ids []int64) (map[int64]model.Entry, error)
	SearchEntriesByTitle(ctx context.Context, vaultID int64, substr string, limit int) ([]model.Entry, error)
	RecentEntries(ctx context.Context, vaultID int64, limit int) ([]model.Entry, error)
}

// VaultSource is the vault-lookup collaborator.
type VaultSource interface {
	GetVault(ctx context.Context, id int64) (*model.Vault, error)
	ListVaultsByIDs(ctx context.Context, ids []int64) (map[int64]model.Vault, error)
}

// Resolver resolves relation references. Stateless between calls.
type Resolver struct {
	entries EntrySource
	vaults  VaultSource
}

// NewResolver creates a Resolver over the given lookup collaborators.
func NewResolver(entries EntrySource, vaults VaultSource) *Resolver {
	return &Resolver{entries: entries, vaults: vaults}
}

// Resolved is the display-ready result of looking up one reference.
type Resolved struct {
	EntryID        int64   `json:"entry_id"`
	VaultID        int64   `json:"vault_id"`
	Title          string  `json:"title"`
	Exists         bool    `json:"exists"`
	VaultName      *string `json:"vault_name,omitempty"`
	CoverImagePath *string `json:"cover_image_path,omitempty"`
}

// PickerItem is an entry summary for the relation picker.
type PickerItem struct {
	ID        int64   `json:"id"`
	VaultID   int64   `json:"vault_id"`
	Title     string  `json:"title"`
	Subtitle  *string `json:"subtitle,omitempty"`
	Thumbnail *string `json:"thumbnail,omitempty"`
}

func deleted(ref field.RelationValue) Resolved {
	return Resolved{
		EntryID: ref.EntryID,
		VaultID: ref.VaultID,
		Title:   DeletedTitle,
		Exists:  false,
	}
}

// Resolve looks up a single reference. The target exists only if the entry
// is found and belongs to the stated vault; a vault mismatch is treated
// identically to not-found.
func (r *Resolver) Resolve(ctx context.Context, entryID, vaultID int64) (*Resolved, error) {
	ref := field.RelationValue{EntryID: entryID, VaultID: vaultID}

	entry, err := r.entries.GetEntry(ctx, entryID)
	if err != nil {
		if apperr.IsNotFound(err) {
			res := deleted(ref)
			return &res, nil
		}
		return nil, err
	}
	if entry.VaultID != vaultID {
		res := deleted(ref)
		return &res, nil
	}

	resolved := Resolved{
		EntryID:        entryID,
		VaultID:        vaultID,
		Title:          entry.Title,
		Exists:         true,
		CoverImagePath: entry.CoverImagePath,
	}
	if vault, err := r.vaults.GetVault(ctx, vaultID); err == nil {
		resolved.VaultName = &vault.Name
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}
	return &resolved, nil
}

// ResolveBatch resolves many references with two bulk lookups (entries,
// vaults) instead of N point lookups. The result is keyed by
// "entryId:vaultId"; duplicate references collapse onto one key. An empty
// input returns an empty map without touching the store.
func (r *Resolver) ResolveBatch(ctx context.Context, refs []field.RelationValue) (map[string]Resolved, error) {
	results := make(map[string]Resolved)
	if len(refs) == 0 {
		return results, nil
	}

	entryIDs := make([]int64, 0, len(refs))
	vaultIDs := make([]int64, 0, len(refs))
	seenEntry := make(map[int64]bool)
	seenVault := make(map[int64]bool)
	for _, ref := range refs {
		if !seenEntry[ref.EntryID] {
			seenEntry[ref.EntryID] = true
			entryIDs = append(entryIDs, ref.EntryID)
		}
		if !seenVault[ref.VaultID] {
			seenVault[ref.VaultID] = true
			vaultIDs = append(vaultIDs, ref.VaultID)
		}
	}

	entries, err := r.entries.ListEntriesByIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	vaults, err := r.vaults.ListVaultsByIDs(ctx, vaultIDs)
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		entry, ok := entries[ref.EntryID]
		if !ok || entry.VaultID != ref.VaultID {
			results[ref.Key()] = deleted(ref)
			continue
		}

		resolved := Resolved{
			EntryID:        ref.EntryID,
			VaultID:        ref.VaultID,
			Title:          entry.Title,
			Exists:         true,
			CoverImagePath: entry.CoverImagePath,
		}
		if vault, ok := vaults[ref.VaultID]; ok {
			name := vault.Name
			resolved.VaultName = &name
		}
		results[ref.Key()] = resolved
	}

	return results, nil
}

// subtitleMax caps picker subtitles, in runes.
const subtitleMax = 100

// SearchEntriesForPicker returns entry summaries for the relation picker.
// The limit clamps to [1, 100]. An empty query lists the most recently
// updated entries; otherwise titles are matched by case-insensitive
// substring. A missing vault is a VaultNotFound error.
func (r *Resolver) SearchEntriesForPicker(ctx context.Context, vaultID int64, query string, limit int) ([]PickerItem, error) {
	if _, err := r.vaults.GetVault(ctx, vaultID); err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	query = strings.TrimSpace(query)

	var entries []model.Entry
	var err error
	if query == "" {
		entries, err = r.entries.RecentEntries(ctx, vaultID, limit)
	} else {
		entries, err = r.entries.SearchEntriesByTitle(ctx, vaultID, query, limit)
	}
	if err != nil {
		return nil, err
	}

	items := make([]PickerItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, PickerItem{
			ID:        e.ID,
			VaultID:   e.VaultID,
			Title:     e.Title,
			Subtitle:  subtitle(e.Description),
			Thumbnail: e.CoverImagePath,
		})
	}
	return items, nil
}

// subtitle derives a picker subtitle from a description: trimmed, absent if
// empty, truncated to subtitleMax runes with a trailing ellipsis marker.
func subtitle(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	if runes := []rune(d); len(runes) > subtitleMax {
		d = fmt.Sprintf("%s...", string(runes[:subtitleMax]))
	}
	return &d
}
