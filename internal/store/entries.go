package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vaultry/internal/apperr"
	"vaultry/internal/model"
)

const entryColumns = "id, vault_id, title, description, metadata, cover_image_path, created_at, updated_at"

func scanEntry(row interface{ Scan(...any) error }) (*model.Entry, error) {
	var e model.Entry
	var description, metadata, coverPath sql.NullString
	if err := row.Scan(&e.ID, &e.VaultID, &e.Title, &description, &metadata, &coverPath, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		e.Description = &description.String
	}
	if metadata.Valid {
		e.Metadata = &metadata.String
	}
	if coverPath.Valid {
		e.CoverImagePath = &coverPath.String
	}
	return &e, nil
}

func (s *Store) collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	defer rows.Close()
	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err)
	}
	return entries, nil
}

// CreateEntry creates an entry in a vault. The title must be non-empty after
// trimming and the vault must exist.
func (s *Store) CreateEntry(ctx context.Context, params model.CreateEntry) (*model.Entry, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	if _, err := s.GetVault(ctx, params.VaultID); err != nil {
		return nil, err
	}

	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (vault_id, title, description, metadata, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		params.VaultID, title, nullable(params.Description), nullable(params.Metadata), ts, ts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	s.log.Infow("created entry", "title", title, "id", id, "vault_id", params.VaultID)
	return s.GetEntry(ctx, id)
}

// GetEntry returns an entry by id.
func (s *Store) GetEntry(ctx context.Context, id int64) (*model.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.EntryNotFound(id)
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return e, nil
}

// ListEntries returns one page of a vault's entries, newest first.
// page is zero-based; offset = page * limit.
func (s *Store) ListEntries(ctx context.Context, vaultID int64, page, limit int) (*model.PaginatedEntries, error) {
	if _, err := s.GetVault(ctx, vaultID); err != nil {
		return nil, err
	}

	total, err := s.CountEntries(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE vault_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		vaultID, limit, page*limit)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	entries, err := s.collectEntries(rows)
	if err != nil {
		return nil, err
	}

	return &model.PaginatedEntries{
		Entries: entries,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page+1)*int64(limit) < total,
	}, nil
}

// CountEntries counts a vault's entries.
func (s *Store) CountEntries(ctx context.Context, vaultID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE vault_id = ?`, vaultID).Scan(&count)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	return count, nil
}

// ListEntriesByIDs bulk-fetches entries by id, keyed by id. Missing ids are
// absent from the result; this is the relation resolver's bulk lookup.
func (s *Store) ListEntriesByIDs(ctx context.Context, ids []int64) (map[int64]model.Entry, error) {
	result := make(map[int64]model.Entry)
	if len(ids) == 0 {
		return result, nil
	}

	query, args := inQuery(`SELECT `+entryColumns+` FROM entries WHERE id IN `, ids)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	entries, err := s.collectEntries(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		result[e.ID] = e
	}
	return result, nil
}

// SearchEntriesByTitle returns a vault's entries whose title contains the
// substring, case-insensitively, most recently updated first. This is the
// non-indexed picker search, not the FTS path.
func (s *Store) SearchEntriesByTitle(ctx context.Context, vaultID int64, substr string, limit int) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE vault_id = ? AND title LIKE ? ESCAPE '\'
		 ORDER BY updated_at DESC LIMIT ?`,
		vaultID, "%"+escapeLike(substr)+"%", limit)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return s.collectEntries(rows)
}

// RecentEntries returns a vault's most recently updated entries.
func (s *Store) RecentEntries(ctx context.Context, vaultID int64, limit int) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE vault_id = ? ORDER BY updated_at DESC LIMIT ?`,
		vaultID, limit)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return s.collectEntries(rows)
}

// UpdateEntry applies a partial update; only non-nil fields change. The FTS
// index follows via the update trigger.
func (s *Store) UpdateEntry(ctx context.Context, id int64, params model.UpdateEntry) (*model.Entry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	title := entry.Title
	if params.Title != nil {
		title = strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, apperr.Validation("Title cannot be empty")
		}
	}
	description := entry.Description
	if params.Description != nil {
		description = params.Description
	}
	metadata := entry.Metadata
	if params.Metadata != nil {
		metadata = params.Metadata
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE entries SET title = ?, description = ?, metadata = ?, updated_at = ? WHERE id = ?`,
		title, nullable(description), nullable(metadata), now(), id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	s.log.Infow("updated entry", "title", title, "id", id)
	return s.GetEntry(ctx, id)
}

// SetCoverImagePath sets or clears an entry's cover image path. The path is
// an opaque string here; file handling belongs to the images collaborator.
func (s *Store) SetCoverImagePath(ctx context.Context, id int64, path *string) (*model.Entry, error) {
	if _, err := s.GetEntry(ctx, id); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE entries SET cover_image_path = ?, updated_at = ? WHERE id = ?`,
		nullable(path), now(), id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return s.GetEntry(ctx, id)
}

// DeleteEntry deletes an entry; the FTS index follows via the delete trigger.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	s.log.Infow("deleting entry", "title", entry.Title, "id", entry.ID)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards in a user-supplied substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
