// Package search runs full-text entry search against the SQLite FTS5 index.
//
// The free-text query is turned into a conjunctive prefix-match expression:
// every whitespace token must match some indexed token as a prefix, and
// matching is case-insensitive under the index's default collation.
package search

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"vaultry/internal/apperr"
	"vaultry/internal/model"
)

// VaultSource resolves vault existence for the primary-entity gate.
type VaultSource interface {
	GetVault(ctx context.Context, id int64) (*model.Vault, error)
}

// Service executes paginated FTS queries. Stateless between calls.
type Service struct {
	vaults VaultSource
	db     *sql.DB
	log    *zap.SugaredLogger
}

// NewService creates a search service over the store's raw handle.
// A nil logger disables logging.
func NewService(vaults VaultSource, db *sql.DB, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{vaults: vaults, db: db, log: log}
}

// BuildQuery builds the FTS5 MATCH expression for a user query: tokens are
// split on whitespace, embedded double quotes are doubled, and each token is
// wrapped as a quoted prefix term ("tok"*). The quoting is the injection
// safety boundary for the free text; everything else is a bound parameter.
func BuildQuery(query string) string {
	words := strings.Fields(query)
	terms := make([]string, len(words))
	for i, word := range words {
		escaped := strings.ReplaceAll(word, `"`, `""`)
		terms[i] = `"` + escaped + `"*`
	}
	return strings.Join(terms, " ")
}

// Search returns one page of matches for a vault, newest first. An empty
// trimmed query short-circuits to an empty result without touching the
// index; a missing vault is a VaultNotFound error.
func (s *Service) Search(ctx context.Context, vaultID int64, query string, page, limit int) (*model.SearchResult, error) {
	if _, err := s.vaults.GetVault(ctx, vaultID); err != nil {
		return nil, err
	}

	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 20
	}

	query = strings.TrimSpace(query)
	if query == "" {
		// An unbounded "match everything" index scan is never wanted.
		return &model.SearchResult{
			Entries: []model.Entry{},
			Total:   0,
			Query:   "",
			Page:    page,
			Limit:   limit,
			HasMore: false,
		}, nil
	}

	match := BuildQuery(query)
	offset := page * limit

	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries e
		 INNER JOIN entries_fts fts ON e.id = fts.rowid
		 WHERE e.vault_id = ? AND entries_fts MATCH ?`,
		vaultID, match).Scan(&total)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.vault_id, e.title, e.description, e.metadata, e.cover_image_path, e.created_at, e.updated_at
		 FROM entries e
		 INNER JOIN entries_fts fts ON e.id = fts.rowid
		 WHERE e.vault_id = ? AND entries_fts MATCH ?
		 ORDER BY e.created_at DESC
		 LIMIT ? OFFSET ?`,
		vaultID, match, limit, offset)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var e model.Entry
		var description, metadata, coverPath sql.NullString
		if err := rows.Scan(&e.ID, &e.VaultID, &e.Title, &description, &metadata, &coverPath, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperr.Persistence(err)
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
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err)
	}

	s.log.Debugw("search", "query", query, "vault_id", vaultID, "total", total)

	return &model.SearchResult{
		Entries: entries,
		Total:   total,
		Query:   query,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page+1)*int64(limit) < total,
	}, nil
}
