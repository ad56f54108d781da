package model

// Entry is an item belonging to exactly one vault. Metadata is an opaque
// serialized JSON object keyed by stringified field-definition ids; it is
// validated by the metadata engine, not by the storage layer.
type Entry struct {
	ID             int64   `json:"id"`
	VaultID        int64   `json:"vault_id"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	Metadata       *string `json:"metadata,omitempty"`
	CoverImagePath *string `json:"cover_image_path,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// CreateEntry holds parameters for creating an entry.
type CreateEntry struct {
	VaultID     int64
	Title       string
	Description *string
	Metadata    *string
}

// UpdateEntry holds a partial entry update; only non-nil fields change.
type UpdateEntry struct {
	Title       *string
	Description *string
	Metadata    *string
}

// PaginatedEntries is a page of a vault's entry listing.
type PaginatedEntries struct {
	Entries []Entry `json:"entries"`
	Total   int64   `json:"total"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"has_more"`
}

// SearchResult is a page of full-text search matches. It paginates the same
// way as PaginatedEntries so callers can swap between listing and searching.
type SearchResult struct {
	Entries []Entry `json:"entries"`
	Total   int64   `json:"total"`
	Query   string  `json:"query"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"has_more"`
}
