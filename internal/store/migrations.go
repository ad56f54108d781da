package store

import (
	"database/sql"
	"fmt"
)

// migrations run in order exactly once each; applied names are recorded in
// the _migrations table.
var migrations = []struct {
	name string
	sql  string
}{
	{
		"001_create_vaults",
		`CREATE TABLE IF NOT EXISTS vaults (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			description TEXT,
			icon        TEXT,
			color       TEXT,
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	},
	{
		"002_create_entries",
		`CREATE TABLE IF NOT EXISTS entries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			vault_id    INTEGER NOT NULL REFERENCES vaults(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			description TEXT,
			metadata    TEXT,
			cover_image_path TEXT,
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_entries_vault_id ON entries(vault_id);
		CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
		CREATE INDEX IF NOT EXISTS idx_entries_cover_image ON entries(cover_image_path);`,
	},
	{
		"003_create_field_definitions",
		`CREATE TABLE IF NOT EXISTS field_definitions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			vault_id    INTEGER NOT NULL REFERENCES vaults(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			field_type  TEXT NOT NULL CHECK (field_type IN ('text', 'number', 'date', 'url', 'boolean', 'select', 'relation')),
			options     TEXT,
			position    INTEGER NOT NULL DEFAULT 0,
			required    INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at  TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(vault_id, name)
		);

		CREATE INDEX IF NOT EXISTS idx_field_definitions_vault ON field_definitions(vault_id);`,
	},
	{
		// The FTS index is a derived artifact keyed by entry id. The
		// triggers keep it in lockstep with title/description: full
		// replace on update, never a partial patch.
		"004_create_entries_fts",
		`CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			title,
			description,
			content='entries',
			content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS entries_fts_insert AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(rowid, title, description)
			VALUES (new.id, new.title, COALESCE(new.description, ''));
		END;

		CREATE TRIGGER IF NOT EXISTS entries_fts_delete AFTER DELETE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, title, description)
			VALUES ('delete', old.id, old.title, COALESCE(old.description, ''));
		END;

		CREATE TRIGGER IF NOT EXISTS entries_fts_update AFTER UPDATE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, title, description)
			VALUES ('delete', old.id, old.title, COALESCE(old.description, ''));
			INSERT INTO entries_fts(rowid, title, description)
			VALUES (new.id, new.title, COALESCE(new.description, ''));
		END;`,
	},
	{
		"005_populate_entries_fts",
		`INSERT INTO entries_fts(rowid, title, description)
		SELECT id, title, COALESCE(description, '') FROM entries
		WHERE id NOT IN (SELECT rowid FROM entries_fts);`,
	},
}

// migrate applies all pending migrations.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL UNIQUE,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	);`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied int
		err := db.QueryRow(`SELECT COUNT(*) FROM _migrations WHERE name = ?`, m.name).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", m.name, err)
		}
		if applied > 0 {
			continue
		}

		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		if _, err := db.Exec(`INSERT INTO _migrations (name) VALUES (?)`, m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
	}

	return nil
}
