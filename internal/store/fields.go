package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vaultry/internal/apperr"
	"vaultry/internal/field"
	"vaultry/internal/model"
)

const fieldColumns = "id, vault_id, name, field_type, options, position, required, created_at, updated_at"

func scanFieldDefinition(row interface{ Scan(...any) error }) (*model.FieldDefinition, error) {
	var f model.FieldDefinition
	var fieldType string
	var options sql.NullString
	var required int
	if err := row.Scan(&f.ID, &f.VaultID, &f.Name, &fieldType, &options, &f.Position, &required, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}

	t, ok := field.ParseType(fieldType)
	if !ok {
		t = field.TypeText
	}
	f.Type = t
	f.Required = required != 0

	if options.Valid && options.String != "" {
		// A corrupt options blob degrades to no options rather than
		// failing reads; validation then applies type checks only.
		if o, err := field.ParseOptions(options.String); err == nil {
			f.Options = o
		}
	}
	return &f, nil
}

// CreateFieldDefinition creates a field for a vault. Names are unique within
// the vault; position is assigned after the current maximum.
func (s *Store) CreateFieldDefinition(ctx context.Context, params model.CreateField) (*model.FieldDefinition, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("Field name is required")
	}
	if !params.Type.Valid() {
		return nil, apperr.Validation("Unknown field type '%s'", params.Type)
	}
	if _, err := s.GetVault(ctx, params.VaultID); err != nil {
		return nil, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM field_definitions WHERE vault_id = ? AND name = ?`,
		params.VaultID, name).Scan(&count)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if count > 0 {
		return nil, apperr.Validation("Field '%s' already exists in this vault", name)
	}

	position := 0
	var maxPos sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM field_definitions WHERE vault_id = ?`, params.VaultID).Scan(&maxPos)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if maxPos.Valid {
		position = int(maxPos.Int64) + 1
	}

	optionsJSON, err := params.Options.Encode()
	if err != nil {
		return nil, apperr.Malformed("%v", err)
	}
	var optionsVal any
	if optionsJSON != "" {
		optionsVal = optionsJSON
	}

	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO field_definitions (vault_id, name, field_type, options, position, required, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		params.VaultID, name, string(params.Type), optionsVal, position, boolToInt(params.Required), ts, ts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	s.log.Infow("created field definition", "name", name, "id", id, "vault_id", params.VaultID)
	return s.GetFieldDefinition(ctx, id)
}

// GetFieldDefinition returns a field definition by id.
func (s *Store) GetFieldDefinition(ctx context.Context, id int64) (*model.FieldDefinition, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fieldColumns+` FROM field_definitions WHERE id = ?`, id)
	f, err := scanFieldDefinition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.FieldNotFound(id)
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return f, nil
}

// ListFieldDefinitions returns a vault's field definitions ordered by
// position. This is the metadata engine's field source.
func (s *Store) ListFieldDefinitions(ctx context.Context, vaultID int64) ([]model.FieldDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fieldColumns+` FROM field_definitions WHERE vault_id = ? ORDER BY position ASC`, vaultID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer rows.Close()

	var fields []model.FieldDefinition
	for rows.Next() {
		f, err := scanFieldDefinition(rows)
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		fields = append(fields, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err)
	}
	return fields, nil
}

// UpdateFieldDefinition applies a partial update; only non-nil fields change.
// The field type is immutable.
func (s *Store) UpdateFieldDefinition(ctx context.Context, id int64, params model.UpdateField) (*model.FieldDefinition, error) {
	f, err := s.GetFieldDefinition(ctx, id)
	if err != nil {
		return nil, err
	}

	name := f.Name
	if params.Name != nil {
		name = strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperr.Validation("Field name cannot be empty")
		}
		var count int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM field_definitions WHERE vault_id = ? AND name = ? AND id != ?`,
			f.VaultID, name, id).Scan(&count)
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		if count > 0 {
			return nil, apperr.Validation("Field '%s' already exists in this vault", name)
		}
	}

	options := f.Options
	if params.Options != nil {
		options = params.Options
	}
	optionsJSON, err := options.Encode()
	if err != nil {
		return nil, apperr.Malformed("%v", err)
	}
	var optionsVal any
	if optionsJSON != "" {
		optionsVal = optionsJSON
	}

	required := f.Required
	if params.Required != nil {
		required = *params.Required
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE field_definitions SET name = ?, options = ?, required = ?, updated_at = ? WHERE id = ?`,
		name, optionsVal, boolToInt(required), now(), id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	s.log.Infow("updated field definition", "name", name, "id", id)
	return s.GetFieldDefinition(ctx, id)
}

// DeleteFieldDefinition deletes a field definition. Metadata values stored
// under its id become orphan data, dropped lazily on the next write.
func (s *Store) DeleteFieldDefinition(ctx context.Context, id int64) error {
	f, err := s.GetFieldDefinition(ctx, id)
	if err != nil {
		return err
	}

	s.log.Infow("deleting field definition", "name", f.Name, "id", f.ID)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM field_definitions WHERE id = ?`, id); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// ReorderFieldDefinitions rewrites positions from the ordered id list. Every
// id must name a field of the given vault.
func (s *Store) ReorderFieldDefinitions(ctx context.Context, vaultID int64, ids []int64) error {
	if _, err := s.GetVault(ctx, vaultID); err != nil {
		return err
	}

	ts := now()
	for position, id := range ids {
		f, err := s.GetFieldDefinition(ctx, id)
		if err != nil {
			return err
		}
		if f.VaultID != vaultID {
			return apperr.Validation("Field %d does not belong to vault %d", id, vaultID)
		}
		_, err = s.db.ExecContext(ctx,
			`UPDATE field_definitions SET position = ?, updated_at = ? WHERE id = ?`,
			position, ts, id)
		if err != nil {
			return apperr.Persistence(err)
		}
	}

	s.log.Infow("reordered field definitions", "vault_id", vaultID)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
