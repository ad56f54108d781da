package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vaultry/internal/apperr"
	"vaultry/internal/model"
)

const vaultColumns = "id, name, description, icon, color, created_at, updated_at"

func scanVault(row interface{ Scan(...any) error }) (*model.Vault, error) {
	var v model.Vault
	var description, icon, color sql.NullString
	if err := row.Scan(&v.ID, &v.Name, &description, &icon, &color, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		v.Description = &description.String
	}
	if icon.Valid {
		v.Icon = &icon.String
	}
	if color.Valid {
		v.Color = &color.String
	}
	return &v, nil
}

// CreateVault creates a vault. The name must be non-empty after trimming.
func (s *Store) CreateVault(ctx context.Context, params model.CreateVault) (*model.Vault, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}

	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vaults (name, description, icon, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		name, nullable(params.Description), nullable(params.Icon), nullable(params.Color), ts, ts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	s.log.Infow("created vault", "name", name, "id", id)
	return s.GetVault(ctx, id)
}

// GetVault returns a vault by id.
func (s *Store) GetVault(ctx context.Context, id int64) (*model.Vault, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+vaultColumns+` FROM vaults WHERE id = ?`, id)
	v, err := scanVault(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.VaultNotFound(id)
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return v, nil
}

// ListVaults returns all vaults, newest first.
func (s *Store) ListVaults(ctx context.Context) ([]model.Vault, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+vaultColumns+` FROM vaults ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer rows.Close()

	var vaults []model.Vault
	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		vaults = append(vaults, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err)
	}
	return vaults, nil
}

// ListVaultsByIDs bulk-fetches vaults by id, keyed by id. Missing ids are
// simply absent from the result.
func (s *Store) ListVaultsByIDs(ctx context.Context, ids []int64) (map[int64]model.Vault, error) {
	result := make(map[int64]model.Vault)
	if len(ids) == 0 {
		return result, nil
	}

	query, args := inQuery(`SELECT `+vaultColumns+` FROM vaults WHERE id IN `, ids)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		result[v.ID] = *v
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err)
	}
	return result, nil
}

// UpdateVault applies a partial update; only non-nil fields change.
func (s *Store) UpdateVault(ctx context.Context, id int64, params model.UpdateVault) (*model.Vault, error) {
	vault, err := s.GetVault(ctx, id)
	if err != nil {
		return nil, err
	}

	name := vault.Name
	if params.Name != nil {
		name = strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
	}
	description := vault.Description
	if params.Description != nil {
		description = params.Description
	}
	icon := vault.Icon
	if params.Icon != nil {
		icon = params.Icon
	}
	color := vault.Color
	if params.Color != nil {
		color = params.Color
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE vaults SET name = ?, description = ?, icon = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, nullable(description), nullable(icon), nullable(color), now(), id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	s.log.Infow("updated vault", "name", name, "id", id)
	return s.GetVault(ctx, id)
}

// DeleteVault deletes a vault; entries and field definitions cascade.
func (s *Store) DeleteVault(ctx context.Context, id int64) error {
	vault, err := s.GetVault(ctx, id)
	if err != nil {
		return err
	}

	s.log.Infow("deleting vault", "name", vault.Name, "id", vault.ID)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM vaults WHERE id = ?`, id); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}
