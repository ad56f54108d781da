package model

import "vaultry/internal/field"

// FieldDefinition is a named, typed, ordered attribute schema element scoped
// to a vault. Position defines the vault's display and validation order;
// names are unique within a vault.
type FieldDefinition struct {
	ID        int64          `json:"id"`
	VaultID   int64          `json:"vault_id"`
	Name      string         `json:"name"`
	Type      field.Type     `json:"field_type"`
	Options   *field.Options `json:"options,omitempty"`
	Position  int            `json:"position"`
	Required  bool           `json:"required"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// CreateField holds parameters for creating a field definition. Position is
// assigned by the store (max+1 within the vault).
type CreateField struct {
	VaultID  int64
	Name     string
	Type     field.Type
	Options  *field.Options
	Required bool
}

// UpdateField holds a partial field-definition update; only non-nil fields
// change. The field type is immutable after creation.
type UpdateField struct {
	Name     *string
	Options  *field.Options
	Required *bool
}
