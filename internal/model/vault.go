// Package model defines the persistent records and the parameter structs
// used to create and partially update them.
package model

// Vault is a user-defined collection container. Each vault owns its entries
// and its field definitions; deleting a vault cascades to both.
type Vault struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateVault holds parameters for creating a vault.
type CreateVault struct {
	Name        string
	Description *string
	Icon        *string
	Color       *string
}

// UpdateVault holds a partial vault update; only non-nil fields change.
type UpdateVault struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
}
