// Package field defines the vault field schema model: field types and their
// type-specific constraint options. Pure data plus parsing; no I/O.
package field

import (
	"encoding/json"
	"fmt"
)

// Type is a field's declared value type.
type Type string

const (
	TypeText     Type = "text"
	TypeNumber   Type = "number"
	TypeDate     Type = "date"
	TypeURL      Type = "url"
	TypeBoolean  Type = "boolean"
	TypeSelect   Type = "select"
	TypeRelation Type = "relation"
)

// Types lists all supported field types in a stable order.
var Types = []Type{TypeText, TypeNumber, TypeDate, TypeURL, TypeBoolean, TypeSelect, TypeRelation}

// ParseType returns the Type for s, or false if s is not a known type.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is a known field type.
func (t Type) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}

// Options holds type-specific field configuration. All members are optional;
// which ones apply depends on the field type. Persisted as a JSON blob on the
// field definition row.
type Options struct {
	// MaxLength caps text length, in runes.
	MaxLength *int `json:"maxLength,omitempty" yaml:"max_length,omitempty"`

	// Min and Max bound number values (inclusive).
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`

	// Choices is the allowed value set for select fields.
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`

	// TargetVaultID restricts relation fields to entries of one vault.
	TargetVaultID *int64 `json:"targetVaultId,omitempty" yaml:"target_vault_id,omitempty"`

	// DisplayFields names the target-entry fields shown for a resolved
	// relation (defaults to the title).
	DisplayFields []string `json:"displayFields,omitempty" yaml:"display_fields,omitempty"`
}

// ParseOptions decodes an options blob. An empty blob yields nil options.
func ParseOptions(raw string) (*Options, error) {
	if raw == "" {
		return nil, nil
	}
	var o Options
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return nil, fmt.Errorf("parse field options: %w", err)
	}
	return &o, nil
}

// Encode serializes options to the persisted JSON form. Nil encodes to "".
func (o *Options) Encode() (string, error) {
	if o == nil {
		return "", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("encode field options: %w", err)
	}
	return string(b), nil
}

// RelationValue is the value stored in entry metadata under a relation-type
// field key. It is a weak reference: integrity is checked at resolution time,
// never at write time.
type RelationValue struct {
	EntryID int64 `json:"entry_id"`
	VaultID int64 `json:"vault_id"`
}

// Key returns the "entryId:vaultId" form used to key batch resolution maps.
func (r RelationValue) Key() string {
	return fmt.Sprintf("%d:%d", r.EntryID, r.VaultID)
}
