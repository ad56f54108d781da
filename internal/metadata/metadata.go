// Package metadata validates entry metadata blobs against a vault's field
// definitions and performs lazy orphan-key cleanup.
//
// Metadata keys are stringified field-definition ids, never field names.
// That decouples stored values from renames: removing or renaming a field
// leaves stale keys ("orphan data") behind, which validation reports as a
// warning and cleanup physically drops on the next write.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"vaultry/internal/field"
	"vaultry/internal/model"
)

// FieldSource lists a vault's field definitions ordered by position.
type FieldSource interface {
	ListFieldDefinitions(ctx context.Context, vaultID int64) ([]model.FieldDefinition, error)
}

// Engine is the metadata validation and cleanup engine. It is stateless over
// its inputs plus the field source; concurrent use is safe.
type Engine struct {
	fields FieldSource
	log    *zap.SugaredLogger
}

// NewEngine creates an Engine. A nil logger disables cleanup logging.
func NewEngine(fields FieldSource, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{fields: fields, log: log}
}

// Result is a validation outcome. IsValid is false exactly when Errors is
// non-empty; warnings never affect validity.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func success() *Result {
	return &Result{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

func (r *Result) addError(format string, args ...any) {
	r.IsValid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a metadata blob against the vault's field definitions:
// required fields are present and non-null, every keyed value matches its
// field's declared type and options. Malformed input becomes errors or
// warnings in the result, never a returned error; only field-source failures
// propagate.
func (e *Engine) Validate(ctx context.Context, vaultID int64, metadataJSON *string) (*Result, error) {
	defs, err := e.fields.ListFieldDefinitions(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{}
	if metadataJSON != nil {
		if err := json.Unmarshal([]byte(*metadataJSON), &meta); err != nil {
			res := success()
			res.addError("Invalid metadata JSON: %v", err)
			return res, nil
		}
	}

	result := success()

	for _, def := range defs {
		if !def.Required {
			continue
		}
		key := strconv.FormatInt(def.ID, 10)
		if v, ok := meta[key]; !ok || v == nil {
			result.addError("Field '%s' is required", def.Name)
		}
	}

	byID := make(map[int64]*model.FieldDefinition, len(defs))
	for i := range defs {
		byID[defs[i].ID] = &defs[i]
	}

	// Sorted for deterministic error/warning order.
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fieldID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			result.addWarning("Invalid metadata key '%s': not a valid field ID", key)
			continue
		}

		def, ok := byID[fieldID]
		if !ok {
			// Advisory only: cleanup, not validation, removes orphans.
			result.addWarning("Orphan data detected: field ID %d no longer exists", fieldID)
			continue
		}

		value := meta[key]
		if value == nil {
			// Null means "unset", never an error.
			continue
		}

		if err := validateValue(def, value); err != nil {
			result.addError("%s", err.Error())
		}
	}

	return result, nil
}

// ValidateRequired runs only the required-field check, for fast-path gating
// on create. Unparseable metadata is treated as an empty map here; the full
// Validate is the strict path.
func (e *Engine) ValidateRequired(ctx context.Context, vaultID int64, metadataJSON *string) (*Result, error) {
	defs, err := e.fields.ListFieldDefinitions(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{}
	if metadataJSON != nil {
		_ = json.Unmarshal([]byte(*metadataJSON), &meta)
	}

	result := success()
	for _, def := range defs {
		if !def.Required {
			continue
		}
		key := strconv.FormatInt(def.ID, 10)
		if v, ok := meta[key]; !ok || v == nil {
			result.addError("Field '%s' is required", def.Name)
		}
	}
	return result, nil
}

// CleanupOrphans drops every metadata key whose id no longer matches a field
// definition of the vault and re-serializes the blob. Cleanup never fails the
// caller on bad input: an unparseable blob is returned unchanged. Invoked on
// writes only, never on reads.
func (e *Engine) CleanupOrphans(ctx context.Context, vaultID int64, metadataJSON string) (string, error) {
	defs, err := e.fields.ListFieldDefinitions(ctx, vaultID)
	if err != nil {
		return "", err
	}

	valid := make(map[int64]bool, len(defs))
	for _, def := range defs {
		valid[def.ID] = true
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
		return metadataJSON, nil
	}

	before := len(meta)
	cleaned := make(map[string]any, len(meta))
	for key, value := range meta {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || !valid[id] {
			continue
		}
		cleaned[key] = value
	}

	if removed := before - len(cleaned); removed > 0 {
		e.log.Infow("cleaned up orphan metadata", "vault_id", vaultID, "removed", removed)
	}

	out, err := json.Marshal(cleaned)
	if err != nil {
		return "", fmt.Errorf("re-serialize metadata: %w", err)
	}
	return string(out), nil
}

// validateValue dispatches on the field's declared type. A failure here is a
// fatal validation error, not a warning.
func validateValue(def *model.FieldDefinition, value any) error {
	switch def.Type {
	case field.TypeText:
		return validateText(def, value)
	case field.TypeNumber:
		return validateNumber(def, value)
	case field.TypeDate:
		return validateDate(value)
	case field.TypeURL:
		return validateURL(value)
	case field.TypeBoolean:
		return validateBoolean(value)
	case field.TypeSelect:
		return validateSelect(def, value)
	case field.TypeRelation:
		return validateRelation(def, value)
	}
	return fmt.Errorf("Field '%s': unknown field type '%s'", def.Name, def.Type)
}

func validateText(def *model.FieldDefinition, value any) error {
	text, ok := value.(string)
	if !ok {
		return fmt.Errorf("Field '%s': expected text value", def.Name)
	}
	if def.Options != nil && def.Options.MaxLength != nil {
		if len([]rune(text)) > *def.Options.MaxLength {
			return fmt.Errorf("Field '%s': text exceeds maximum length of %d", def.Name, *def.Options.MaxLength)
		}
	}
	return nil
}

func validateNumber(def *model.FieldDefinition, value any) error {
	num, ok := value.(float64)
	if !ok {
		return fmt.Errorf("Field '%s': expected number value", def.Name)
	}
	if def.Options != nil {
		if def.Options.Min != nil && num < *def.Options.Min {
			return fmt.Errorf("Field '%s': value %v is below minimum %v", def.Name, num, *def.Options.Min)
		}
		if def.Options.Max != nil && num > *def.Options.Max {
			return fmt.Errorf("Field '%s': value %v exceeds maximum %v", def.Name, num, *def.Options.Max)
		}
	}
	return nil
}

func validateDate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("Date field: expected string value")
	}
	if !isValidDate(s) {
		return fmt.Errorf("Invalid date format '%s': expected YYYY-MM-DD", s)
	}
	return nil
}

func validateURL(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("URL field: expected string value")
	}
	if len(s) < 7 || (s[:7] != "http://" && (len(s) < 8 || s[:8] != "https://")) {
		return fmt.Errorf("Invalid URL '%s': must start with http:// or https://", s)
	}
	return nil
}

func validateBoolean(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("Boolean field: expected true or false")
	}
	return nil
}

func validateSelect(def *model.FieldDefinition, value any) error {
	selected, ok := value.(string)
	if !ok {
		return fmt.Errorf("Field '%s': expected string value for select", def.Name)
	}
	if def.Options == nil || def.Options.Choices == nil {
		// No choice set configured: any string passes.
		return nil
	}
	for _, choice := range def.Options.Choices {
		if selected == choice {
			return nil
		}
	}
	return fmt.Errorf("Field '%s': '%s' is not a valid choice. Valid choices: %v", def.Name, selected, def.Options.Choices)
}

func validateRelation(def *model.FieldDefinition, value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("Field '%s': expected object with entry_id and vault_id", def.Name)
	}

	entryID, ok := intValue(obj["entry_id"])
	if !ok {
		return fmt.Errorf("Field '%s': missing or invalid entry_id", def.Name)
	}
	vaultID, ok := intValue(obj["vault_id"])
	if !ok {
		return fmt.Errorf("Field '%s': missing or invalid vault_id", def.Name)
	}

	if def.Options != nil && def.Options.TargetVaultID != nil && vaultID != *def.Options.TargetVaultID {
		return fmt.Errorf("Field '%s': vault_id %d does not match target vault %d", def.Name, vaultID, *def.Options.TargetVaultID)
	}

	if entryID <= 0 {
		return fmt.Errorf("Field '%s': entry_id must be positive", def.Name)
	}
	if vaultID <= 0 {
		return fmt.Errorf("Field '%s': vault_id must be positive", def.Name)
	}

	// No existence check here: broken references resolve to a normal
	// "[Deleted]" state at read time.
	return nil
}

// intValue extracts an integral number from a decoded JSON value.
func intValue(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
