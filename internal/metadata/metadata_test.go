package metadata

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"vaultry/internal/field"
	"vaultry/internal/model"
)

// fakeFields is an in-memory FieldSource.
type fakeFields struct {
	defs []model.FieldDefinition
}

func (f *fakeFields) ListFieldDefinitions(ctx context.Context, vaultID int64) ([]model.FieldDefinition, error) {
	return f.defs, nil
}

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func def(id int64, name string, t field.Type, required bool, o *field.Options) model.FieldDefinition {
	return model.FieldDefinition{ID: id, VaultID: 1, Name: name, Type: t, Required: required, Options: o}
}

func validate(t *testing.T, defs []model.FieldDefinition, metadata string) *Result {
	t.Helper()
	engine := NewEngine(&fakeFields{defs: defs}, nil)
	result, err := engine.Validate(context.Background(), 1, strPtr(metadata))
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	return result
}

func TestValidateRequiredFields(t *testing.T) {
	defs := []model.FieldDefinition{
		def(1, "Author", field.TypeText, true, nil),
		def(2, "Rating", field.TypeNumber, false, nil),
	}

	t.Run("missing required field is an error", func(t *testing.T) {
		result := validate(t, defs, `{}`)
		if result.IsValid {
			t.Error("expected invalid result")
		}
		if len(result.Errors) != 1 || result.Errors[0] != "Field 'Author' is required" {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("null required value is an error", func(t *testing.T) {
		result := validate(t, defs, `{"1": null}`)
		if result.IsValid {
			t.Error("expected invalid result")
		}
	})

	t.Run("present required value passes", func(t *testing.T) {
		result := validate(t, defs, `{"1": "Ursula K. Le Guin"}`)
		if !result.IsValid {
			t.Errorf("expected valid result, got errors: %v", result.Errors)
		}
	})

	t.Run("missing optional field passes", func(t *testing.T) {
		result := validate(t, defs, `{"1": "x"}`)
		if !result.IsValid {
			t.Errorf("expected valid result, got errors: %v", result.Errors)
		}
	})
}

func TestValidateMalformedMetadata(t *testing.T) {
	defs := []model.FieldDefinition{def(1, "Author", field.TypeText, false, nil)}

	t.Run("invalid JSON is a single error", func(t *testing.T) {
		result := validate(t, defs, `{not json`)
		if result.IsValid {
			t.Error("expected invalid result")
		}
		if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Invalid metadata JSON:") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("non-object top level is an error", func(t *testing.T) {
		result := validate(t, defs, `[1, 2, 3]`)
		if result.IsValid {
			t.Error("expected invalid result")
		}
	})

	t.Run("non-numeric key is a warning not an error", func(t *testing.T) {
		result := validate(t, defs, `{"author": "x"}`)
		if !result.IsValid {
			t.Errorf("expected valid result, got errors: %v", result.Errors)
		}
		if len(result.Warnings) != 1 || result.Warnings[0] != "Invalid metadata key 'author': not a valid field ID" {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("orphan key is a warning not an error", func(t *testing.T) {
		result := validate(t, defs, `{"99": "stale"}`)
		if !result.IsValid {
			t.Errorf("expected valid result, got errors: %v", result.Errors)
		}
		if len(result.Warnings) != 1 || result.Warnings[0] != "Orphan data detected: field ID 99 no longer exists" {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})
}

func TestValidateText(t *testing.T) {
	defs := []model.FieldDefinition{
		def(1, "Notes", field.TypeText, false, &field.Options{MaxLength: intPtr(5)}),
	}

	t.Run("non-string value", func(t *testing.T) {
		result := validate(t, defs, `{"1": 42}`)
		if result.IsValid || result.Errors[0] != "Field 'Notes': expected text value" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("over max length", func(t *testing.T) {
		result := validate(t, defs, `{"1": "toolong"}`)
		if result.IsValid || result.Errors[0] != "Field 'Notes': text exceeds maximum length of 5" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("max length counts characters not bytes", func(t *testing.T) {
		result := validate(t, defs, `{"1": "ünïcö"}`)
		if !result.IsValid {
			t.Errorf("expected valid result, got errors: %v", result.Errors)
		}
	})
}

func TestValidateNumber(t *testing.T) {
	defs := []model.FieldDefinition{
		def(1, "Rating", field.TypeNumber, false, &field.Options{Min: floatPtr(0), Max: floatPtr(10)}),
	}

	t.Run("below minimum", func(t *testing.T) {
		result := validate(t, defs, `{"1": -1}`)
		if result.IsValid || result.Errors[0] != "Field 'Rating': value -1 is below minimum 0" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("above maximum", func(t *testing.T) {
		result := validate(t, defs, `{"1": 11}`)
		if result.IsValid || result.Errors[0] != "Field 'Rating': value 11 exceeds maximum 10" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		for _, v := range []string{`{"1": 0}`, `{"1": 10}`, `{"1": 7.5}`} {
			result := validate(t, defs, v)
			if !result.IsValid {
				t.Errorf("expected %s valid, got errors: %v", v, result.Errors)
			}
		}
	})

	t.Run("non-number value", func(t *testing.T) {
		result := validate(t, defs, `{"1": "seven"}`)
		if result.IsValid || result.Errors[0] != "Field 'Rating': expected number value" {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}

func TestValidateDate(t *testing.T) {
	defs := []model.FieldDefinition{def(1, "Read on", field.TypeDate, false, nil)}

	t.Run("valid date", func(t *testing.T) {
		result := validate(t, defs, `{"1": "2024-02-29"}`)
		if !result.IsValid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		result := validate(t, defs, `{"1": "02/29/2024"}`)
		if result.IsValid || result.Errors[0] != "Invalid date format '02/29/2024': expected YYYY-MM-DD" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("impossible date", func(t *testing.T) {
		result := validate(t, defs, `{"1": "2023-02-29"}`)
		if result.IsValid {
			t.Error("expected invalid result for non-leap-year Feb 29")
		}
	})
}

func TestValidateURL(t *testing.T) {
	defs := []model.FieldDefinition{def(1, "Link", field.TypeURL, false, nil)}

	t.Run("http and https pass", func(t *testing.T) {
		for _, v := range []string{`{"1": "http://example.com"}`, `{"1": "https://example.com"}`} {
			result := validate(t, defs, v)
			if !result.IsValid {
				t.Errorf("expected %s valid, got errors: %v", v, result.Errors)
			}
		}
	})

	t.Run("other schemes fail", func(t *testing.T) {
		result := validate(t, defs, `{"1": "ftp://example.com"}`)
		if result.IsValid || result.Errors[0] != "Invalid URL 'ftp://example.com': must start with http:// or https://" {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}

func TestValidateBoolean(t *testing.T) {
	defs := []model.FieldDefinition{def(1, "Owned", field.TypeBoolean, false, nil)}

	result := validate(t, defs, `{"1": true}`)
	if !result.IsValid {
		t.Errorf("expected valid, got errors: %v", result.Errors)
	}

	result = validate(t, defs, `{"1": "yes"}`)
	if result.IsValid || result.Errors[0] != "Boolean field: expected true or false" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestValidateSelect(t *testing.T) {
	defs := []model.FieldDefinition{
		def(1, "Condition", field.TypeSelect, false, &field.Options{Choices: []string{"mint", "good", "worn"}}),
	}

	t.Run("valid choice", func(t *testing.T) {
		result := validate(t, defs, `{"1": "good"}`)
		if !result.IsValid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
	})

	t.Run("invalid choice lists valid ones", func(t *testing.T) {
		result := validate(t, defs, `{"1": "pristine"}`)
		if result.IsValid {
			t.Fatal("expected invalid result")
		}
		if result.Errors[0] != "Field 'Condition': 'pristine' is not a valid choice. Valid choices: [mint good worn]" {
			t.Errorf("unexpected error: %q", result.Errors[0])
		}
	})

	t.Run("no choice set accepts any string", func(t *testing.T) {
		open := []model.FieldDefinition{def(2, "Tag", field.TypeSelect, false, nil)}
		result := validate(t, open, `{"2": "anything"}`)
		if !result.IsValid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
	})
}

func TestValidateRelation(t *testing.T) {
	defs := []model.FieldDefinition{
		def(1, "Series", field.TypeRelation, false, &field.Options{TargetVaultID: int64Ptr(2)}),
	}

	t.Run("well-formed reference passes without existence check", func(t *testing.T) {
		result := validate(t, defs, `{"1": {"entry_id": 999, "vault_id": 2}}`)
		if !result.IsValid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		result := validate(t, defs, `{"1": 5}`)
		if result.IsValid || result.Errors[0] != "Field 'Series': expected object with entry_id and vault_id" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("missing entry_id", func(t *testing.T) {
		result := validate(t, defs, `{"1": {"vault_id": 2}}`)
		if result.IsValid || result.Errors[0] != "Field 'Series': missing or invalid entry_id" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("fractional entry_id is invalid", func(t *testing.T) {
		result := validate(t, defs, `{"1": {"entry_id": 1.5, "vault_id": 2}}`)
		if result.IsValid {
			t.Error("expected invalid result")
		}
	})

	t.Run("wrong target vault", func(t *testing.T) {
		result := validate(t, defs, `{"1": {"entry_id": 3, "vault_id": 7}}`)
		if result.IsValid || result.Errors[0] != "Field 'Series': vault_id 7 does not match target vault 2" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("non-positive ids", func(t *testing.T) {
		result := validate(t, defs, `{"1": {"entry_id": 0, "vault_id": 2}}`)
		if result.IsValid || result.Errors[0] != "Field 'Series': entry_id must be positive" {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}

func TestCleanupOrphans(t *testing.T) {
	defs := []model.FieldDefinition{
		def(1, "Author", field.TypeText, false, nil),
		def(2, "Rating", field.TypeNumber, false, nil),
	}
	engine := NewEngine(&fakeFields{defs: defs}, nil)
	ctx := context.Background()

	t.Run("drops orphan and malformed keys, keeps live ones", func(t *testing.T) {
		cleaned, err := engine.CleanupOrphans(ctx, 1, `{"1": "x", "99": "stale", "author": "bad key"}`)
		if err != nil {
			t.Fatalf("CleanupOrphans returned error: %v", err)
		}

		var meta map[string]any
		if err := json.Unmarshal([]byte(cleaned), &meta); err != nil {
			t.Fatalf("cleaned blob is not JSON: %v", err)
		}
		if len(meta) != 1 || meta["1"] != "x" {
			t.Errorf("unexpected cleaned metadata: %v", meta)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once, err := engine.CleanupOrphans(ctx, 1, `{"1": "x", "99": "stale"}`)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := engine.CleanupOrphans(ctx, 1, once)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("cleanup not idempotent: %q vs %q", once, twice)
		}
	})

	t.Run("unparseable blob is returned unchanged", func(t *testing.T) {
		out, err := engine.CleanupOrphans(ctx, 1, `{broken`)
		if err != nil {
			t.Fatal(err)
		}
		if out != `{broken` {
			t.Errorf("expected input unchanged, got %q", out)
		}
	})

	t.Run("validation then cleanup clears the orphan warning", func(t *testing.T) {
		raw := `{"1": "x", "99": "stale"}`
		before, err := engine.Validate(ctx, 1, strPtr(raw))
		if err != nil {
			t.Fatal(err)
		}
		if len(before.Warnings) == 0 {
			t.Fatal("expected orphan warning before cleanup")
		}

		cleaned, err := engine.CleanupOrphans(ctx, 1, raw)
		if err != nil {
			t.Fatal(err)
		}
		after, err := engine.Validate(ctx, 1, strPtr(cleaned))
		if err != nil {
			t.Fatal(err)
		}
		if len(after.Warnings) != 0 {
			t.Errorf("expected no warnings after cleanup, got %v", after.Warnings)
		}
	})
}

func TestValidateNilMetadata(t *testing.T) {
	t.Run("nil metadata with no required fields is valid", func(t *testing.T) {
		engine := NewEngine(&fakeFields{defs: []model.FieldDefinition{
			def(1, "Notes", field.TypeText, false, nil),
		}}, nil)
		result, err := engine.Validate(context.Background(), 1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsValid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
	})

	t.Run("nil metadata fails required fields", func(t *testing.T) {
		engine := NewEngine(&fakeFields{defs: []model.FieldDefinition{
			def(1, "Author", field.TypeText, true, nil),
		}}, nil)
		result, err := engine.ValidateRequired(context.Background(), 1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if result.IsValid {
			t.Error("expected invalid result")
		}
	})
}
