package field

import (
	"testing"
)

func TestParseType(t *testing.T) {
	for _, valid := range []string{"text", "number", "date", "url", "boolean", "select", "relation"} {
		if _, ok := ParseType(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "Text", "string", "rel"} {
		if _, ok := ParseType(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	max := 100
	target := int64(3)
	o := &Options{
		MaxLength:     &max,
		Choices:       []string{"a", "b"},
		TargetVaultID: &target,
	}

	encoded, err := o.Encode()
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := ParseOptions(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.MaxLength == nil || *decoded.MaxLength != 100 {
		t.Errorf("maxLength lost: %+v", decoded)
	}
	if decoded.TargetVaultID == nil || *decoded.TargetVaultID != 3 {
		t.Errorf("targetVaultId lost: %+v", decoded)
	}
	if len(decoded.Choices) != 2 {
		t.Errorf("choices lost: %+v", decoded)
	}
}

func TestOptionsEmpty(t *testing.T) {
	var o *Options
	encoded, err := o.Encode()
	if err != nil || encoded != "" {
		t.Errorf("nil options should encode to empty, got %q (%v)", encoded, err)
	}

	decoded, err := ParseOptions("")
	if err != nil || decoded != nil {
		t.Errorf("empty blob should decode to nil, got %+v (%v)", decoded, err)
	}

	if _, err := ParseOptions("{broken"); err == nil {
		t.Error("expected error for corrupt blob")
	}
}

func TestRelationValueKey(t *testing.T) {
	ref := RelationValue{EntryID: 42, VaultID: 7}
	if ref.Key() != "42:7" {
		t.Errorf("unexpected key %q", ref.Key())
	}
}
