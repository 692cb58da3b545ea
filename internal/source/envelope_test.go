package source

import (
	"encoding/json"
	"testing"
)

func TestValidateMirrorEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("missing envelope is valid and empty", func(t *testing.T) {
		t.Parallel()
		envelope, err := ValidateMirrorEnvelope(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(envelope) != 0 {
			t.Fatalf("expected empty envelope: %v", envelope)
		}
	})

	t.Run("mixed attribute types decode", func(t *testing.T) {
		t.Parallel()
		envelope, err := ValidateMirrorEnvelope(json.RawMessage(`{"j": 3, "k": "2", "tp": 48000000}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if envNumeric(envelope, "j") != "3" || envNumeric(envelope, "k") != "2" {
			t.Fatalf("numeric attributes not readable: %v", envelope)
		}
	})

	t.Run("trailing content rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := ValidateMirrorEnvelope(json.RawMessage(`{} {"extra": 1}`)); err == nil {
			t.Fatalf("expected trailing content to be rejected")
		}
	})

	t.Run("non-object rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := ValidateMirrorEnvelope(json.RawMessage(`[1, 2]`)); err == nil {
			t.Fatalf("expected a non-object envelope to be rejected")
		}
	})

	t.Run("wrong attribute type rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := ValidateMirrorEnvelope(json.RawMessage(`{"note": 12}`)); err == nil {
			t.Fatalf("expected a type violation to be rejected")
		}
	})
}
