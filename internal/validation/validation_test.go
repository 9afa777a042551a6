package validation

import (
	"testing"
	"time"
)

func TestNormalizeFacet(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{"nil input", nil, nil},
		{"comma-delimited string", "speech therapy, feeding", []string{"speech therapy", "feeding"}},
		{"semicolon-delimited string", "english; spanish", []string{"english", "spanish"}},
		{"mixed delimiters", "a, b; c", []string{"a", "b", "c"}},
		{"string slice", []string{"toddler", "preschool"}, []string{"toddler", "preschool"}},
		{"any slice from json", []any{"weekdays", "evenings"}, []string{"weekdays", "evenings"}},
		{"any slice skips non-strings", []any{"weekdays", 7, true}, []string{"weekdays"}},
		{"whitespace trimmed", "  speech  ,  feeding  ", []string{"speech", "feeding"}},
		{"empties dropped", "a,,  ,b", []string{"a", "b"}},
		{"case-insensitive dedupe keeps first spelling", []string{"English", "english", "SPANISH"}, []string{"English", "SPANISH"}},
		{"only empties", " , ; ", nil},
		{"unsupported type", 42, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFacet(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeFacet(%v) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("position %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}

	got, err = ParseDate("")
	if err != nil || got != nil {
		t.Errorf("empty string = (%v, %v), want (nil, nil)", got, err)
	}

	got, err = ParseDate("   ")
	if err != nil || got != nil {
		t.Errorf("whitespace = (%v, %v), want (nil, nil)", got, err)
	}

	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Error("wrong format should fail")
	}
	if _, err := ParseDate("2026-13-40"); err == nil {
		t.Error("impossible date should fail")
	}
}

func TestValidReason(t *testing.T) {
	if ValidReason("") || ValidReason("   \t") {
		t.Error("blank reasons should be invalid")
	}
	if !ValidReason("incomplete documentation") {
		t.Error("real reason should be valid")
	}
}
