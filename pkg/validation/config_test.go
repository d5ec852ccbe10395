package validation

import (
	"math"
	"strings"
	"testing"
)

func TestValidateConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		expectWarn bool
	}{
		{"Lower bound", 0, false},
		{"Upper bound", 100, false},
		{"Typical", 72.5, false},
		{"Negative", -1, true},
		{"Above range", 130, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateConfidence("Item", tt.confidence)
			if tt.expectWarn && warning == "" {
				t.Errorf("expected warning for confidence %v", tt.confidence)
			}
			if !tt.expectWarn && warning != "" {
				t.Errorf("unexpected warning: %s", warning)
			}
		})
	}
}

func TestValidateGross(t *testing.T) {
	if w := ValidateGross("Item", 0); w != "" {
		t.Errorf("zero gross should be accepted, got %q", w)
	}
	if w := ValidateGross("Item", -3); !strings.Contains(w, "negative") {
		t.Errorf("expected negative warning, got %q", w)
	}
	if w := ValidateGross("Item", math.Inf(1)); !strings.Contains(w, "non-numeric") {
		t.Errorf("expected non-numeric warning, got %q", w)
	}
}

func TestValidateSensitivity(t *testing.T) {
	for _, s := range []float64{-10, 0, 10} {
		if w := ValidateSensitivity(s); w != "" {
			t.Errorf("sensitivity %v should be accepted, got %q", s, w)
		}
	}
	if w := ValidateSensitivity(25); w == "" {
		t.Error("expected warning for sensitivity beyond the slider")
	}
}

func TestConfigValidatorValidateAll(t *testing.T) {
	cv := ConfigValidator{
		Target:      0,
		Sensitivity: -12,
		Items: []ItemConfig{
			{ID: "A-1", Name: "First", Gross: 10, Confidence: 80, Readiness: "Ready"},
			{ID: "A-1", Name: "Duplicate", Gross: -2, Confidence: 50},
			{ID: "", Name: "Anonymous", Gross: 5, Confidence: 120, Readiness: "Someday"},
			{ID: "PREVIEW", Name: "Reserved", Gross: 1, Confidence: 10},
		},
	}

	warnings := cv.ValidateAll()

	expected := []string{
		"Target 0.00 is not positive",
		"Sensitivity -12.0 is outside",
		"Item id 'A-1' is used by items 1 and 2",
		"Item 'Duplicate' gross value -2.00 is negative",
		"Item 3 has no id",
		"Item 'Anonymous' confidence 120.0 is outside",
		"readiness 'Someday' is unknown",
		"reserved for previews",
	}
	for _, want := range expected {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing warning containing %q in %v", want, warnings)
		}
	}
	if len(warnings) != len(expected) {
		t.Errorf("expected %d warnings, got %d: %v", len(expected), len(warnings), warnings)
	}
}

func TestConfigValidatorClean(t *testing.T) {
	cv := ConfigValidator{
		Target: 60,
		Items:  []ItemConfig{{ID: "A-101", Name: "ERP", Gross: 18.5, Confidence: 85, Readiness: "Ready"}},
	}
	if warnings := cv.ValidateAll(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	empty := ConfigValidator{Target: 10}
	if warnings := empty.ValidateAll(); len(warnings) != 1 {
		t.Errorf("expected a single empty-portfolio warning, got %v", warnings)
	}
}
