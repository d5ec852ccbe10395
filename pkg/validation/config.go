// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/portfolio-forecast/pkg/constants"
)

// ValidateConfidence checks that a base confidence lies in [0, 100].
func ValidateConfidence(itemName string, confidence float64) string {
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return fmt.Sprintf("Item '%s' has a non-numeric confidence and will be treated as 0", itemName)
	}
	if confidence < constants.MinConfidence || confidence > constants.MaxConfidence {
		return fmt.Sprintf("Item '%s' confidence %.1f is outside [0, 100] and will be clamped", itemName, confidence)
	}
	return ""
}

// ValidateGross checks that a gross value is a non-negative number.
func ValidateGross(itemName string, gross float64) string {
	if math.IsNaN(gross) || math.IsInf(gross, 0) {
		return fmt.Sprintf("Item '%s' has a non-numeric gross value and will be treated as 0", itemName)
	}
	if gross < 0 {
		return fmt.Sprintf("Item '%s' gross value %.2f is negative and will be treated as 0", itemName, gross)
	}
	return ""
}

// ValidateSensitivity warns when an offset lies outside the interactive range.
func ValidateSensitivity(sensitivity float64) string {
	if sensitivity < constants.MinSensitivity || sensitivity > constants.MaxSensitivity {
		return fmt.Sprintf("Sensitivity %+.1f is outside the usual range of %d to %+d",
			sensitivity, constants.MinSensitivity, constants.MaxSensitivity)
	}
	return ""
}

// ConfigValidator performs whole-portfolio validation.
type ConfigValidator struct {
	Target      float64
	Sensitivity float64
	Items       []ItemConfig
}

type ItemConfig struct {
	ID         string
	Name       string
	Gross      float64
	Confidence float64
	Readiness  string
}

// KnownReadiness lists the readiness levels that carry a status message.
var KnownReadiness = []string{"Ready", "Conditional", "Blocked"}

// ValidateAll validates the portfolio and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if math.IsNaN(cv.Target) || math.IsInf(cv.Target, 0) {
		warnings = append(warnings, "Target is not a number and will be treated as 0")
	} else if cv.Target <= 0 {
		warnings = append(warnings, fmt.Sprintf("Target %.2f is not positive; every trial will meet it", cv.Target))
	}

	if w := ValidateSensitivity(cv.Sensitivity); w != "" {
		warnings = append(warnings, w)
	}

	if len(cv.Items) == 0 {
		warnings = append(warnings, "Portfolio has no items; the weighted total will be 0")
	}

	seen := make(map[string]int, len(cv.Items))
	for i, item := range cv.Items {
		label := item.Name
		if label == "" {
			label = item.ID
		}
		if item.ID == "" {
			warnings = append(warnings, fmt.Sprintf("Item %d has no id", i+1))
		} else if first, ok := seen[item.ID]; ok {
			warnings = append(warnings, fmt.Sprintf("Item id '%s' is used by items %d and %d", item.ID, first+1, i+1))
		} else {
			seen[item.ID] = i
		}
		if item.ID == constants.PreviewItemID {
			warnings = append(warnings, fmt.Sprintf("Item id '%s' is reserved for previews", item.ID))
		}

		if w := ValidateGross(label, item.Gross); w != "" {
			warnings = append(warnings, w)
		}
		if w := ValidateConfidence(label, item.Confidence); w != "" {
			warnings = append(warnings, w)
		}
		if item.Readiness != "" && !knownReadiness(item.Readiness) {
			warnings = append(warnings, fmt.Sprintf("Item '%s' readiness '%s' is unknown and will be treated as Conditional", label, item.Readiness))
		}
	}

	return warnings
}

func knownReadiness(level string) bool {
	for _, known := range KnownReadiness {
		if level == known {
			return true
		}
	}
	return false
}
