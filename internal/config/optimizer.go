package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/portfolio-forecast/pkg/constants"
)

const (
	OptimizerGoalWeighted    = "weighted"
	OptimizerGoalProbability = "probability"

	defaultBreakEvenMin       = -100.0
	defaultBreakEvenMax       = 100.0
	defaultBreakEvenTolerance = 0.01
	defaultMaxIterations      = 50
	defaultProbabilityGoal    = 80.0
)

// OptimizerConfig drives the break-even search: the smallest sensitivity
// offset at which a scenario reaches the savings target, or reaches a
// probability goal when Goal is "probability".
type OptimizerConfig struct {
	Enabled       bool     `yaml:"enabled,omitempty" mapstructure:"enabled"`
	Goal          string   `yaml:"goal,omitempty" mapstructure:"goal"`
	Probability   float64  `yaml:"probability,omitempty" mapstructure:"probability"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerGoal returns the canonical identifier for an optimizer goal.
func CanonicalOptimizerGoal(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "", "weighted", "target", "total":
		return OptimizerGoalWeighted
	case "probability", "prob", "likelihood":
		return OptimizerGoalProbability
	default:
		return trimmed
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Goal = CanonicalOptimizerGoal(o.Goal)
	if o.Min == nil {
		v := defaultBreakEvenMin
		o.Min = &v
	}
	if o.Max == nil {
		v := defaultBreakEvenMax
		o.Max = &v
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultBreakEvenTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
	if o.Goal == OptimizerGoalProbability && o.Probability <= 0 {
		o.Probability = defaultProbabilityGoal
	}
}

// Bounds returns the normalized search interval.
func (o *OptimizerConfig) Bounds() (float64, float64) {
	o.Normalize()
	return *o.Min, *o.Max
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	switch o.Goal {
	case OptimizerGoalWeighted, OptimizerGoalProbability:
		// supported goals
	default:
		return fmt.Errorf("optimizer goal %q is not supported", o.Goal)
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	if o.Goal == OptimizerGoalProbability && o.Probability > constants.PercentageMultiplier {
		return fmt.Errorf("optimizer probability goal %.1f must not exceed 100", o.Probability)
	}
	return nil
}
