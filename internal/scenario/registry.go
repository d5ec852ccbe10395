// Package scenario holds the named planning scenarios and their value
// multipliers.
package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"go.uber.org/multierr"
)

// Definition describes one planning scenario.
type Definition struct {
	Key         string  `json:"key" yaml:"key" mapstructure:"key"`
	Label       string  `json:"label" yaml:"label" mapstructure:"label"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier" mapstructure:"multiplier"`
	Description string  `json:"description" yaml:"description" mapstructure:"description"`
}

// Validate checks that the definition can be used in computations.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return fmt.Errorf("scenario key cannot be empty")
	}
	if math.IsNaN(d.Multiplier) || math.IsInf(d.Multiplier, 0) || d.Multiplier <= 0 {
		return fmt.Errorf("scenario %s: multiplier must be a positive number, got %v", d.Key, d.Multiplier)
	}
	return nil
}

// Registry is an immutable, ordered table of scenarios keyed by name.
type Registry struct {
	order []string
	defs  map[string]Definition
}

// Defaults returns the built-in scenario table.
func Defaults() []Definition {
	return []Definition{
		{
			Key:         constants.ScenarioBase,
			Label:       "Base Case",
			Multiplier:  1.0,
			Description: "Standard risk-adjusted confidence.",
		},
		{
			Key:         constants.ScenarioOptimistic,
			Label:       "Optimistic (+15%)",
			Multiplier:  1.15,
			Description: "Assumes higher realization rate and faster execution.",
		},
		{
			Key:         constants.ScenarioConservative,
			Label:       "Conservative (-20%)",
			Multiplier:  0.8,
			Description: "Buffers for delays and technical blockers.",
		},
	}
}

// Default returns a registry holding the built-in scenarios.
func Default() *Registry {
	r, err := NewRegistry(Defaults())
	if err != nil {
		panic(fmt.Sprintf("built-in scenarios are invalid: %v", err))
	}
	return r
}

// NewRegistry builds a registry from the given definitions. A later
// definition with the same key replaces an earlier one in place. Every invalid
// definition is reported.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}

	var errs error
	for _, def := range defs {
		def.Key = strings.TrimSpace(def.Key)
		if err := def.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if def.Label == "" {
			def.Label = def.Key
		}
		if _, exists := r.defs[def.Key]; !exists {
			r.order = append(r.order, def.Key)
		}
		r.defs[def.Key] = def
	}
	if errs != nil {
		return nil, errs
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("scenario registry requires at least one scenario")
	}
	return r, nil
}

// WithOverrides returns a new registry containing the built-in scenarios
// followed by the supplied additions or replacements.
func WithOverrides(overrides []Definition) (*Registry, error) {
	defs := append(Defaults(), overrides...)
	return NewRegistry(defs)
}

// Lookup returns the scenario registered under key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	def, ok := r.defs[strings.TrimSpace(key)]
	return def, ok
}

// MustLookup returns the scenario registered under key or an error naming the
// known keys.
func (r *Registry) MustLookup(key string) (Definition, error) {
	def, ok := r.Lookup(key)
	if !ok {
		return Definition{}, fmt.Errorf("unknown scenario %q (expected one of %s)", key, strings.Join(r.order, ", "))
	}
	return def, nil
}

// Keys returns the scenario keys in registration order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// All returns the scenario definitions in registration order.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.defs[key])
	}
	return out
}
