// Package config defines the data structures related to configuration and
// includes functions for loading, sanitizing and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/scenario"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/iwvelando/portfolio-forecast/pkg/mathutil"
	"github.com/iwvelando/portfolio-forecast/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix prefixes environment overrides, e.g. PORTFOLIO_SIMULATION_TRIALS.
const EnvPrefix = "PORTFOLIO"

// Configuration holds all configuration for portfolio-forecast.
type Configuration struct {
	Logging    LoggingConfig         `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig          `yaml:"output,omitempty" mapstructure:"output"`
	Simulation SimulationConfig      `yaml:"simulation,omitempty" mapstructure:"simulation"`
	Selection  SelectionConfig       `yaml:"selection,omitempty" mapstructure:"selection"`
	Scenarios  []scenario.Definition `yaml:"scenarios,omitempty" mapstructure:"scenarios"`
	Portfolio  PortfolioConfig       `yaml:"portfolio" mapstructure:"portfolio"`
	Optimizer  OptimizerConfig       `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
	Assessment AssessmentConfig      `yaml:"assessment,omitempty" mapstructure:"assessment"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// SimulationConfig tunes the probability estimate.
type SimulationConfig struct {
	Trials  int `yaml:"trials,omitempty" mapstructure:"trials"`
	Workers int `yaml:"workers,omitempty" mapstructure:"workers"`
	// Seed makes runs reproducible; 0 draws from entropy.
	Seed               uint64 `yaml:"seed,omitempty" mapstructure:"seed"`
	AsyncItemThreshold int    `yaml:"asyncItemThreshold,omitempty" mapstructure:"asyncItemThreshold"`
	Distribution       bool   `yaml:"distribution,omitempty" mapstructure:"distribution"`
}

// SelectionConfig is the scenario and sensitivity evaluated by default.
type SelectionConfig struct {
	Scenario    string  `yaml:"scenario,omitempty" mapstructure:"scenario"`
	Sensitivity float64 `yaml:"sensitivity,omitempty" mapstructure:"sensitivity"`
}

// PortfolioConfig is the portfolio under evaluation. With Demo set, or when
// neither items nor a target are configured, the reference portfolio is used.
type PortfolioConfig struct {
	portfolio.Portfolio `yaml:",inline" mapstructure:",squash"`
	Demo                bool `yaml:"demo,omitempty" mapstructure:"demo"`
}

// AssessmentConfig points at an assessment service that supplies items.
type AssessmentConfig struct {
	BaseURL           string  `yaml:"baseURL,omitempty" mapstructure:"baseURL"`
	Timeout           int     `yaml:"timeout,omitempty" mapstructure:"timeout"` // seconds
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty" mapstructure:"requestsPerSecond"`
	Target            float64 `yaml:"target,omitempty" mapstructure:"target"`
}

// Enabled reports whether items should be fetched from the assessment service.
func (a AssessmentConfig) Enabled() bool {
	return strings.TrimSpace(a.BaseURL) != ""
}

// TimeoutDuration returns the request timeout.
func (a AssessmentConfig) TimeoutDuration() time.Duration {
	if a.Timeout <= 0 {
		return constants.DefaultAssessmentTimeoutSeconds * time.Second
	}
	return time.Duration(a.Timeout) * time.Second
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("simulation.trials", constants.DefaultTrials)
	v.SetDefault("simulation.workers", constants.DefaultWorkers)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.asyncItemThreshold", constants.DefaultAsyncItemThreshold)
	v.SetDefault("selection.scenario", constants.DefaultScenario)
	v.SetDefault("selection.sensitivity", 0)
	v.SetDefault("assessment.baseURL", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Configuration) ApplyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Simulation.Trials <= 0 {
		c.Simulation.Trials = constants.DefaultTrials
	}
	if c.Simulation.Workers <= 0 {
		c.Simulation.Workers = constants.DefaultWorkers
	}
	if c.Simulation.AsyncItemThreshold <= 0 {
		c.Simulation.AsyncItemThreshold = constants.DefaultAsyncItemThreshold
	}
	if strings.TrimSpace(c.Selection.Scenario) == "" {
		c.Selection.Scenario = constants.DefaultScenario
	}
	if c.Assessment.RequestsPerSecond <= 0 {
		c.Assessment.RequestsPerSecond = constants.DefaultAssessmentRequestsPerSecond
	}
	if c.Portfolio.Demo || (len(c.Portfolio.Items) == 0 && c.Portfolio.Target == 0 && !c.Assessment.Enabled()) {
		c.Portfolio.Portfolio = portfolio.Demo()
		c.Portfolio.Demo = true
	}
	c.Optimizer.Normalize()
}

// Registry returns the built-in scenarios merged with any configured ones.
func (c *Configuration) Registry() (*scenario.Registry, error) {
	return scenario.WithOverrides(c.Scenarios)
}

// Selected resolves the configured scenario against the registry.
func (c *Configuration) Selected() (scenario.Definition, error) {
	registry, err := c.Registry()
	if err != nil {
		return scenario.Definition{}, err
	}
	return registry.MustLookup(c.Selection.Scenario)
}

// SimulationOptions translates the simulation section into simulator options.
func (c *Configuration) SimulationOptions() simulation.Options {
	sources := simulation.EntropySources()
	if c.Simulation.Seed != 0 {
		sources = simulation.SeededSources(c.Simulation.Seed)
	}
	return simulation.Options{
		Trials:       c.Simulation.Trials,
		Workers:      c.Simulation.Workers,
		Sources:      sources,
		Distribution: c.Simulation.Distribution,
	}
}

// Sanitize coerces values the engine cannot use: non-numeric or negative
// gross values and non-numeric confidences become 0, a non-numeric target
// becomes 0 and unknown readiness levels become Conditional. Items without
// an id are numbered by position. It returns a description of each change.
func (c *Configuration) Sanitize() []string {
	var changes []string
	p := &c.Portfolio.Portfolio

	if !mathutil.IsFinite(p.Target) {
		changes = append(changes, "target reset to 0")
		p.Target = 0
	}
	if !mathutil.IsFinite(c.Selection.Sensitivity) {
		changes = append(changes, "sensitivity reset to 0")
		c.Selection.Sensitivity = 0
	}

	for i := range p.Items {
		item := &p.Items[i]
		if strings.TrimSpace(item.ID) == "" {
			item.ID = fmt.Sprintf("ITEM-%d", i+1)
			changes = append(changes, fmt.Sprintf("item %d assigned id %s", i+1, item.ID))
		}
		if !mathutil.IsFinite(item.Gross) || item.Gross < 0 {
			changes = append(changes, fmt.Sprintf("item %s gross %v reset to 0", item.ID, item.Gross))
			item.Gross = 0
		}
		if !mathutil.IsFinite(item.Confidence) {
			changes = append(changes, fmt.Sprintf("item %s confidence reset to 0", item.ID))
			item.Confidence = 0
		}
		if item.Readiness != "" {
			if _, ok := portfolio.LookupReadiness(item.Readiness); !ok {
				changes = append(changes, fmt.Sprintf("item %s readiness %q treated as %s", item.ID, item.Readiness, portfolio.ReadinessConditional))
				item.Readiness = portfolio.ReadinessConditional
			}
		}
	}
	return changes
}

// Validate returns every error that prevents the configuration from being
// evaluated.
func (c *Configuration) Validate() error {
	var errs error
	errs = multierr.Append(errs, validation.ValidateOutputFormat(c.Output.Format))
	if _, err := c.Selected(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Simulation.Trials < 0 {
		errs = multierr.Append(errs, fmt.Errorf("simulation trials must not be negative, got %d", c.Simulation.Trials))
	}
	if c.Simulation.Workers < 0 {
		errs = multierr.Append(errs, fmt.Errorf("simulation workers must not be negative, got %d", c.Simulation.Workers))
	}
	if c.Optimizer.Enabled {
		errs = multierr.Append(errs, c.Optimizer.Validate())
	}
	return errs
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	items := make([]validation.ItemConfig, 0, len(c.Portfolio.Items))
	for _, item := range c.Portfolio.Items {
		items = append(items, validation.ItemConfig{
			ID:         item.ID,
			Name:       item.Name,
			Gross:      item.Gross,
			Confidence: item.Confidence,
			Readiness:  item.Readiness,
		})
	}

	validator := validation.ConfigValidator{
		Target:      c.Portfolio.Target,
		Sensitivity: c.Selection.Sensitivity,
		Items:       items,
	}
	return validator.ValidateAll()
}
