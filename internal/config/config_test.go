package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
)

const sampleConfig = `
output:
  format: csv
simulation:
  trials: 500
  workers: 2
  seed: 7
selection:
  scenario: Optimistic
  sensitivity: 5
scenarios:
  - key: Stretch
    label: Stretch
    multiplier: 1.3
portfolio:
  target: 40
  items:
    - id: X-1
      name: First
      segment: Ops
      gross: 20
      confidence: 80
      readiness: Ready
      upliftActions:
        - task: Workshop
          impact: 5
          owner: Ops
    - id: X-2
      name: Second
      gross: 10
      confidence: 60
      scores:
        dc: 4
        tf: 3
        dr: 4
        der: 5
        er: 3
`

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config",
			configPath: "../../config.yaml.example",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration("../../config.yaml.example")
	if err != nil {
		t.Fatalf("failed to load example: %v", err)
	}

	if conf.Portfolio.Demo {
		t.Error("example lists items and should not fall back to the demo portfolio")
	}
	if len(conf.Portfolio.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(conf.Portfolio.Items))
	}
	first := conf.Portfolio.Items[0]
	if first.ID != "A-101" || first.Gross != 18.5 || first.Confidence != 85 {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.Stakeholder.Group != "ERP COE" || first.Rationale.TimeQuadrant != "Invest" {
		t.Errorf("nested item fields not decoded: %+v", first)
	}
	if len(conf.Portfolio.Items[2].UpliftActions) != 2 {
		t.Errorf("expected two uplift actions on A-404")
	}
	if !conf.Optimizer.Enabled || conf.Optimizer.Goal != OptimizerGoalWeighted {
		t.Errorf("optimizer not decoded: %+v", conf.Optimizer)
	}

	registry, err := conf.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if keys := registry.Keys(); len(keys) != 4 || keys[3] != "Stretch" {
		t.Errorf("expected the Stretch scenario appended, got %v", keys)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("example should validate: %v", err)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("output format = %s", conf.Output.Format)
	}
	if conf.Simulation.Trials != 500 || conf.Simulation.Workers != 2 || conf.Simulation.Seed != 7 {
		t.Errorf("simulation section not decoded: %+v", conf.Simulation)
	}
	if conf.Simulation.AsyncItemThreshold != constants.DefaultAsyncItemThreshold {
		t.Errorf("async threshold default not applied: %d", conf.Simulation.AsyncItemThreshold)
	}
	if conf.Portfolio.Target != 40 || len(conf.Portfolio.Items) != 2 {
		t.Errorf("portfolio not decoded: %+v", conf.Portfolio)
	}
	if got := portfolio.ConfidenceFromScores(conf.Portfolio.Items[1].Scores); got != 76 {
		t.Errorf("scores not decoded, confidence from scores = %v", got)
	}

	def, err := conf.Selected()
	if err != nil {
		t.Fatalf("Selected() error = %v", err)
	}
	if def.Key != constants.ScenarioOptimistic || def.Multiplier != 1.15 {
		t.Errorf("unexpected selection: %+v", def)
	}
	if conf.Selection.Sensitivity != 5 {
		t.Errorf("sensitivity = %v", conf.Selection.Sensitivity)
	}

	opts := conf.SimulationOptions()
	if opts.Trials != 500 || opts.Workers != 2 || opts.Sources == nil {
		t.Errorf("unexpected simulation options: %+v", opts)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("logging:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("default output format = %s", conf.Output.Format)
	}
	if conf.Simulation.Trials != constants.DefaultTrials {
		t.Errorf("default trials = %d", conf.Simulation.Trials)
	}
	if conf.Selection.Scenario != constants.DefaultScenario {
		t.Errorf("default scenario = %s", conf.Selection.Scenario)
	}
	if !conf.Portfolio.Demo || len(conf.Portfolio.Items) != len(portfolio.Demo().Items) {
		t.Errorf("expected the demo portfolio when none is configured")
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("PORTFOLIO_SIMULATION_TRIALS", "750")
	t.Setenv("PORTFOLIO_SELECTION_SCENARIO", "Conservative")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Simulation.Trials != 750 {
		t.Errorf("env override for trials not applied: %d", conf.Simulation.Trials)
	}
	if conf.Selection.Scenario != constants.ScenarioConservative {
		t.Errorf("env override for scenario not applied: %s", conf.Selection.Scenario)
	}
}

func TestSanitize(t *testing.T) {
	conf := &Configuration{
		Selection: SelectionConfig{Sensitivity: math.NaN()},
		Portfolio: PortfolioConfig{Portfolio: portfolio.Portfolio{
			Target: math.Inf(1),
			Items: []portfolio.Item{
				{ID: "ok", Gross: 10, Confidence: 50, Readiness: portfolio.ReadinessReady},
				{ID: "neg", Gross: -4, Confidence: 50},
				{ID: "nan", Gross: math.NaN(), Confidence: math.Inf(-1)},
				{Gross: 1, Confidence: 1, Readiness: "Someday"},
			},
		}},
	}

	changes := conf.Sanitize()

	items := conf.Portfolio.Items
	if conf.Portfolio.Target != 0 || conf.Selection.Sensitivity != 0 {
		t.Errorf("non-finite target or sensitivity not reset")
	}
	if items[0].Gross != 10 || items[0].Readiness != portfolio.ReadinessReady {
		t.Errorf("valid item modified: %+v", items[0])
	}
	if items[1].Gross != 0 {
		t.Errorf("negative gross not reset: %v", items[1].Gross)
	}
	if items[2].Gross != 0 || items[2].Confidence != 0 {
		t.Errorf("non-finite values not reset: %+v", items[2])
	}
	if items[3].ID != "ITEM-4" || items[3].Readiness != portfolio.ReadinessConditional {
		t.Errorf("missing id or unknown readiness not fixed: %+v", items[3])
	}
	if len(changes) != 7 {
		t.Errorf("expected 7 changes, got %d: %v", len(changes), changes)
	}
}

func TestValidate(t *testing.T) {
	conf := &Configuration{
		Output:    OutputConfig{Format: "xml"},
		Selection: SelectionConfig{Scenario: "Moonshot"},
		Optimizer: OptimizerConfig{Enabled: true, Goal: "npv"},
	}

	err := conf.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"output format", "unknown scenario", "optimizer goal"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf := &Configuration{
		Selection: SelectionConfig{Sensitivity: 0},
		Portfolio: PortfolioConfig{Portfolio: portfolio.Portfolio{
			Target: 60,
			Items: []portfolio.Item{
				{ID: "A", Name: "A", Gross: 10, Confidence: 140},
				{ID: "A", Name: "B", Gross: 10, Confidence: 50},
			},
		}},
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}

	if warnings := (&Configuration{Portfolio: PortfolioConfig{Portfolio: portfolio.Demo()}}).ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("demo portfolio should not warn: %v", warnings)
	}
}

func TestAssessmentConfig(t *testing.T) {
	var a AssessmentConfig
	if a.Enabled() {
		t.Error("empty base URL should disable the assessment source")
	}
	if a.TimeoutDuration().Seconds() != constants.DefaultAssessmentTimeoutSeconds {
		t.Errorf("default timeout = %v", a.TimeoutDuration())
	}
	a = AssessmentConfig{BaseURL: " http://localhost ", Timeout: 5}
	if !a.Enabled() || a.TimeoutDuration().Seconds() != 5 {
		t.Errorf("unexpected assessment config behaviour: %+v", a)
	}
}
