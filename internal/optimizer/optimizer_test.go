package optimizer

import (
	"context"
	"testing"

	"github.com/iwvelando/portfolio-forecast/internal/config"
	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/scenario"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 {
	return &v
}

func mustRunner(t *testing.T, sim *simulation.Simulator, cfg config.OptimizerConfig) *Runner {
	t.Helper()
	runner, err := NewRunner(zap.NewNop(), nil, sim, cfg)
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}
	return runner
}

func TestRunnerFindsBreakEvenPerScenario(t *testing.T) {
	runner := mustRunner(t, nil, config.OptimizerConfig{Tolerance: 0.001})

	result, err := runner.Run(context.Background(), portfolio.Demo(), 0)
	if err != nil {
		t.Fatalf("optimizer run failed: %v", err)
	}
	if len(result.Summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(result.Summaries))
	}

	tests := []struct {
		scenario string
		expected float64
	}{
		// Base crosses 60 after A-303 saturates at +5, where the slope drops to 0.67.
		{constants.ScenarioBase, 5 + (60-58.46)/0.67},
		{constants.ScenarioOptimistic, (60/1.15 - 54.47) / 0.798},
	}
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			summary, ok := result.Lookup(tt.scenario)
			if !ok {
				t.Fatalf("missing summary for %s", tt.scenario)
			}
			if !summary.Converged {
				t.Fatalf("expected convergence, notes: %v", summary.Notes)
			}
			if summary.Value < tt.expected-1e-6 || summary.Value > tt.expected+0.002 {
				t.Errorf("break-even = %.4f, expected about %.4f", summary.Value, tt.expected)
			}
			if summary.Headroom < 0 {
				t.Errorf("break-even value must meet the target, headroom %.4f", summary.Headroom)
			}
			if summary.Iterations == 0 {
				t.Errorf("expected bisection iterations")
			}
			if summary.Shift() != summary.Value {
				t.Errorf("shift from zero should equal the value")
			}
		})
	}

	conservative, ok := result.Lookup(constants.ScenarioConservative)
	if !ok {
		t.Fatal("missing conservative summary")
	}
	if !conservative.Converged || conservative.Value <= 10 {
		t.Errorf("conservative break-even should lie beyond the slider, got %+v", conservative)
	}
}

func TestRunnerTargetAlreadyMet(t *testing.T) {
	runner := mustRunner(t, nil, config.OptimizerConfig{})
	p := portfolio.Demo()
	p.Target = 0

	summary, err := runner.BreakEven(context.Background(), p, scenario.Defaults()[0], 3)
	if err != nil {
		t.Fatalf("break-even failed: %v", err)
	}
	if !summary.Converged || summary.Value != -100 {
		t.Errorf("expected lowest offset to satisfy target, got %+v", summary)
	}
	if summary.Iterations != 0 || len(summary.Notes) != 1 {
		t.Errorf("expected no iterations and one note, got %+v", summary)
	}
	if summary.Shift() != -103 {
		t.Errorf("shift = %v, expected -103", summary.Shift())
	}
}

func TestRunnerUnreachableTarget(t *testing.T) {
	runner := mustRunner(t, nil, config.OptimizerConfig{Min: floatPtr(-10), Max: floatPtr(10)})
	p := portfolio.Demo()
	p.Target = 100

	result, err := runner.Run(context.Background(), p, 0)
	if err != nil {
		t.Fatalf("optimizer run failed: %v", err)
	}
	for _, summary := range result.Summaries {
		if summary.Converged {
			t.Errorf("%s should not converge", summary.Scenario)
		}
		if summary.Value != 10 {
			t.Errorf("%s should report the upper bound, got %v", summary.Scenario, summary.Value)
		}
		if len(summary.Notes) == 0 {
			t.Errorf("%s should explain the failure", summary.Scenario)
		}
	}
}

func TestRunnerProbabilityGoal(t *testing.T) {
	// Zero noise makes the probability a step from 0 to 100 exactly where the
	// weighted total reaches the target.
	sim := simulation.New(nil, simulation.Options{Sources: simulation.SharedSource(simulation.NewSequenceSource(0.5))})
	runner := mustRunner(t, sim, config.OptimizerConfig{
		Goal:      "probability",
		Min:       floatPtr(-10),
		Max:       floatPtr(10),
		Tolerance: 0.01,
	})

	summary, err := runner.BreakEven(context.Background(), portfolio.Demo(), scenario.Defaults()[0], 0)
	if err != nil {
		t.Fatalf("break-even failed: %v", err)
	}
	if summary.Goal != config.OptimizerGoalProbability || summary.Floor != 80 {
		t.Fatalf("unexpected goal settings: %+v", summary)
	}
	expected := 5 + (60-58.46)/0.67
	if !summary.Converged || summary.Value < expected-1e-6 || summary.Value > expected+0.02 {
		t.Errorf("break-even = %.4f, expected about %.4f", summary.Value, expected)
	}
	if summary.Achieved != 100 {
		t.Errorf("achieved probability = %v, expected 100", summary.Achieved)
	}
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.OptimizerConfig
	}{
		{"Inverted bounds", config.OptimizerConfig{Min: floatPtr(5), Max: floatPtr(-5)}},
		{"Unknown goal", config.OptimizerConfig{Goal: "npv"}},
		{"Probability above 100", config.OptimizerConfig{Goal: "probability", Probability: 120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(zap.NewNop(), nil, nil, tt.cfg); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}
