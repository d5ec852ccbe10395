package optimizer

import (
	"context"
	"fmt"

	"github.com/iwvelando/portfolio-forecast/internal/config"
	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/scenario"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
	"github.com/iwvelando/portfolio-forecast/pkg/format"
	"github.com/iwvelando/portfolio-forecast/pkg/mathutil"
	"github.com/iwvelando/portfolio-forecast/pkg/optimization"
	"go.uber.org/zap"
)

// defaultSeed keeps probability searches repeatable when no simulator is supplied.
const defaultSeed = 1

type Runner struct {
	logger   *zap.Logger
	registry *scenario.Registry
	sim      *simulation.Simulator
	cfg      config.OptimizerConfig
}

type evaluation struct {
	value    float64
	achieved float64
	floor    float64
}

func (e evaluation) feasible() bool {
	return e.achieved >= e.floor
}

func (e evaluation) headroom() float64 {
	return e.achieved - e.floor
}

// Result holds one break-even summary per scenario, in registry order.
type Result struct {
	Summaries []optimization.Summary
}

// Empty indicates whether any summaries were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Lookup returns the summary for a scenario key.
func (r Result) Lookup(key string) (optimization.Summary, bool) {
	for _, s := range r.Summaries {
		if s.Scenario == key {
			return s, true
		}
	}
	return optimization.Summary{}, false
}

// NewRunner constructs a Runner. A nil registry uses the built-in scenarios.
// Probability goals need a simulator; without one a seeded simulator is
// created so repeated searches agree.
func NewRunner(logger *zap.Logger, registry *scenario.Registry, sim *simulation.Simulator, cfg config.OptimizerConfig) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid optimizer configuration: %w", err)
	}
	if registry == nil {
		registry = scenario.Default()
	}
	if sim == nil && cfg.Goal == config.OptimizerGoalProbability {
		sim = simulation.New(logger, simulation.Options{Sources: simulation.SeededSources(defaultSeed)})
	}
	return &Runner{logger: logger, registry: registry, sim: sim, cfg: cfg}, nil
}

// Run searches every registered scenario. current is the sensitivity the user
// has selected and is reported as each summary's starting point.
func (r *Runner) Run(ctx context.Context, p portfolio.Portfolio, current float64) (*Result, error) {
	result := &Result{}
	for _, def := range r.registry.All() {
		summary, err := r.BreakEven(ctx, p, def, current)
		if err != nil {
			return nil, err
		}
		result.Summaries = append(result.Summaries, summary)

		r.logger.Info("optimizer located break-even sensitivity",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", def.Key),
			zap.String("goal", summary.Goal),
			zap.Float64("floor", summary.Floor),
			zap.Float64("original", summary.Original),
			zap.Float64("value", summary.Value),
			zap.Float64("achieved", summary.Achieved),
			zap.Float64("headroom", summary.Headroom),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}
	return result, nil
}

// BreakEven finds the smallest sensitivity offset within the configured
// bounds at which the scenario meets its goal.
func (r *Runner) BreakEven(ctx context.Context, p portfolio.Portfolio, def scenario.Definition, current float64) (optimization.Summary, error) {
	minVal, maxVal := r.cfg.Bounds()

	lowerEval, err := r.evaluate(ctx, p, def, minVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(ctx, p, def, maxVal)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		Scenario: def.Key,
		Goal:     r.cfg.Goal,
		Floor:    lowerEval.floor,
		Original: current,
	}

	if lowerEval.feasible() {
		finish(&summary, lowerEval, 0, true)
		summary.Notes = []string{fmt.Sprintf("%s already met at the lowest offset %s", r.goalLabel(lowerEval.floor), formatOffset(minVal))}
		return summary, nil
	}
	if !upperEval.feasible() {
		finish(&summary, upperEval, 0, false)
		summary.Notes = []string{fmt.Sprintf("unable to reach %s within offsets %s to %s", r.goalLabel(upperEval.floor), formatOffset(minVal), formatOffset(maxVal))}
		return summary, nil
	}

	iterations := 0
	finalEval := upperEval
	lower := lowerEval.value
	upper := upperEval.value
	for iterations < r.cfg.MaxIterations && !mathutil.WithinTolerance(upper, lower, r.cfg.Tolerance) {
		mid := lower + (upper-lower)/2
		evalMid, err := r.evaluate(ctx, p, def, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			finalEval = evalMid
			if evalMid.value == upper {
				break
			}
			upper = evalMid.value
		} else {
			if evalMid.value == lower {
				break
			}
			lower = evalMid.value
		}
	}

	finish(&summary, finalEval, iterations, true)
	if iterations >= r.cfg.MaxIterations && !mathutil.WithinTolerance(upper, lower, r.cfg.Tolerance) {
		summary.Notes = []string{fmt.Sprintf("stopped after %d iterations with the interval still %.4f wide", iterations, upper-lower)}
	}
	return summary, nil
}

func finish(summary *optimization.Summary, eval evaluation, iterations int, converged bool) {
	summary.Value = eval.value
	summary.ValueDisplay = formatOffset(eval.value)
	summary.Achieved = eval.achieved
	summary.Headroom = eval.headroom()
	summary.Iterations = iterations
	summary.Converged = converged
}

func (r *Runner) evaluate(ctx context.Context, p portfolio.Portfolio, def scenario.Definition, sensitivity float64) (evaluation, error) {
	if r.cfg.Goal == config.OptimizerGoalProbability {
		result, err := r.sim.Run(ctx, simulation.InputFor(p, def, sensitivity))
		if err != nil {
			return evaluation{}, fmt.Errorf("optimizer probability evaluation failed: %w", err)
		}
		return evaluation{value: sensitivity, achieved: result.Probability, floor: r.cfg.Probability}, nil
	}
	return evaluation{
		value:    sensitivity,
		achieved: portfolio.TotalWeighted(p, def.Multiplier, sensitivity),
		floor:    p.Target,
	}, nil
}

func (r *Runner) goalLabel(floor float64) string {
	if r.cfg.Goal == config.OptimizerGoalProbability {
		return "probability " + format.Percent(floor)
	}
	return "target " + format.Millions(floor)
}

func formatOffset(value float64) string {
	return fmt.Sprintf("%+.2f pts", mathutil.Round(value))
}
