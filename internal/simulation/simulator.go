// Package simulation estimates the probability that a portfolio meets its
// savings target by resampling every item's confidence with uniform noise.
package simulation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/scenario"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/iwvelando/portfolio-forecast/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// cancelCheckInterval is how many trials a worker runs between context checks.
const cancelCheckInterval = 256

// Input is everything a probability estimate depends on.
type Input struct {
	Items       []portfolio.Item
	Target      float64
	Multiplier  float64
	Sensitivity float64
}

// InputFor builds an Input from a portfolio and a scenario selection.
func InputFor(p portfolio.Portfolio, def scenario.Definition, sensitivity float64) Input {
	return Input{
		Items:       p.Items,
		Target:      p.Target,
		Multiplier:  def.Multiplier,
		Sensitivity: sensitivity,
	}
}

// Distribution summarizes the simulated trial totals.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P10    float64 `json:"p10"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
}

// Result is a probability estimate.
type Result struct {
	// Probability is the share of successful trials in percent, rounded to
	// one decimal.
	Probability  float64       `json:"probability"`
	Trials       int           `json:"trials"`
	Successes    int           `json:"successes"`
	Distribution *Distribution `json:"distribution,omitempty"`
}

// Options configures a Simulator.
type Options struct {
	Trials       int
	Workers      int
	Sources      SourceFactory
	Distribution bool
}

// Simulator runs the trial loop, optionally across several goroutines.
type Simulator struct {
	logger       *zap.Logger
	trials       int
	workers      int
	sources      SourceFactory
	distribution bool
}

// New constructs a Simulator. Zero options fall back to 2000 trials, one
// worker and entropy-seeded sources.
func New(logger *zap.Logger, opts Options) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Trials <= 0 {
		opts.Trials = constants.DefaultTrials
	}
	if opts.Workers <= 0 {
		opts.Workers = constants.DefaultWorkers
	}
	if opts.Workers > opts.Trials {
		opts.Workers = opts.Trials
	}
	if opts.Sources == nil {
		opts.Sources = EntropySources()
	}
	return &Simulator{
		logger:       logger,
		trials:       opts.Trials,
		workers:      opts.Workers,
		sources:      opts.Sources,
		distribution: opts.Distribution,
	}
}

// Trials returns the fixed trial count.
func (s *Simulator) Trials() int {
	return s.trials
}

// Run estimates the probability that the input's weighted total meets its
// target. A non-positive target is met by every trial and no draws are made.
// The only error is cancellation of ctx.
func (s *Simulator) Run(ctx context.Context, in Input) (Result, error) {
	if in.Target <= 0 {
		return Result{Probability: 100, Trials: s.trials, Successes: s.trials}, nil
	}

	start := time.Now()
	var totals []float64
	if s.distribution {
		totals = make([]float64, s.trials)
	}

	successes := make([]int, s.workers)
	g, gctx := errgroup.WithContext(ctx)
	chunk := s.trials / s.workers
	for w := 0; w < s.workers; w++ {
		from := w * chunk
		to := from + chunk
		if w == s.workers-1 {
			to = s.trials
		}
		worker := w
		g.Go(func() error {
			src := s.sources(worker)
			var sink []float64
			if totals != nil {
				sink = totals[from:to]
			}
			n, err := runTrials(gctx, in, src, to-from, sink)
			successes[worker] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("simulation cancelled: %w", err)
	}

	total := 0
	for _, n := range successes {
		total += n
	}

	result := Result{
		Probability: mathutil.RoundProbability(float64(total) / float64(s.trials) * constants.PercentageMultiplier),
		Trials:      s.trials,
		Successes:   total,
	}
	if totals != nil {
		result.Distribution = summarize(totals)
	}

	s.logger.Debug("probability estimated",
		zap.String("op", "simulation.Run"),
		zap.Int("items", len(in.Items)),
		zap.Int("trials", s.trials),
		zap.Int("workers", s.workers),
		zap.Float64("probability", result.Probability),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// runTrials executes n trials drawing from src and returns how many met the
// target. When sink is non-nil each trial total is written to it.
func runTrials(ctx context.Context, in Input, src Source, n int, sink []float64) (int, error) {
	successes := 0
	for t := 0; t < n; t++ {
		if t%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return successes, err
			}
		}

		trialTotal := 0.0
		for _, item := range in.Items {
			baseAdj := portfolio.AdjustConfidence(item.Confidence, in.Sensitivity)
			variance := (src.Float64() - 0.5) * constants.NoiseSpan
			realized := mathutil.ClampConfidence(baseAdj + variance)
			trialTotal += portfolio.WeightedValue(item.Gross, realized, in.Multiplier)
		}
		if sink != nil {
			sink[t] = trialTotal
		}
		if trialTotal >= in.Target {
			successes++
		}
	}
	return successes, nil
}

func summarize(totals []float64) *Distribution {
	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)
	return &Distribution{
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		P10:    stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}
