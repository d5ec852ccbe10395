package simulation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededSimulator runs on a single worker so that every call replays the
// same draw sequence.
func seededSimulator(seed uint64, trials int) *Simulator {
	return New(nil, Options{Trials: trials, Workers: 1, Sources: SeededSources(seed)})
}

func largePortfolio(n int) portfolio.Portfolio {
	p := portfolio.Portfolio{Target: float64(n) * 6}
	for i := 0; i < n; i++ {
		p.Items = append(p.Items, portfolio.Item{
			ID:         fmt.Sprintf("APP-%04d", i),
			Name:       fmt.Sprintf("Application %d", i),
			Segment:    fmt.Sprintf("Segment %d", i%7),
			Gross:      5 + float64(i%11),
			Confidence: float64(30 + (i*13)%70),
		})
	}
	return p
}

func scenarioByKey(t testing.TB, key string) scenario.Definition {
	t.Helper()
	def, err := scenario.Default().MustLookup(key)
	require.NoError(t, err)
	return def
}

func TestProbabilityMonotonicInSensitivity(t *testing.T) {
	base := scenarioByKey(t, "Base")
	sim := seededSimulator(11, 4000)

	previous := -1.0
	for s := -10.0; s <= 10; s++ {
		result, err := sim.Run(context.Background(), InputFor(portfolio.Demo(), base, s))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Probability, previous, "probability dropped at sensitivity %+g", s)
		previous = result.Probability
	}
	assert.Greater(t, previous, 50.0, "+10 pts should clear the demo target more often than not")
}

func TestProbabilityMonotonicInTarget(t *testing.T) {
	base := scenarioByKey(t, "Base")
	sim := seededSimulator(23, 4000)

	previous := 101.0
	for target := 40.0; target <= 70; target += 2.5 {
		in := InputFor(portfolio.Demo(), base, 0)
		in.Target = target
		result, err := sim.Run(context.Background(), in)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Probability, previous, "probability rose at target %v", target)
		previous = result.Probability
	}
}

func TestScenarioOrdering(t *testing.T) {
	sim := seededSimulator(5, 4000)
	probability := func(key string) float64 {
		result, err := sim.Run(context.Background(), InputFor(portfolio.Demo(), scenarioByKey(t, key), 5))
		require.NoError(t, err)
		return result.Probability
	}

	conservative := probability("Conservative")
	base := probability("Base")
	optimistic := probability("Optimistic")
	assert.LessOrEqual(t, conservative, base)
	assert.LessOrEqual(t, base, optimistic)
}

func TestDataConsistency(t *testing.T) {
	in := InputFor(largePortfolio(50), scenarioByKey(t, "Base"), 0)
	sim := New(nil, Options{Trials: 3000, Workers: 4, Sources: SeededSources(99), Distribution: true})

	first, err := sim.Run(context.Background(), in)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := sim.Run(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again, "run %d differs from the first run", i+2)
	}
}

func TestDistributionBracketsExpectedTotal(t *testing.T) {
	def := scenarioByKey(t, "Base")
	p := largePortfolio(40)
	sim := New(nil, Options{Trials: 5000, Workers: 2, Sources: SeededSources(3), Distribution: true})

	result, err := sim.Run(context.Background(), InputFor(p, def, 0))
	require.NoError(t, err)
	require.NotNil(t, result.Distribution)

	d := result.Distribution
	expected := portfolio.Evaluate(p, def, 0).TotalWeighted
	assert.LessOrEqual(t, d.Min, d.P10)
	assert.LessOrEqual(t, d.P10, d.P50)
	assert.LessOrEqual(t, d.P50, d.P90)
	assert.LessOrEqual(t, d.P90, d.Max)
	// Noise is symmetric except where clamping bites, so the mean stays close
	// to the deterministic total.
	assert.InDelta(t, expected, d.Mean, expected*0.02)
}

func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	def := scenarioByKey(t, "Base")
	sizes := []int{5, 100, 1000}
	for _, n := range sizes {
		in := InputFor(largePortfolio(n), def, 0)
		for _, workers := range []int{1, 4} {
			sim := New(nil, Options{Trials: 2000, Workers: workers, Sources: SeededSources(1)})
			start := time.Now()
			_, err := sim.Run(context.Background(), in)
			require.NoError(t, err)
			t.Logf("%d items, %d workers: %v", n, workers, time.Since(start))
		}
	}
}

func benchmarkRun(b *testing.B, items, workers int) {
	in := InputFor(largePortfolio(items), scenarioByKey(b, "Base"), 0)
	sim := New(nil, Options{Trials: 2000, Workers: workers, Sources: SeededSources(1)})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sim.Run(context.Background(), in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunDemo(b *testing.B)             { benchmarkRun(b, 5, 1) }
func BenchmarkRunLargeSingleWorker(b *testing.B) { benchmarkRun(b, 500, 1) }
func BenchmarkRunLargeFourWorkers(b *testing.B)  { benchmarkRun(b, 500, 4) }
