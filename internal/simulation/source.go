package simulation

import (
	"math/rand/v2"
	"sync"
)

// Source supplies uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// SourceFactory returns the random source a worker draws from. Each worker
// calls it once with its own index, so a factory must hand out independent
// sources when more than one worker runs.
type SourceFactory func(worker int) Source

// EntropySources seeds every worker from the runtime's entropy.
func EntropySources() SourceFactory {
	return func(int) Source {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// SeededSources gives reproducible runs: worker w draws from PCG(seed, w).
func SeededSources(seed uint64) SourceFactory {
	return func(worker int) Source {
		return rand.New(rand.NewPCG(seed, uint64(worker)))
	}
}

// SharedSource hands the same source to every worker. Only meaningful with a
// single worker.
func SharedSource(src Source) SourceFactory {
	return func(int) Source { return src }
}

// SequenceSource replays a fixed list of draws, wrapping around at the end.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
	drawn  int
}

// NewSequenceSource returns a source cycling through values. With no values
// every draw is 0.5, i.e. zero noise.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: append([]float64(nil), values...)}
}

// Float64 returns the next value in the sequence.
func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn++
	if len(s.values) == 0 {
		return 0.5
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// Drawn reports how many values have been consumed.
func (s *SequenceSource) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}
