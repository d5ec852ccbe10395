package simulation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Snapshot is an accepted probability result and the request it answers.
type Snapshot struct {
	Seq         uint64    `json:"seq"`
	Result      Result    `json:"result"`
	Sensitivity float64   `json:"sensitivity"`
	Multiplier  float64   `json:"multiplier"`
	CompletedAt time.Time `json:"completedAt"`
}

// Coordinator serializes probability requests from an interactive surface.
// Every request is tagged with a monotonically increasing sequence number and
// a finished result is kept only if no newer request was issued in the
// meantime. Superseded runs are not cancelled; their results are dropped.
type Coordinator struct {
	ctx    context.Context
	logger *zap.Logger
	sim    *Simulator

	issued   *atomic.Uint64
	accepted *atomic.Uint64

	mu     sync.RWMutex
	latest *Snapshot

	wg sync.WaitGroup
}

// NewCoordinator creates a Coordinator whose background runs use ctx.
func NewCoordinator(ctx context.Context, logger *zap.Logger, sim *Simulator) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		ctx:      ctx,
		logger:   logger,
		sim:      sim,
		issued:   atomic.NewUint64(0),
		accepted: atomic.NewUint64(0),
	}
}

// Submit starts a background run and returns its sequence number.
func (c *Coordinator) Submit(in Input) uint64 {
	seq := c.issued.Inc()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.execute(seq, in)
	}()
	return seq
}

// Compute runs synchronously under the same sequencing rules and returns the
// snapshot it produced. The snapshot is only published if it is still the
// newest request when it completes.
func (c *Coordinator) Compute(in Input) (Snapshot, error) {
	seq := c.issued.Inc()
	return c.execute(seq, in)
}

func (c *Coordinator) execute(seq uint64, in Input) (Snapshot, error) {
	result, err := c.sim.Run(c.ctx, in)
	if err != nil {
		c.logger.Warn("probability run abandoned",
			zap.String("op", "simulation.Coordinator"),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return Snapshot{}, err
	}

	snap := Snapshot{
		Seq:         seq,
		Result:      result,
		Sensitivity: in.Sensitivity,
		Multiplier:  in.Multiplier,
		CompletedAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.issued.Load() {
		c.logger.Debug("discarding stale probability result",
			zap.String("op", "simulation.Coordinator"),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.issued.Load()),
		)
		return snap, nil
	}
	c.latest = &snap
	c.accepted.Store(seq)
	return snap, nil
}

// Latest returns the most recently accepted snapshot, whether a newer request
// is still outstanding, and whether any snapshot has been accepted yet.
func (c *Coordinator) Latest() (snap Snapshot, pending bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pending = c.accepted.Load() < c.issued.Load()
	if c.latest == nil {
		return Snapshot{}, pending, false
	}
	return *c.latest, pending, true
}

// Pending reports whether the newest request has not yet been accepted.
func (c *Coordinator) Pending() bool {
	return c.accepted.Load() < c.issued.Load()
}

// Wait blocks until all background runs have finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
