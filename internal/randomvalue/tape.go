package randomvalue

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/born-ml/aadmc/internal/metrics"
	"github.com/born-ml/aadmc/internal/parallel"
)

// Config controls numerical and runtime behavior of a tape.
type Config struct {
	// HFactor scales the call spread of Choose: h = HFactor * stddev(condition).
	HFactor float64
	// Tolerance within which samples are treated as equal when collapsing
	// a value to a deterministic one.
	Tolerance float64
	// Parallel configures elementwise kernels and reductions.
	Parallel parallel.Config
	// Logger receives debug records for choose and reverse sweeps. Nil discards.
	Logger *slog.Logger
	// Metrics is updated on node creation and sweeps. Nil disables it.
	Metrics *metrics.Collector
}

// DefaultConfig returns the settings used by the reference pricing runs.
func DefaultConfig() Config {
	return Config{
		HFactor:   0.005,
		Tolerance: 1e-8,
		Parallel:  parallel.DefaultConfig(),
	}
}

// Tape owns every value of one computation and hands out their ids.
//
// Ids start at 1 and strictly increase in creation order. A value can only
// be built from values that already exist, so every operand id is smaller
// than the id of its result; the reverse sweep relies on this ordering.
// A Tape is safe for concurrent use.
type Tape struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Collector

	mu    sync.RWMutex
	nodes []*Value // nodes[id-1]

	factory *Factory
}

// NewTape creates an empty tape.
func NewTape(cfg Config) *Tape {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &Tape{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "randomvalue")),
		metrics: cfg.Metrics,
		nodes:   make([]*Value, 0, 64),
	}
	t.factory = &Factory{tape: t}
	return t
}

// Config returns the tape configuration.
func (t *Tape) Config() Config {
	return t.cfg
}

// Factory returns the leaf constructor bound to this tape.
func (t *Tape) Factory() *Factory {
	return t.factory
}

// Len returns the number of values recorded so far.
func (t *Tape) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// node returns the value with the given id, or nil if no such value exists.
func (t *Tape) node(id int64) *Value {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 1 || id > int64(len(t.nodes)) {
		return nil
	}
	return t.nodes[id-1]
}

// record assigns the next id to v and appends it to the arena.
func (t *Tape) record(v *Value) *Value {
	t.mu.Lock()
	v.id = int64(len(t.nodes)) + 1
	t.nodes = append(t.nodes, v)
	t.mu.Unlock()

	t.metrics.NodeCreated(v.op.String())
	return v
}

// newValue collapses samples and records the result. Dependencies must
// already be recorded on t.
func (t *Tape) newValue(samples []float64, op Operation, differentiable bool, deps ...*Value) *Value {
	v := &Value{
		tape:           t,
		samples:        t.collapse(samples),
		op:             op,
		differentiable: differentiable,
		h:              nanH,
	}
	if len(deps) > 0 {
		v.deps = make([]int64, len(deps))
		for i, d := range deps {
			v.deps[i] = d.id
		}
	}
	return t.record(v)
}

// collapse reduces samples to a single element when all of them agree
// within the tape tolerance.
func (t *Tape) collapse(samples []float64) []float64 {
	if len(samples) <= 1 {
		return samples
	}
	first := samples[0]
	for _, s := range samples[1:] {
		if !(math.Abs(s-first) <= t.cfg.Tolerance) {
			return samples
		}
	}
	return []float64{first}
}
