package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

// ctxCheckInterval is how many inputs a worker hashes between cancellation
// checks.
const ctxCheckInterval = 1024

// Options control a benchmark run.
type Options struct {
	Iterations int // length of the mixed workload; 0 means DefaultIterations
	Workers    int // goroutines per scenario; 0 means 1
	Scenarios  []Scenario
	Logger     log.Logger
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario string         `json:"scenario"`
	Ops      int            `json:"ops"`
	Duration time.Duration  `json:"duration_ns"`
	NsPerOp  float64        `json:"ns_per_op"`
	Stats    keccache.Stats `json:"stats"`
}

// Report is a full benchmark run.
type Report struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Capacity  uint64         `json:"capacity"`
	MaxKeyLen int            `json:"max_key_len"`
	Workers   int            `json:"workers"`
	Results   []Result       `json:"results"`
	Stats     keccache.Stats `json:"stats"`
	Entries   int            `json:"entries"`
	Entries20 int            `json:"entries_20"`
	Entries32 int            `json:"entries_32"`
}

// Run executes the scenarios in order against c. Results stay meaningful only
// if nothing else uses c meanwhile.
func Run(ctx context.Context, c *keccache.Cache, ds Dataset, opts Options) (Report, error) {
	if opts.Iterations == 0 {
		opts.Iterations = DefaultIterations
	}

	if opts.Workers == 0 {
		opts.Workers = 1
	}

	if opts.Workers < 0 {
		return Report{}, fmt.Errorf("%w: %d", ErrInvalidWorkers, opts.Workers)
	}

	err := CheckSizes(len(ds.Addresses), len(ds.Words), opts.Iterations)
	if err != nil {
		return Report{}, err
	}

	if opts.Scenarios == nil {
		opts.Scenarios = Scenarios()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Report{}, fmt.Errorf("generate run id: %w", err)
	}

	report := Report{
		RunID:     id.String(),
		StartedAt: time.Now().UTC(),
		Capacity:  c.Capacity(),
		MaxKeyLen: c.MaxKeyLen(),
		Workers:   opts.Workers,
	}

	level.Info(logger).Log("msg", "starting run", "run_id", report.RunID, "scenarios", len(opts.Scenarios),
		"workers", opts.Workers, "capacity", report.Capacity)

	for _, s := range opts.Scenarios {
		inputs := s.Inputs(ds, opts.Iterations)

		if s.Clear {
			c.Clear()
		}

		before := c.Stats()

		elapsed, err := hashAll(ctx, c, inputs, opts.Workers)
		if err != nil {
			return Report{}, fmt.Errorf("scenario %s: %w", s.Name, err)
		}

		res := Result{
			Scenario: s.Name,
			Ops:      len(inputs),
			Duration: elapsed,
			Stats:    sub(c.Stats(), before),
		}

		if res.Ops > 0 {
			res.NsPerOp = float64(elapsed.Nanoseconds()) / float64(res.Ops)
		}

		level.Info(logger).Log("msg", "scenario done", "scenario", s.Name, "ops", res.Ops,
			"elapsed", elapsed, "ns_per_op", fmt.Sprintf("%.1f", res.NsPerOp),
			"hits", res.Stats.Hits, "misses", res.Stats.Misses)

		report.Results = append(report.Results, res)
	}

	report.Stats = c.Stats()
	report.Entries = c.Len()
	report.Entries20 = c.LenByKeyLen(20)
	report.Entries32 = c.LenByKeyLen(32)

	return report, nil
}

// hashAll splits inputs round-robin across workers and hashes them all.
func hashAll(ctx context.Context, c *keccache.Cache, inputs [][]byte, workers int) (time.Duration, error) {
	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()

	for w := range workers {
		g.Go(func() error {
			for i := w; i < len(inputs); i += workers {
				if (i/workers)%ctxCheckInterval == 0 && ctx.Err() != nil {
					return ctx.Err()
				}

				_ = c.Compute(inputs[i])
			}

			return nil
		})
	}

	err := g.Wait()

	return time.Since(start), err
}

// sub returns the per-field difference after - before.
func sub(after, before keccache.Stats) keccache.Stats {
	return keccache.Stats{
		Hits:      after.Hits - before.Hits,
		Misses:    after.Misses - before.Misses,
		Writes:    after.Writes - before.Writes,
		Evictions: after.Evictions - before.Evictions,
		Dropped:   after.Dropped - before.Dropped,
		Empty:     after.Empty - before.Empty,
		Oversized: after.Oversized - before.Oversized,
		Hits20:    after.Hits20 - before.Hits20,
		Hits32:    after.Hits32 - before.Hits32,
		Misses20:  after.Misses20 - before.Misses20,
		Misses32:  after.Misses32 - before.Misses32,
	}
}
