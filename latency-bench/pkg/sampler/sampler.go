// =============================================================================
// pkg/sampler/sampler.go - Timed Invocation Loop
// =============================================================================
//
// The sampler performs one warm-up invocation (discarded) followed by N timed
// invocations of an Invoker, strictly one after another.
//
// A failed invocation never stops the loop: its outcome carries the error and
// the sample is recorded like any other. BenchmarkTimes decides later whether
// error samples count towards the latency statistics.
//
// PACING:
//
//	With a non-zero rate, the sampler waits on a token-bucket limiter between
//	calls. The wait happens before the start timestamp is taken, so it is never
//	part of a sample's elapsed time.
//
// =============================================================================

package sampler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/interfaces"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/logging"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/stats"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

// =============================================================================
// Sampler
// =============================================================================

// Sampler runs the warm-up + timed invocation loop.
type Sampler struct {
	clock   func() time.Time
	limiter *rate.Limiter
	logger  interfaces.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock overrides the time source (time.Now by default).
func WithClock(clock func() time.Time) Option {
	return func(s *Sampler) {
		s.clock = clock
	}
}

// WithRate paces invocations to at most perSecond calls per second.
// Zero or negative disables pacing.
func WithRate(perSecond float64) Option {
	return func(s *Sampler) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			s.limiter = nil
		}
	}
}

// WithLogger sets the logger for warm-up and progress messages.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// New creates a Sampler.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		clock:  time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one warm-up call and then iterations timed calls.
//
// The returned slice has exactly iterations entries unless the context is
// cancelled, in which case the samples collected so far are returned together
// with the context error.
func (s *Sampler) Run(ctx context.Context, inv interfaces.Invoker, iterations int) ([]types.Sample, error) {
	if iterations < 0 {
		return nil, errors.Errorf("iterations must be >= 0, got %d", iterations)
	}

	s.logger.Info("Warm-up: %s", inv.Describe())
	if warm := inv.Invoke(ctx); warm.IsError() {
		s.logger.Error("Warm-up call failed: %v", warm.Err)
	}

	samples := make([]types.Sample, 0, iterations)
	progress := stats.NewProgress(iterations, s.logger, s.clock)

	for i := 0; i < iterations; i++ {
		if err := s.wait(ctx); err != nil {
			return samples, err
		}

		start := s.clock()
		outcome := inv.Invoke(ctx)
		end := s.clock()

		elapsed := end.Sub(start)
		if elapsed < 0 {
			elapsed = 0
		}
		samples = append(samples, types.Sample{
			Start:   start,
			Elapsed: elapsed,
			Outcome: outcome,
		})

		progress.Step()
	}

	return samples, nil
}

func (s *Sampler) wait(ctx context.Context) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "pacing wait interrupted")
		}
		return nil
	}
	return ctx.Err()
}

// =============================================================================
// Sample Filtering
// =============================================================================

// BenchmarkTimes returns the elapsed seconds of each sample in order.
// Error samples are skipped when ignoreErrors is true.
func BenchmarkTimes(samples []types.Sample, ignoreErrors bool) []float64 {
	times := make([]float64, 0, len(samples))
	for _, s := range samples {
		if ignoreErrors && s.Outcome.IsError() {
			continue
		}
		times = append(times, s.Seconds())
	}
	return times
}

// CountOutcomes returns the number of successful and failed samples.
func CountOutcomes(samples []types.Sample) (ok, failed int) {
	for _, s := range samples {
		if s.Outcome.IsError() {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}
