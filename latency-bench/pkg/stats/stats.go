// =============================================================================
// pkg/stats/stats.go - Latency Summaries, Percentile Reports, Progress
// =============================================================================
//
// This package provides statistical utilities for reporting a benchmark run:
//   - Latency summary (min/max/avg/stddev and p50, p90, p95, p99)
//   - HDR percentile distribution report
//   - Progress lines every tenth of a long run
//
// All latency inputs are in seconds, matching sampler.BenchmarkTimes.
//
// =============================================================================

package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"

	"github.com/karthikiyer56/rpc-latency-bench/helpers"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/interfaces"
)

// =============================================================================
// LatencySummary
// =============================================================================

// LatencySummary contains computed latency statistics.
type LatencySummary struct {
	Count  int           // Number of samples
	Min    time.Duration // Minimum latency
	Max    time.Duration // Maximum latency
	Avg    time.Duration // Average (mean) latency
	StdDev time.Duration // Standard deviation
	P50    time.Duration // 50th percentile (median)
	P90    time.Duration // 90th percentile
	P95    time.Duration // 95th percentile
	P99    time.Duration // 99th percentile
}

// Summarize computes statistics from latency samples given in seconds.
// If there are no samples, returns a zero-value summary.
func Summarize(seconds []float64) LatencySummary {
	n := len(seconds)
	if n == 0 {
		return LatencySummary{}
	}

	// Sort a copy so the caller's sample order is preserved.
	xs := make([]float64, n)
	copy(xs, seconds)
	sample := stats.Sample{Xs: xs}
	sample.Sort()

	lo, hi := sample.Bounds()
	stdDev := 0.0
	if n > 1 {
		stdDev = sample.StdDev()
	}

	return LatencySummary{
		Count:  n,
		Min:    toDuration(lo),
		Max:    toDuration(hi),
		Avg:    toDuration(sample.Mean()),
		StdDev: toDuration(stdDev),
		P50:    toDuration(sample.Quantile(0.50)),
		P90:    toDuration(sample.Quantile(0.90)),
		P95:    toDuration(sample.Quantile(0.95)),
		P99:    toDuration(sample.Quantile(0.99)),
	}
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// String returns a formatted string of the latency summary.
func (s LatencySummary) String() string {
	if s.Count == 0 {
		return "count=0 (no samples)"
	}
	return fmt.Sprintf("count=%d min=%s max=%s avg=%s±%s p50=%s p90=%s p95=%s p99=%s",
		s.Count,
		helpers.FormatLatency(s.Min), helpers.FormatLatency(s.Max),
		helpers.FormatLatency(s.Avg), helpers.FormatLatency(s.StdDev),
		helpers.FormatLatency(s.P50), helpers.FormatLatency(s.P90),
		helpers.FormatLatency(s.P95), helpers.FormatLatency(s.P99))
}

// =============================================================================
// RunReport - Logged Summary of One Run
// =============================================================================

// RunReport describes a finished benchmark run.
type RunReport struct {
	Target    string
	Succeeded int
	Failed    int
	Wall      time.Duration
	Latency   LatencySummary
}

// LogSummary logs the report in the same block layout as the other tools.
func (r RunReport) LogSummary(logger interfaces.Logger) {
	total := r.Succeeded + r.Failed

	logger.Separator()
	logger.Info("                    BENCHMARK SUMMARY")
	logger.Separator()
	logger.Info("Target:           %s", r.Target)
	logger.Info("Calls:            %s", helpers.FormatCount(total))
	if total > 0 {
		logger.Info("  Succeeded:      %s (%s)", helpers.FormatCount(r.Succeeded), helpers.FormatShare(r.Succeeded, total))
		logger.Info("  Failed:         %s (%s)", helpers.FormatCount(r.Failed), helpers.FormatShare(r.Failed, total))
	}
	logger.Info("Wall time:        %s", helpers.FormatLatency(r.Wall))
	logger.Info("Throughput:       %s", helpers.FormatThroughput(total, r.Wall))
	logger.Info("Latency:          %s", r.Latency.String())
	logger.Separator()
}

// =============================================================================
// HDR Percentile Report
// =============================================================================

const (
	// hdrSignificantFigures is the value precision kept by the HDR histogram.
	hdrSignificantFigures = 3

	// hdrTicksPerHalfDistance controls the number of percentile rows printed.
	hdrTicksPerHalfDistance = 5

	// hdrMicrosPerMilli scales recorded microseconds to printed milliseconds.
	hdrMicrosPerMilli = 1000.0
)

// WritePercentiles writes an HDR percentile distribution of the latencies
// (seconds in, milliseconds out) to w.
func WritePercentiles(w io.Writer, seconds []float64) error {
	if len(seconds) == 0 {
		_, err := fmt.Fprintln(w, "no samples")
		return err
	}

	micros := make([]int64, len(seconds))
	highest := int64(2)
	for i, s := range seconds {
		micros[i] = int64(math.Ceil(s * 1e6))
		if micros[i] > highest {
			highest = micros[i]
		}
	}

	hist := hdrhistogram.New(1, highest, hdrSignificantFigures)
	for _, v := range micros {
		if err := hist.RecordValue(v); err != nil {
			return errors.Wrapf(err, "failed to record %dµs", v)
		}
	}

	if _, err := hist.PercentilesPrint(w, hdrTicksPerHalfDistance, hdrMicrosPerMilli); err != nil {
		return errors.Wrap(err, "failed to print percentiles")
	}
	return nil
}

// =============================================================================
// Progress - Periodic Run Progress
// =============================================================================

// ProgressMinTotal is the run length from which progress is reported.
const ProgressMinTotal = 100

// Progress logs a line each time another tenth of a run completes.
// Runs shorter than ProgressMinTotal stay silent. Not safe for concurrent use.
type Progress struct {
	total   int
	done    int
	every   int
	started time.Time
	now     func() time.Time
	logger  interfaces.Logger
}

// NewProgress starts tracking a run of total calls. now is the time source
// used for elapsed and remaining time.
func NewProgress(total int, logger interfaces.Logger, now func() time.Time) *Progress {
	p := &Progress{
		total:   total,
		started: now(),
		now:     now,
		logger:  logger,
	}
	if total >= ProgressMinTotal {
		p.every = total / 10
	}
	return p
}

// Done returns the number of finished calls.
func (p *Progress) Done() int {
	return p.done
}

// Step records one finished call.
func (p *Progress) Step() {
	p.done++
	if p.every > 0 && p.done%p.every == 0 {
		p.report()
	}
}

// Remaining estimates the time left from the average pace so far.
// It is zero until a call has finished, and once the run is complete.
func (p *Progress) Remaining() time.Duration {
	left := p.total - p.done
	elapsed := p.now().Sub(p.started)
	if p.done == 0 || left <= 0 || elapsed <= 0 {
		return 0
	}
	return elapsed / time.Duration(p.done) * time.Duration(left)
}

func (p *Progress) report() {
	p.logger.Info("Progress: %s/%s calls (%s) | elapsed %s | ~%s left",
		helpers.FormatCount(p.done), helpers.FormatCount(p.total),
		helpers.FormatShare(p.done, p.total),
		helpers.FormatLatency(p.now().Sub(p.started)), helpers.FormatLatency(p.Remaining()))
}
