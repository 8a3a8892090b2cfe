package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/logging"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, "count=0 (no samples)", s.String())
}

func TestSummarizeSingleSample(t *testing.T) {
	s := Summarize([]float64{0.002})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 2*time.Millisecond, s.Min)
	assert.Equal(t, 2*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.P99)
	assert.Equal(t, time.Duration(0), s.StdDev)
}

func TestSummarizeOrdering(t *testing.T) {
	seconds := []float64{0.010, 0.001, 0.005, 0.003, 0.002, 0.004, 0.009, 0.006, 0.008, 0.007}
	original := append([]float64(nil), seconds...)

	s := Summarize(seconds)
	assert.Equal(t, 10, s.Count)
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 10*time.Millisecond, s.Max)
	assert.InDelta(t, float64(5500*time.Microsecond), float64(s.Avg), float64(time.Microsecond))
	assert.Greater(t, s.StdDev, time.Duration(0))

	assert.LessOrEqual(t, s.Min, s.P50)
	assert.LessOrEqual(t, s.P50, s.P90)
	assert.LessOrEqual(t, s.P90, s.P95)
	assert.LessOrEqual(t, s.P95, s.P99)
	assert.LessOrEqual(t, s.P99, s.Max)

	assert.Equal(t, original, seconds, "input order must be preserved")
}

func TestWritePercentiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePercentiles(&buf, []float64{0.001, 0.002, 0.003, 0.250}))

	out := buf.String()
	assert.Contains(t, out, "Percentile")
	assert.Contains(t, out, "#[Max")
}

func TestWritePercentilesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePercentiles(&buf, nil))
	assert.Equal(t, "no samples\n", buf.String())
}

func TestRunReportLogSummary(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.NewFromCore(core)

	RunReport{
		Target:    "rpc getHealth",
		Succeeded: 9,
		Failed:    1,
		Wall:      time.Second,
		Latency:   Summarize([]float64{0.001, 0.002}),
	}.LogSummary(logger)

	assert.Equal(t, 1, logs.FilterMessage("Target:           rpc getHealth").Len())
	assert.Equal(t, 1, logs.FilterMessage("  Failed:         1 (10.00%)").Len())
	assert.Equal(t, 1, logs.FilterMessage("Throughput:       10.00 calls/s").Len())
}

func TestProgressSilentForShortRuns(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewProgress(ProgressMinTotal-1, logging.NewFromCore(core), time.Now)
	for i := 0; i < ProgressMinTotal-1; i++ {
		p.Step()
	}
	assert.Equal(t, ProgressMinTotal-1, p.Done())
	assert.Zero(t, logs.Len())
}

func TestProgressReportsEveryTenth(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	core, logs := observer.New(zapcore.InfoLevel)
	p := NewProgress(200, logging.NewFromCore(core), clock)
	assert.Equal(t, time.Duration(0), p.Remaining())

	for i := 0; i < 50; i++ {
		now = now.Add(10 * time.Millisecond)
		p.Step()
	}
	// 50 calls in 500ms leaves 150 calls at the same pace.
	assert.Equal(t, 1500*time.Millisecond, p.Remaining())

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "Progress: 20/200 calls (10.00%) | elapsed 200ms | ~1.8s left", logs.All()[0].Message)

	for i := 0; i < 150; i++ {
		p.Step()
	}
	assert.Equal(t, 10, logs.Len())
	assert.Equal(t, time.Duration(0), p.Remaining())
}
