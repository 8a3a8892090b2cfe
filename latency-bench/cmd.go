// cmd.go
// =============================================================================
// Command Tree and Run Flow
// =============================================================================
//
// latency-bench
// ├── rpc   <iterations> <method> [args...]
// └── route <iterations> <method> <route>
//
// Both subcommands build an Invoker and hand it to runBenchmark, which owns
// logging, sampling, the summary and result output.
//
// =============================================================================

package main

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/distribution"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/interfaces"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/invoke"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/logging"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/output"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/sampler"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/stats"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

// benchOptions holds raw flag values. They only take effect through
// applyFlags, after the config file has been loaded.
type benchOptions struct {
	configPath string

	// Common
	url           string
	buckets       int
	minVal        float64
	maxVal        float64
	percentiles   bool
	rate          float64
	timeout       time.Duration
	includeErrors bool
	fullResponses bool
	histogram     bool
	cdf           bool
	ccdf          bool

	// Logging
	logLevel  string
	logFile   string
	errorFile string

	// Route only
	headers    []string
	body       string
	compressed bool
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &benchOptions{}

	root := &cobra.Command{
		Use:   "latency-bench",
		Short: "Measure call latency of a Stellar RPC node or HTTP API",
		Long: "latency-bench makes one warm-up call followed by N timed calls and reports\n" +
			"the elapsed times, a histogram/CDF/CCDF, or an HDR percentile table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errors.New("no subcommand given (use rpc or route)")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "TOML config file")
	pf.StringVar(&opts.url, "url", types.DefaultURL, "node or API base URL")
	pf.IntVar(&opts.buckets, "buckets", types.DefaultBuckets, "number of distribution buckets")
	pf.Float64Var(&opts.minVal, "min", 0, "histogram lower bound in seconds (default: fastest sample)")
	pf.Float64Var(&opts.maxVal, "max", 0, "histogram upper bound in seconds (default: slowest sample)")
	pf.BoolVar(&opts.histogram, "histogram", false, "print a histogram of the times")
	pf.BoolVar(&opts.cdf, "cdf", false, "print the cumulative distribution of the times")
	pf.BoolVar(&opts.ccdf, "ccdf", false, "print the complementary cumulative distribution of the times")
	pf.BoolVar(&opts.percentiles, "percentiles", false, "print an HDR percentile table (milliseconds)")
	pf.BoolVar(&opts.fullResponses, "full-responses", false, "print every response as a JSON line")
	pf.BoolVar(&opts.includeErrors, "include-errors", false, "count failed calls in the timing output")
	pf.Float64Var(&opts.rate, "rate", 0, "maximum calls per second (0 = unpaced)")
	pf.DurationVar(&opts.timeout, "timeout", DefaultTimeout, "per-call HTTP timeout")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")
	pf.StringVar(&opts.errorFile, "error-file", "", "write error logs to this file")
	root.MarkFlagsMutuallyExclusive("histogram", "cdf", "ccdf")

	root.AddCommand(newRPCCmd(opts), newRouteCmd(opts))
	return root
}

func newRPCCmd(opts *benchOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rpc <iterations> <method> [args...]",
		Short: "Benchmark a JSON-RPC method",
		Long: "Benchmark a JSON-RPC method. Arguments are coerced to integers, then JSON,\n" +
			"then strings. name=value binds a named parameter. Arguments starting\n" +
			"with '-' (negative numbers) must follow a '--' separator.\n\n" +
			"  latency-bench rpc 100 getLatestLedger\n" +
			"  latency-bench rpc 50 getLedgers 52000000 'pagination={\"limit\":5}'\n" +
			"  latency-bench rpc 10 getEvents --url http://localhost:8000 -- 52000000 -1",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, err := parseIterations(args[0])
			if err != nil {
				return err
			}
			config, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}

			registry := invoke.NewMethodRegistry(invoke.StellarRPCMethods, config.Methods)
			call, err := registry.Prepare(args[1], args[2:])
			if err != nil {
				return err
			}

			inv := call.Invoker(config.URL, &http.Client{Timeout: config.Timeout})
			defer inv.Close()

			return runBenchmark(cmd, opts, config, inv, benchRun{
				target:     config.URL + " " + call.Method,
				iterations: iterations,
				runID:      uuid.NewString(),
			})
		},
	}
}

func newRouteCmd(opts *benchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route <iterations> <method> <route>",
		Short: "Benchmark an HTTP route",
		Long: "Benchmark an HTTP route. Responses with status >= 400 are recorded as errors.\n\n" +
			"  latency-bench route 100 GET /ledgers/latest --url https://api.example.org\n" +
			"  latency-bench route 20 POST /query --body @query.json --headers 'Content-Type: application/json'",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, err := parseIterations(args[0])
			if err != nil {
				return err
			}
			config, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}

			headers, err := invoke.ParseHeaders(config.Route.Headers)
			if err != nil {
				return err
			}
			body, err := invoke.LoadBody(opts.body)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			inv, err := invoke.NewRouteInvoker(&http.Client{Timeout: config.Timeout}, invoke.RouteRequest{
				BaseURL:    config.URL,
				Method:     args[1],
				Route:      args[2],
				Headers:    headers,
				Body:       body,
				Compressed: config.Route.Compressed,
				RunID:      runID,
			})
			if err != nil {
				return err
			}

			return runBenchmark(cmd, opts, config, inv, benchRun{
				target:     inv.Target(),
				iterations: iterations,
				runID:      runID,
			})
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.headers, "headers", nil, `request header "Key: Value" (repeatable)`)
	f.StringVar(&opts.body, "body", "", "request body, or @file to read it from a file")
	f.BoolVar(&opts.compressed, "compressed", false, "request zstd/gzip responses and decode them")
	return cmd
}

func parseIterations(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Errorf("iterations must be an integer, got %q", arg)
	}
	if n < 0 {
		return 0, errors.Errorf("iterations must be >= 0, got %d", n)
	}
	return n, nil
}

func resolveConfig(cmd *cobra.Command, opts *benchOptions) (*Config, error) {
	config, err := LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, opts, config)
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return config, nil
}

// =============================================================================
// Run Flow
// =============================================================================

type benchRun struct {
	target     string
	iterations int
	runID      string
}

func runBenchmark(cmd *cobra.Command, opts *benchOptions, config *Config, inv interfaces.Invoker, run benchRun) error {
	logger, err := logging.New(logging.Options{
		Level:     opts.logLevel,
		LogPath:   opts.logFile,
		ErrorPath: opts.errorFile,
		Console:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer logger.Close()

	log := logger.WithScope("BENCH")
	log.Info("Run %s: %d calls of %s", run.runID, run.iterations, inv.Describe())

	s := sampler.New(
		sampler.WithRate(config.Rate),
		sampler.WithLogger(logger.WithScope("SAMPLER")),
	)

	start := time.Now()
	samples, err := s.Run(cmd.Context(), inv, run.iterations)
	if err != nil {
		return errors.Wrapf(err, "run stopped after %d of %d calls", len(samples), run.iterations)
	}

	succeeded, failed := sampler.CountOutcomes(samples)
	times := sampler.BenchmarkTimes(samples, !config.IncludeErrors)
	stats.RunReport{
		Target:    run.target,
		Succeeded: succeeded,
		Failed:    failed,
		Wall:      time.Since(start),
		Latency:   stats.Summarize(times),
	}.LogSummary(log)

	return writeResults(cmd, opts, config, run.runID, samples, times)
}

// writeResults prints exactly one result format, in order of precedence:
// JSON records, distribution, percentile table, plain times.
func writeResults(cmd *cobra.Command, opts *benchOptions, config *Config, runID string, samples []types.Sample, times []float64) error {
	w := cmd.OutOrStdout()

	if opts.fullResponses {
		return output.WriteRecords(w, runID, samples)
	}
	if kind, ok := distributionKind(opts); ok {
		return writeDistribution(cmd, w, opts, config, kind, times)
	}
	if opts.percentiles {
		return stats.WritePercentiles(w, times)
	}
	return output.WriteTimes(w, times)
}

func distributionKind(opts *benchOptions) (distribution.Kind, bool) {
	switch {
	case opts.histogram:
		return distribution.KindHistogram, true
	case opts.cdf:
		return distribution.KindCDF, true
	case opts.ccdf:
		return distribution.KindCCDF, true
	}
	return "", false
}

func writeDistribution(cmd *cobra.Command, w io.Writer, opts *benchOptions, config *Config, kind distribution.Kind, times []float64) error {
	minval, maxval := distribution.Bounds(times)
	if cmd.Flags().Changed("min") {
		minval = opts.minVal
	}
	if cmd.Flags().Changed("max") {
		maxval = opts.maxVal
	}

	d, err := distribution.Build(kind, times, minval, maxval, config.Buckets)
	if err != nil {
		return err
	}
	return output.WriteDistribution(w, d)
}
