// =============================================================================
// latency-bench - Call Latency Benchmark for Stellar RPC and HTTP APIs
// =============================================================================
//
// latency-bench measures how long a remote call takes. Each run makes one
// warm-up call, which is discarded, followed by N timed calls made strictly
// one after another.
//
// USAGE:
//
//	latency-bench rpc   <iterations> <method> [args...] [flags]
//	latency-bench route <iterations> <method> <route>   [flags]
//
// EXAMPLES:
//
//	# 100 getLatestLedger calls against a local node, one time per line
//	latency-bench rpc 100 getLatestLedger
//
//	# Histogram of getTransaction latency, errors included
//	latency-bench rpc 500 getTransaction <hash> --histogram --include-errors
//
//	# HDR percentiles for an HTTP route, paced at 10 calls/sec
//	latency-bench route 1000 GET /ledgers --url https://api.example.org --percentiles --rate 10
//
// OUTPUT:
//
//	Results go to stdout. Logs and the run summary go to stderr (and to
//	--log-file / --error-file when set).
//
// EXIT CODES:
//
//	0  run completed
//	1  bad arguments, bad configuration, range error or interrupted run
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
