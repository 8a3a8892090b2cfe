// =============================================================================
// pkg/interfaces/interfaces.go - Core Interfaces
// =============================================================================
//
// This package defines the interfaces shared across latency-bench.
// The sampler only knows about Invoker; the RPC and route invokers are
// interchangeable behind it, and tests inject fakes.
//
// =============================================================================

package interfaces

import (
	"context"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

// =============================================================================
// Invoker Interface
// =============================================================================

// Invoker makes exactly one call against the benchmark target.
//
// Invoke must not return early on failure: every error (error-shaped response,
// bad status code, transport failure) is encoded in the returned Outcome so the
// sampler can keep going. The sampler measures the elapsed time around Invoke.
type Invoker interface {
	// Invoke performs one call and returns its outcome.
	Invoke(ctx context.Context) types.Outcome

	// Describe returns a short human-readable description of the call,
	// e.g. "rpc getLatestLedger" or "route GET /health".
	Describe() string
}

// =============================================================================
// Logger Interface
// =============================================================================

// Logger defines the logging interface used throughout latency-bench.
type Logger interface {
	// Info logs an informational message.
	Info(format string, args ...interface{})

	// Error logs an error message (also copied to the error file, if any).
	Error(format string, args ...interface{})

	// Separator logs a visual separator line.
	Separator()

	// WithScope returns a child logger that prefixes messages with scope.
	WithScope(scope string) Logger

	// Sync flushes buffered log entries.
	Sync()

	// Close flushes and releases any log files.
	Close()
}
