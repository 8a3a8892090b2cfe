// =============================================================================
// pkg/types/types.go - Core Data Types
// =============================================================================
//
// This package contains pure data types used throughout latency-bench.
// These types have no external dependencies beyond the standard library.
//
// =============================================================================

package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultURL is the endpoint used when --url is omitted (local Stellar RPC).
	DefaultURL = "http://localhost:8000"

	// DefaultBuckets is the number of buckets used for histogram/CDF/CCDF output.
	DefaultBuckets = 20
)

// =============================================================================
// Invocation Errors
// =============================================================================

// ErrorKind classifies a failed invocation.
type ErrorKind string

const (
	// ErrorKindRPC is a JSON-RPC error object returned by the node.
	ErrorKindRPC ErrorKind = "rpc"

	// ErrorKindHTTP is an HTTP response with a 4xx or 5xx status code.
	ErrorKindHTTP ErrorKind = "http"

	// ErrorKindTransport is a failure to complete the exchange at all
	// (connection refused, timeout, unreadable body).
	ErrorKindTransport ErrorKind = "transport"
)

// InvocationError describes a call that completed with an error-shaped response.
// It is recorded in a Sample, never returned up the stack.
type InvocationError struct {
	Kind    ErrorKind `json:"kind"`
	Code    int       `json:"code,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error %d: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// =============================================================================
// Outcome
// =============================================================================

// Outcome is the result of a single invocation: either a value or an error.
//
// Value holds the raw JSON-RPC result for RPC calls, or the response text
// (as a JSON string) for route calls. Exactly one of Value and Err is set.
type Outcome struct {
	Value json.RawMessage
	Err   *InvocationError
}

// Success builds a successful outcome.
func Success(value json.RawMessage) Outcome {
	return Outcome{Value: value}
}

// Failure builds a failed outcome.
func Failure(kind ErrorKind, code int, message string) Outcome {
	return Outcome{Err: &InvocationError{Kind: kind, Code: code, Message: message}}
}

// IsError reports whether the outcome encodes a failed invocation.
func (o Outcome) IsError() bool {
	return o.Err != nil
}

// =============================================================================
// Sample
// =============================================================================

// Sample is one timed invocation. Samples are immutable once created and live
// only for the duration of one benchmark run.
type Sample struct {
	// Start is the wall-clock time the invocation began.
	Start time.Time

	// Elapsed is the time between start and completion (never negative).
	Elapsed time.Duration

	// Outcome is the response or error returned by the invocation.
	Outcome Outcome
}

// Seconds returns the elapsed time in seconds.
func (s Sample) Seconds() float64 {
	return s.Elapsed.Seconds()
}
