// config.go
// =============================================================================
// Configuration Management for latency-bench
// =============================================================================
//
// This module handles:
// - TOML configuration file parsing
// - Merging command-line flags over file values
// - Configuration validation
//
// Precedence is defaults -> TOML file -> flags. Only flags the user actually
// set on the command line override the file.
//
// EXAMPLE:
//
//	url            = "https://rpc.example.org"
//	buckets        = 30
//	timeout        = "10s"
//	rate           = 20.0
//	include_errors = false
//
//	[route]
//	headers    = ["Accept: application/json"]
//	compressed = true
//
//	[[methods]]
//	name   = "getLedgerEntry"
//	params = ["key", "xdrFormat"]
//
// =============================================================================

package main

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/invoke"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

// DefaultTimeout bounds a single HTTP exchange.
const DefaultTimeout = 30 * time.Second

// =============================================================================
// TOML Configuration Structures
// =============================================================================

// Config is the complete configuration for one run.
type Config struct {
	// URL is the node endpoint (rpc) or base URL (route).
	URL string `toml:"url"`

	// Buckets is the bucket count for --histogram/--cdf/--ccdf.
	Buckets int `toml:"buckets"`

	// Timeout is the per-call HTTP timeout. Zero disables it.
	Timeout time.Duration `toml:"timeout"`

	// Rate paces calls per second. Zero means back-to-back.
	Rate float64 `toml:"rate"`

	// IncludeErrors counts failed calls in the timing output.
	IncludeErrors bool `toml:"include_errors"`

	Route RouteConfig `toml:"route"`

	// Methods extend (or override) the built-in Stellar RPC method set.
	Methods []invoke.MethodSpec `toml:"methods"`
}

// RouteConfig holds defaults for the route subcommand.
type RouteConfig struct {
	// Headers are "Key: Value" lines sent with every request, before any
	// --headers flags.
	Headers []string `toml:"headers"`

	// Compressed requests zstd/gzip encoded responses.
	Compressed bool `toml:"compressed"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		URL:     types.DefaultURL,
		Buckets: types.DefaultBuckets,
		Timeout: DefaultTimeout,
	}
}

// LoadConfig reads path over the defaults. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}

	return config, nil
}

// =============================================================================
// Flag Merge
// =============================================================================

// applyFlags copies every flag the user set on cmd over config.
func applyFlags(cmd *cobra.Command, opts *benchOptions, config *Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		config.URL = opts.url
	}
	if flags.Changed("buckets") {
		config.Buckets = opts.buckets
	}
	if flags.Changed("timeout") {
		config.Timeout = opts.timeout
	}
	if flags.Changed("rate") {
		config.Rate = opts.rate
	}
	if flags.Changed("include-errors") {
		config.IncludeErrors = opts.includeErrors
	}
	if flags.Lookup("headers") != nil && flags.Changed("headers") {
		config.Route.Headers = append(config.Route.Headers, opts.headers...)
	}
	if flags.Lookup("compressed") != nil && flags.Changed("compressed") {
		config.Route.Compressed = opts.compressed
	}
}

// =============================================================================
// Configuration Validation
// =============================================================================

// validateConfig checks the merged configuration before any call is made.
func validateConfig(config *Config) error {
	u, err := url.Parse(config.URL)
	if err != nil {
		return errors.Wrapf(err, "invalid url %q", config.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("url %q must use http or https", config.URL)
	}
	if u.Host == "" {
		return errors.Errorf("url %q has no host", config.URL)
	}

	if config.Buckets <= 0 {
		return errors.Errorf("buckets must be positive, got %d", config.Buckets)
	}
	if config.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %s", config.Timeout)
	}
	if config.Rate < 0 {
		return errors.Errorf("rate must not be negative, got %v", config.Rate)
	}

	for i, m := range config.Methods {
		if strings.TrimSpace(m.Name) == "" {
			return errors.Errorf("methods[%d]: name is required", i)
		}
		for j, p := range m.Params {
			if p == "" {
				return errors.Errorf("method %s: parameter %d has no name", m.Name, j)
			}
			if slices.Contains(m.Params[:j], p) {
				return errors.Errorf("method %s: parameter %q listed twice", m.Name, p)
			}
		}
	}

	return nil
}
