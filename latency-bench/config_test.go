package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/invoke"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultURL, config.URL)
	assert.Equal(t, types.DefaultBuckets, config.Buckets)
	assert.Equal(t, DefaultTimeout, config.Timeout)
	assert.Zero(t, config.Rate)
	assert.False(t, config.IncludeErrors)
	assert.NoError(t, validateConfig(config))
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
url            = "https://rpc.example.org"
buckets        = 30
timeout        = "10s"
rate           = 20.0
include_errors = true

[route]
headers    = ["Accept: application/json"]
compressed = true

[[methods]]
name   = "getLedgerEntry"
params = ["key", "xdrFormat"]
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.example.org", config.URL)
	assert.Equal(t, 30, config.Buckets)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 20.0, config.Rate)
	assert.True(t, config.IncludeErrors)
	assert.Equal(t, []string{"Accept: application/json"}, config.Route.Headers)
	assert.True(t, config.Route.Compressed)
	assert.Equal(t, []invoke.MethodSpec{{Name: "getLedgerEntry", Params: []string{"key", "xdrFormat"}}}, config.Methods)
	assert.NoError(t, validateConfig(config))
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `rate = 5.0`))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultURL, config.URL)
	assert.Equal(t, types.DefaultBuckets, config.Buckets)
	assert.Equal(t, 5.0, config.Rate)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `buckets = "many"`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `bukets = 10`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bukets")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no scheme", func(c *Config) { c.URL = "localhost:8000" }},
		{"bad scheme", func(c *Config) { c.URL = "ftp://node" }},
		{"no host", func(c *Config) { c.URL = "http://" }},
		{"zero buckets", func(c *Config) { c.Buckets = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"negative rate", func(c *Config) { c.Rate = -1 }},
		{"unnamed method", func(c *Config) { c.Methods = []invoke.MethodSpec{{Name: " "}} }},
		{"empty param", func(c *Config) { c.Methods = []invoke.MethodSpec{{Name: "m", Params: []string{""}}} }},
		{"duplicate param", func(c *Config) { c.Methods = []invoke.MethodSpec{{Name: "m", Params: []string{"a", "a"}}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.Error(t, validateConfig(config))
		})
	}
}
