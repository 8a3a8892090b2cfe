// =============================================================================
// pkg/logging/logger.go - zap-backed Logger
// =============================================================================
//
// This package provides the Logger used by latency-bench. Output goes to:
//   - the console (stderr by default), so stdout stays reserved for results
//   - an optional log file receiving every message
//   - an optional error file receiving only errors
//
// SCOPED LOGGING:
//   Loggers can be scoped with WithScope(). The scope shows up as the zap
//   logger name:
//
//     logger, _ := logging.New(logging.Options{})
//     samplerLog := logger.WithScope("SAMPLER")
//     samplerLog.Info("warm-up done") // → 2006-01-02 15:04:05.000  INFO  SAMPLER  warm-up done
//
// =============================================================================

package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/interfaces"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// SeparatorLine is the visual separator used in logs
	SeparatorLine = "========================================================================="

	// TimeFormat is the timestamp format for log messages
	TimeFormat = "2006-01-02 15:04:05.000"
)

// =============================================================================
// Options
// =============================================================================

// Options configures a Logger.
type Options struct {
	// Level is the minimum level for console and log file output
	// ("debug", "info", "warn", "error"). Empty means "info".
	Level string

	// LogPath, if set, receives every message. Truncated on open.
	LogPath string

	// ErrorPath, if set, receives error messages only. Truncated on open.
	ErrorPath string

	// Console is the console destination. Nil means os.Stderr.
	Console io.Writer
}

// =============================================================================
// ZapLogger Implementation
// =============================================================================

// ZapLogger implements interfaces.Logger on top of a zap SugaredLogger.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
	files []*os.File
	owner bool
}

// New creates a Logger from opts. The returned logger owns any files it opened;
// call Close when done.
func New(opts Options) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		level = parsed
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(console), level),
	}

	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if opts.LogPath != "" {
		f, err := openTruncated(opts.LogPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open log file %s", opts.LogPath)
		}
		files = append(files, f)
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(f), level))
	}

	if opts.ErrorPath != "" {
		f, err := openTruncated(opts.ErrorPath)
		if err != nil {
			closeAll()
			return nil, errors.Wrapf(err, "failed to open error file %s", opts.ErrorPath)
		}
		files = append(files, f)
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(f), zapcore.ErrorLevel))
	}

	l := NewFromCore(zapcore.NewTee(cores...))
	l.files = files
	return l, nil
}

// NewFromCore wraps an existing zap core. Used by tests with zaptest/observer.
func NewFromCore(core zapcore.Core) *ZapLogger {
	base := zap.New(core)
	return &ZapLogger{
		base:  base,
		sugar: base.Sugar(),
		owner: true,
	}
}

// Nop returns a logger that discards everything.
func Nop() *ZapLogger {
	return NewFromCore(zapcore.NewNopCore())
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(TimeFormat)
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	return cfg
}

func openTruncated(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

// WithScope creates a scoped logger sharing the same cores.
// Nested scopes are joined by zap: WithScope("A").WithScope("B") → "A.B".
func (l *ZapLogger) WithScope(scope string) interfaces.Logger {
	named := l.base.Named(scope)
	return &ZapLogger{
		base:  named,
		sugar: named.Sugar(),
	}
}

// Info logs an informational message.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error logs an error message.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Separator logs a visual separator line.
func (l *ZapLogger) Separator() {
	l.sugar.Info(SeparatorLine)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *ZapLogger) Sync() {
	_ = l.base.Sync()
}

// Close syncs and closes owned files. It is a no-op for scoped loggers.
func (l *ZapLogger) Close() {
	if !l.owner {
		return
	}
	l.Sync()
	for _, f := range l.files {
		f.Close()
	}
	l.files = nil
}
