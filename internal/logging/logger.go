// Package logging builds the zerolog loggers used across pricefetch and carries
// them, together with a per-invocation trace ID, on context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Output formats understood by NewLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// DefaultLevel is used when no level is configured or the configured one is invalid.
const DefaultLevel = zerolog.WarnLevel

// Config describes where and how log events are written.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...).
	Level string
	// Format is "console" (human readable) or "json".
	Format string
	// File, when set, receives log output instead of stderr.
	File string
}

// Result is the outcome of NewLogger.
type Result struct {
	Logger zerolog.Logger

	// FilePath is the log file in use, empty when logging to stderr.
	FilePath string
	// FallbackReason explains why a configured file could not be used.
	FallbackReason string

	file *os.File
}

// UsingFile reports whether events are written to a log file.
func (r *Result) UsingFile() bool {
	return r.file != nil
}

// Close releases the log file handle, if any.
func (r *Result) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger creates a logger from cfg. Events go to stderr unless cfg.File is set;
// if the file cannot be opened the logger falls back to stderr and records why.
func NewLogger(cfg Config, stderr io.Writer) Result {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		lvl = DefaultLevel
	}

	var result Result
	out := stderr
	if cfg.File != "" {
		f, openErr := openLogFile(cfg.File)
		if openErr != nil {
			result.FallbackReason = openErr.Error()
		} else {
			result.file = f
			result.FilePath = cfg.File
			out = f
		}
	}

	var w io.Writer = out
	if cfg.Format != FormatJSON && result.file == nil {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	result.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return result
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// ComponentLogger returns a child logger tagged with the given component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// FromContext returns the logger stored on ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

type traceIDKey struct{}

// NewTraceID returns a new lexically sortable trace identifier.
func NewTraceID() string {
	return ulid.Make().String()
}

// ContextWithTraceID stores traceID on ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored on ctx, if any.
func TraceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey{}).(string); ok {
		return v
	}
	return ""
}

// GetOrGenerateTraceID returns the trace ID on ctx or a fresh one.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}
