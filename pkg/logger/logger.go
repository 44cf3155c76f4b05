// Package logger provides structured logging for the BoxCut binaries.
// It wraps zap with a sugared key/value API so call sites read like
//
//	log.Info("box generated", "design_id", id, "paths", n)
//
// The geometry packages never log; only cmd/ and the HTTP layer do.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// contextKey is a private type for context keys.
type contextKey string

// RequestIDKey is the context key the HTTP layer stores request IDs under.
const RequestIDKey contextKey = "request_id"

// Logger wraps zap.Logger with a key/value interface.
type Logger struct {
	zap    *zap.Logger
	sugar  *zap.SugaredLogger
	fields []any
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string

	// Format is the output format: json or console.
	Format string

	// Development enables stack traces on warnings and caller-friendly output.
	Development bool

	// Output receives the log stream. Nil means stdout.
	Output io.Writer
}

// DefaultConfig returns an info-level JSON logger on stdout.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
	}
}

// New creates a logger from cfg.
func New(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	z := zap.New(core, opts...)
	return &Logger{zap: z, sugar: z.Sugar()}, nil
}

// MustNew creates a logger and panics on error. Use it in main.
func MustNew(cfg Config) *Logger {
	l, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	z := zap.NewNop()
	return &Logger{zap: z, sugar: z.Sugar()}
}

func (l *Logger) kv(keysAndValues []any) []any {
	if len(l.fields) == 0 {
		return keysAndValues
	}
	return append(append([]any(nil), l.fields...), keysAndValues...)
}

// Debug logs a debug message with optional key/value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, l.kv(keysAndValues)...)
}

// Info logs an info message with optional key/value pairs.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, l.kv(keysAndValues)...)
}

// Warn logs a warning with optional key/value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, l.kv(keysAndValues)...)
}

// Error logs an error with optional key/value pairs.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, l.kv(keysAndValues)...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, keysAndValues ...any) {
	l.sugar.Fatalw(msg, l.kv(keysAndValues)...)
}

// With returns a child logger that adds keysAndValues to every entry.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{
		zap:    l.zap,
		sugar:  l.sugar,
		fields: l.kv(keysAndValues),
	}
}

// WithContext returns a child logger carrying the request ID from ctx,
// if there is one.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return l.With("request_id", id)
	}
	return l
}

// Named adds a sub-scope to the logger name.
func (l *Logger) Named(name string) *Logger {
	z := l.zap.Named(name)
	return &Logger{zap: z, sugar: z.Sugar(), fields: l.fields}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// ZapLogger returns the underlying zap logger.
func (l *Logger) ZapLogger() *zap.Logger {
	return l.zap
}

var globalLogger = Nop()

// SetGlobal replaces the package-level logger.
func SetGlobal(l *Logger) {
	if l != nil {
		globalLogger = l
	}
}

// Global returns the package-level logger.
func Global() *Logger {
	return globalLogger
}

func Debug(msg string, keysAndValues ...any) { globalLogger.Debug(msg, keysAndValues...) }
func Info(msg string, keysAndValues ...any)  { globalLogger.Info(msg, keysAndValues...) }
func Warn(msg string, keysAndValues ...any)  { globalLogger.Warn(msg, keysAndValues...) }
func Error(msg string, keysAndValues ...any) { globalLogger.Error(msg, keysAndValues...) }
func Fatal(msg string, keysAndValues ...any) { globalLogger.Fatal(msg, keysAndValues...) }
