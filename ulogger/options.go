package ulogger

import (
	"io"
	"os"

	"github.com/ordishs/gocore"
)

// Option configures the Options used to construct a Logger.
type Option func(*Options)

// Options holds the construction-time configuration shared by every
// Logger implementation in this package.
type Options struct {
	writer     io.Writer
	loggerType string
	logLevel   string
	skip       int
}

// DefaultOptions returns the baseline options used when a caller does not
// override them: stdout, the zerolog backend, and the level from the
// logLevel config setting (INFO when unset).
func DefaultOptions() *Options {
	logLevel, _ := gocore.Config().Get("logLevel", "INFO")

	return &Options{
		writer:     os.Stdout,
		loggerType: "zerolog",
		logLevel:   logLevel,
		skip:       0,
	}
}

// WithWriter overrides the destination for log output.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.writer = w
	}
}

// WithLoggerType selects the logging backend ("zerolog", "gocore", or "file").
func WithLoggerType(loggerType string) Option {
	return func(o *Options) {
		o.loggerType = loggerType
	}
}

// WithLevel overrides the minimum emitted log level.
func WithLevel(level string) Option {
	return func(o *Options) {
		o.logLevel = level
	}
}

// WithSkipFrame adjusts the number of stack frames skipped when reporting
// the caller location, for loggers wrapped by another layer of indirection.
func WithSkipFrame(skip int) Option {
	return func(o *Options) {
		o.skip = skip
	}
}
