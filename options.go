package sparsecdf

import "log/slog"

type options struct {
	logger  *Logger
	metrics MetricsCollector
}

// Option configures Writer and Reader sessions.
type Option func(*options)

// WithLogger configures structured logging for session operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// session operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// WriteOptions configures a single Write call.
type WriteOptions struct {
	// Name stores the tensor as a named secondary object. Empty writes
	// the unnamed primary.
	Name string

	// Comment is recorded in the object's metadata and surfaced by
	// Info; decoding never consumes it.
	Comment string

	// Validate runs full structural validation (pointer monotonicity,
	// index bounds, coordinate ordering) before encoding. Encoding
	// alone only checks array presence, lengths and types.
	Validate bool
}

// WithName stores the tensor as a named secondary object.
func WithName(name string) func(o *WriteOptions) {
	return func(o *WriteOptions) {
		o.Name = name
	}
}

// WithComment records a free-form comment in the object's metadata.
func WithComment(comment string) func(o *WriteOptions) {
	return func(o *WriteOptions) {
		o.Comment = comment
	}
}

// WithValidation enables full structural validation before encoding.
func WithValidation() func(o *WriteOptions) {
	return func(o *WriteOptions) {
		o.Validate = true
	}
}
