package indextable

import (
	"log/slog"
)

type options struct {
	capacity         int
	metricsCollector MetricsCollector
	logger           *Logger
}

func defaultOptions() options {
	return options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures Table construction.
type Option func(*options)

// WithCapacity pre-sizes the primary store for n records.
// It is a hint only; the table grows as needed.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &indextable.BasicMetricsCollector{}
//	t := indextable.New[BookID, BookCategory, Book](indextable.WithMetricsCollector(metrics))
//	// ... use t ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Collisions: %d\n", stats.InsertCount, stats.InsertCollisions)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := indextable.NewJSONLogger(slog.LevelInfo)
//	t := indextable.New[BookID, BookCategory, Book](indextable.WithLogger(logger))
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
