// Package worker analyzes queued submissions and records the results.
package worker

import (
	"context"

	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// FailureHandler is told about a submission that could not be processed.
type FailureHandler func(ctx context.Context, s model.Submission, err error)

// WithFailureHandler registers h for failed submissions.
func WithFailureHandler(h FailureHandler) Option {
	return func(w *InMemoryWorker) { w.onFailure = h }
}

// withCounters shares processed/failed counters, used by Pool.
func withCounters(c *counters) Option {
	return func(w *InMemoryWorker) { w.counters = c }
}
