package worker

import (
	"github.com/okian/skillswap/pkg/logger"
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

// WithRelease registers a callback invoked with the user ID once a request
// has been processed, successfully or not.
func WithRelease(fn func(userID string)) Option {
	return func(w *InMemoryWorker) {
		if fn != nil {
			w.release = fn
		}
	}
}
