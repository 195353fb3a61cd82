package worker

import (
	"github.com/reefscout/reefscout/pkg/logger"
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
func WithLogger(log logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if log != nil {
			w.logger = log
		}
	}
}

// WithForgetter makes the worker release the fingerprint of a submission
// it failed to store, so the scouter can resend it.
func WithForgetter(f Forgetter) Option {
	return func(w *InMemoryWorker) {
		w.forget = f
	}
}
