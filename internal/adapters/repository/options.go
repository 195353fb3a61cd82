package repository

import (
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
)

// Option configures a store.
type Option func(*options)

type options struct {
	log   logger.Logger
	files map[types.Source]string
}

func defaultOptions() options {
	return options{
		files: map[types.Source]string{
			types.SourceLive:     "scouting-data.json",
			types.SourcePrescout: "scouting-data-pre.json",
		},
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithFile overrides the JSON file name for a source.
func WithFile(source types.Source, name string) Option {
	return func(o *options) {
		if name != "" {
			o.files[source] = name
		}
	}
}

func apply(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	return o
}
