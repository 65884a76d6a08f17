package imgstore

import (
	"github.com/oneconcern/imgstore/pkg/metrics"
	"github.com/oneconcern/imgstore/pkg/thumbnail"
	"go.uber.org/zap"
)

type (
	// Option modifies the behavior of a Store.
	Option func(*options)

	options struct {
		l       *zap.Logger
		resizer thumbnail.Resizer
		m       *metrics.M
	}
)

// WithLogger sets the logger used by the store
func WithLogger(zlg *zap.Logger) Option {
	return func(o *options) {
		if zlg != nil {
			o.l = zlg
		}
	}
}

// WithResizer sets the image library used to inspect and resize images
func WithResizer(r thumbnail.Resizer) Option {
	return func(o *options) {
		if r != nil {
			o.resizer = r
		}
	}
}

// WithMetrics enables metrics collection
func WithMetrics(m *metrics.M) Option {
	return func(o *options) {
		o.m = m
	}
}

func defaultOptions(opts []Option) options {
	o := options{
		l:       zap.NewNop(),
		resizer: thumbnail.New(),
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
