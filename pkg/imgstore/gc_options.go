package imgstore

import (
	"github.com/oneconcern/imgstore/pkg/metrics"
	"go.uber.org/zap"
)

type (
	// GCOption modifies the behavior of GarbageCollect.
	GCOption func(*gcOptions)

	gcOptions struct {
		l         *zap.Logger
		m         *metrics.M
		storeOpts []Option
	}
)

// WithGCLogger sets the logger reporting the progress of the compaction
func WithGCLogger(zlg *zap.Logger) GCOption {
	return func(o *gcOptions) {
		if zlg != nil {
			o.l = zlg
		}
	}
}

// WithGCMetrics records compaction outcomes
func WithGCMetrics(m *metrics.M) GCOption {
	return func(o *gcOptions) {
		o.m = m
	}
}

// WithGCStoreOptions passes options to both the original and the replacement store
func WithGCStoreOptions(opts ...Option) GCOption {
	return func(o *gcOptions) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

func defaultGCOptions(opts []GCOption) *gcOptions {
	o := &gcOptions{
		l: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}
