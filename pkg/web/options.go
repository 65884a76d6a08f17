package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type (
	// Option for the web server
	Option func(*options)

	options struct {
		l               *zap.Logger
		fs              afero.Fs
		gatherer        prometheus.Gatherer
		readTimeout     time.Duration
		writeTimeout    time.Duration
		shutdownTimeout time.Duration
	}
)

// WithLogger logs requests and server events
func WithLogger(zlg *zap.Logger) Option {
	return func(o *options) {
		if zlg != nil {
			o.l = zlg
		}
	}
}

// WithFs sets the filesystem holding the web root and the upload directory
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithMetrics exposes the collectors of g on /metrics
func WithMetrics(g prometheus.Gatherer) Option {
	return func(o *options) {
		o.gatherer = g
	}
}

// WithTimeouts sets the maximum duration to read a request and to write its response
func WithTimeouts(read, write time.Duration) Option {
	return func(o *options) {
		o.readTimeout = read
		o.writeTimeout = write
	}
}

// WithShutdownTimeout sets the grace period for in-flight requests when the server stops
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		o.shutdownTimeout = d
	}
}

func defaultOptions(opts []Option) options {
	o := options{
		l:               zap.NewNop(),
		fs:              afero.NewOsFs(),
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		shutdownTimeout: 10 * time.Second,
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
