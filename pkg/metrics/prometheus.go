// Package metrics exposes prometheus collectors for image store operations.
//
// A nil *M is valid and records nothing, so instrumented code never needs
// to check whether metrics are enabled.
package metrics

import (
	"github.com/docker/go-units"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "imgstore"

const (
	// KB stands for kilo bytes (1024 bytes)
	KB = units.KiB

	// MB stands for mega bytes (1024 kilo bytes)
	MB = units.MiB
)

// M holds all metrics about an image store
type M struct {
	Operations    *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	Deduplicated  prometheus.Counter
	BytesWritten  *prometheus.CounterVec
	Materialized  *prometheus.CounterVec
	Compactions   *prometheus.CounterVec
	ReclaimedSize prometheus.Counter
}

// New builds the store metrics and registers them to reg.
//
// A nil registerer leaves the collectors unregistered (useful for tests).
func New(reg prometheus.Registerer) *M {
	m := &M{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "number of store operations, by kind",
		}, []string{"operation"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "number of failed store operations, by kind",
		}, []string{"operation"}),
		Deduplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deduplicated_total",
			Help:      "number of insertions aliased to existing identical content",
		}),
		BytesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_bytes_written_total",
			Help:      "bytes appended to the content area, by resolution",
		}, []string{"resolution"}),
		Materialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "materialized_total",
			Help:      "number of derived resolutions generated, by resolution",
		}, []string{"resolution"}),
		Compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions_total",
			Help:      "number of store compactions, by outcome",
		}, []string{"outcome"}),
		ReclaimedSize: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reclaimed_bytes_total",
			Help:      "bytes reclaimed by compactions",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Operations,
			m.Failures,
			m.Deduplicated,
			m.BytesWritten,
			m.Materialized,
			m.Compactions,
			m.ReclaimedSize,
		)
	}
	return m
}

// Op records the outcome of an operation
func (m *M) Op(operation string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation).Inc()
	if err != nil {
		m.Failures.WithLabelValues(operation).Inc()
	}
}

// Dedup records an aliased insertion
func (m *M) Dedup() {
	if m == nil {
		return
	}
	m.Deduplicated.Inc()
}

// Written records bytes appended for some resolution
func (m *M) Written(resolution string, size int) {
	if m == nil {
		return
	}
	m.BytesWritten.WithLabelValues(resolution).Add(float64(size))
}

// Materialize records the generation of a derived resolution
func (m *M) Materialize(resolution string) {
	if m == nil {
		return
	}
	m.Materialized.WithLabelValues(resolution).Inc()
}

// Compaction records the outcome of a compaction and the reclaimed space
func (m *M) Compaction(err error, reclaimed int64) {
	if m == nil {
		return
	}
	if err != nil {
		m.Compactions.WithLabelValues("failure").Inc()
		return
	}
	m.Compactions.WithLabelValues("success").Inc()
	if reclaimed > 0 {
		m.ReclaimedSize.Add(float64(reclaimed))
	}
}
