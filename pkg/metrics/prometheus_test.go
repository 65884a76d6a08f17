package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetrics(t *testing.T) {
	var m *M
	assert.NotPanics(t, func() {
		m.Op("insert", nil)
		m.Dedup()
		m.Written("orig", 10)
		m.Materialize("thumb")
		m.Compaction(nil, 100)
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Op("insert", nil)
	m.Op("insert", errors.New("boom"))
	m.Dedup()
	m.Written("orig", 2*KB)
	m.Materialize("thumb")
	m.Compaction(nil, MB)
	m.Compaction(errors.New("boom"), MB)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Operations.WithLabelValues("insert")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Failures.WithLabelValues("insert")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Deduplicated))
	assert.Equal(t, float64(2048), testutil.ToFloat64(m.BytesWritten.WithLabelValues("orig")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Materialized.WithLabelValues("thumb")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Compactions.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Compactions.WithLabelValues("failure")))
	assert.Equal(t, float64(MB), testutil.ToFloat64(m.ReclaimedSize))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
