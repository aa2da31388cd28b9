package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.NearestQueries.WithLabelValues("category", "ok").Inc()
	m.CacheHits.Inc()
	m.DatasetRecords.Set(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["poi_nearest_queries_total"])
	assert.True(t, names["poi_nearest_cache_hits_total"])
	assert.True(t, names["poi_dataset_records"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NearestQueries.WithLabelValues("category", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DatasetRecords))
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestNop_Independent(t *testing.T) {
	a := Nop()
	b := Nop()

	a.CacheMisses.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheMisses))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheMisses))
}
