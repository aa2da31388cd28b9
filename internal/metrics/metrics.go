package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	DatasetLoads      *prometheus.CounterVec
	DatasetLoadTime   prometheus.Histogram
	DatasetRecords    prometheus.Gauge
	DatasetCategories prometheus.Gauge
	NearestQueries    *prometheus.CounterVec
	NearestDuration   prometheus.Histogram
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	SideEffectErrors  *prometheus.CounterVec
	WorkerEvents      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "poi_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DatasetLoads: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "poi_dataset_loads_total",
			Help: "Total number of dataset load attempts by result.",
		}, []string{"result"}),
		DatasetLoadTime: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "poi_dataset_load_duration_seconds",
			Help:    "Time spent parsing, validating and indexing an uploaded dataset.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DatasetRecords: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "poi_dataset_records",
			Help: "Number of points in the live dataset.",
		}),
		DatasetCategories: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "poi_dataset_categories",
			Help: "Number of categories in the live dataset.",
		}),
		NearestQueries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "poi_nearest_queries_total",
			Help: "Total number of nearest queries by scope and result.",
		}, []string{"scope", "result"}),
		NearestDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "poi_nearest_query_duration_seconds",
			Help:    "Duration of nearest-neighbor queries against the live dataset.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "poi_nearest_cache_hits_total",
			Help: "Total nearest cache hits.",
		}),
		CacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "poi_nearest_cache_misses_total",
			Help: "Total nearest cache misses.",
		}),
		SideEffectErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "poi_side_effect_errors_total",
			Help: "Failures of best-effort side effects (cache, events, upload history).",
		}, []string{"kind"}),
		WorkerEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "poi_worker_events_total",
			Help: "Dataset events handled by the audit worker by result.",
		}, []string{"result"}),
	}
}

// Nop возвращает метрики, зарегистрированные в отдельном реестре, для тестов и CLI
func Nop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
