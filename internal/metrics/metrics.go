package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the client
type Metrics struct {
	// Cache metrics
	CacheHitsTotal    prometheus.CounterVec
	CacheMissesTotal  prometheus.CounterVec
	CacheSweepsTotal  prometheus.CounterVec
	CacheSweptEntries prometheus.CounterVec

	// Loader metrics
	LoadsTotal   prometheus.CounterVec
	LoadDuration prometheus.HistogramVec

	// Mutation metrics
	MutationsTotal prometheus.CounterVec

	// Change feed metrics
	RealtimeEventsTotal     prometheus.CounterVec
	RealtimeReconnectsTotal prometheus.CounterVec

	// Media upload metrics
	UploadBytesTotal prometheus.CounterVec
	UploadsTotal     prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),
			CacheSweepsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_cache_sweeps_total",
					Help: "Total number of cache sweep passes",
				},
				[]string{"cache_name"},
			),
			CacheSweptEntries: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_cache_swept_entries_total",
					Help: "Total number of expired entries removed by sweeps",
				},
				[]string{"cache_name"},
			),
			LoadsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_loads_total",
					Help: "Total number of list loads by source and outcome",
				},
				[]string{"table", "source", "status"},
			),
			LoadDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "saforex_load_duration_seconds",
					Help:    "List load latency in seconds",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"table", "source"},
			),
			MutationsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_mutations_total",
					Help: "Total number of create/update/delete/like operations",
				},
				[]string{"table", "operation", "status"},
			),
			RealtimeEventsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_realtime_events_total",
					Help: "Total number of change-feed events received",
				},
				[]string{"table", "event_type"},
			),
			RealtimeReconnectsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_realtime_reconnects_total",
					Help: "Total number of change-feed reconnect attempts",
				},
				[]string{"table"},
			),
			UploadBytesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_upload_bytes_total",
					Help: "Total bytes uploaded to object storage",
				},
				[]string{"bucket"},
			),
			UploadsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saforex_uploads_total",
					Help: "Total number of object storage uploads",
				},
				[]string{"bucket", "status"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
