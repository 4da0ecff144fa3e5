package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ingestion pipeline.
type Metrics struct {
	SongsIngested  prometheus.Counter
	IngestFailures *prometheus.CounterVec
	IngestDuration prometheus.Histogram
	BytesStored    prometheus.Counter
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SongsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "chartvault_songs_ingested_total",
			Help: "The total number of songs successfully ingested",
		}),
		IngestFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chartvault_ingest_failures_total",
			Help: "The total number of failed ingestions, by pipeline stage",
		}, []string{"stage"}),
		IngestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartvault_ingest_duration_seconds",
			Help:    "The duration of song ingestion in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		BytesStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "chartvault_artifact_bytes_stored_total",
			Help: "The total number of artifact bytes written to storage",
		}),
	}
}
