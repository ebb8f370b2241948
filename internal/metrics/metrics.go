// Package metrics exposes Prometheus counters for the sync engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the sync-engine counters.
type Metrics struct {
	registry *prometheus.Registry

	// IntentsProcessed counts per-item outcomes of sync passes,
	// labelled by terminal status (completed / failed).
	IntentsProcessed *prometheus.CounterVec

	// SyncPasses counts drain-loop invocations, labelled by result
	// (run / skipped); skipped means the reentrancy guard dropped it.
	SyncPasses *prometheus.CounterVec

	// PhotoBytesUploaded totals the bytes pushed to object storage.
	PhotoBytesUploaded prometheus.Counter
}

// New registers and returns the engine metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		IntentsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uploadsync_intents_processed_total",
			Help: "Upload intents driven to a terminal status, by outcome",
		}, []string{"outcome"}),
		SyncPasses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uploadsync_sync_passes_total",
			Help: "Sync pass invocations, by result",
		}, []string{"result"}),
		PhotoBytesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uploadsync_photo_bytes_uploaded_total",
			Help: "Photo bytes uploaded to object storage",
		}),
	}

	m.registry.MustRegister(m.IntentsProcessed, m.SyncPasses, m.PhotoBytesUploaded)
	return m
}

// Handler returns the HTTP handler serving the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
