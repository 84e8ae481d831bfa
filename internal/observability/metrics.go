// Package observability provides Prometheus metrics for monitoring batch
// dip scans.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the metric collectors for the scanner.
type Metrics struct {
	registry *prometheus.Registry

	FilesScanned  *prometheus.CounterVec
	DipsDetected  *prometheus.CounterVec
	ScanDuration  prometheus.Histogram
	SamplesLoaded prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all collectors registered
// on a dedicated registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.FilesScanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lcps_files_scanned_total",
			Help: "Number of light curve files scanned, by outcome",
		},
		[]string{"status"},
	)
	m.DipsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lcps_dips_detected_total",
			Help: "Number of transit candidates detected, by output",
		},
		[]string{"output"},
	)
	m.ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lcps_scan_duration_seconds",
			Help:    "Time spent scanning one light curve",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)
	m.SamplesLoaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lcps_samples_loaded_total",
			Help: "Number of photometric samples decoded from input files",
		},
	)

	collectors := []prometheus.Collector{
		m.FilesScanned, m.DipsDetected, m.ScanDuration, m.SamplesLoaded,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics collector: %w", err)
		}
	}
	return m, nil
}

// RegisterHandlers adds the /metrics route to the given mux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
