// Package analysis orchestrates dip scans over single light curve files and
// whole directories. It wires the loader, the detection engine and the
// observation outputs together; the engine itself stays free of I/O.
package analysis

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"

	"github.com/mschleck/lcps-go/internal/conf"
	"github.com/mschleck/lcps-go/internal/logging"
	"github.com/mschleck/lcps-go/internal/observability"
	"github.com/mschleck/lcps-go/internal/observation"
)

// Analyzer holds the shared state of one analysis run: settings, the
// candidate store and the metrics collectors. Each file scan is independent,
// Analyzer methods are safe to call from multiple workers.
type Analyzer struct {
	Settings *conf.Settings
	ScanID   string

	store   *observation.DataStore
	metrics *observability.Metrics
	log     *slog.Logger
}

// New creates an Analyzer for the given settings, initializing the
// database output when one is enabled.
func New(settings *conf.Settings) (*Analyzer, error) {
	store, err := observation.InitializeDatabase(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize candidate database: %w", err)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return &Analyzer{
		Settings: settings,
		ScanID:   uuid.New().String(),
		store:    store,
		metrics:  metrics,
		log:      logging.ForService("analysis"),
	}, nil
}

// Metrics exposes the collectors for the telemetry endpoint.
func (a *Analyzer) Metrics() *observability.Metrics {
	return a.metrics
}

// numWorkers picks the worker count for directory analysis: the configured
// thread count, or one per CPU, clamped to [1, 8].
func (a *Analyzer) numWorkers() int {
	n := a.Settings.Dipsearch.Threads
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return clampInt(n, 1, 8)
}

// clampInt ensures a value is between minValue and maxValue (inclusive).
func clampInt(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
