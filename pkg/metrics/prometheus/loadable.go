// Package prometheus implements the metric sets declared by pkg/metrics
// on top of the Prometheus client library.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/loadkit/loadstate/pkg/loadable"
	"github.com/loadkit/loadstate/pkg/metrics"
)

// loadableMetrics is the Prometheus implementation of loadable.Metrics.
type loadableMetrics struct {
	loadsStarted   *prometheus.CounterVec
	loadsSucceeded *prometheus.CounterVec
	loadsFailed    *prometheus.CounterVec
	loadsCancelled *prometheus.CounterVec
	loadDuration   *prometheus.HistogramVec
	tasksInFlight  prometheus.Gauge
}

func init() {
	metrics.RegisterLoadableMetricsConstructor(newLoadableMetrics)
}

// newLoadableMetrics constructs the metric set against the process-wide
// registry. Callers reach it through metrics.NewLoadableMetrics, which
// returns nil when the registry has not been initialized.
func newLoadableMetrics() loadable.Metrics {
	reg := metrics.GetRegistry()
	if reg == nil {
		return nil
	}

	return &loadableMetrics{
		loadsStarted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadstate_loads_started_total",
				Help: "Total number of load tasks launched by loadable path",
			},
			[]string{"loadable"},
		),
		loadsSucceeded: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadstate_loads_succeeded_total",
				Help: "Total number of loads that completed successfully by loadable path",
			},
			[]string{"loadable"},
		),
		loadsFailed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadstate_loads_failed_total",
				Help: "Total number of loads that ended in a non-cancellation error by loadable path",
			},
			[]string{"loadable"},
		),
		loadsCancelled: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadstate_loads_cancelled_total",
				Help: "Total number of loads cancelled before completing by loadable path",
			},
			[]string{"loadable"},
		),
		loadDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "loadstate_load_duration_milliseconds",
				Help: "Duration of finished load tasks in milliseconds by loadable path and outcome",
				Buckets: []float64{
					1,     // 1ms - in-memory or cached sources
					5,     // 5ms
					10,    // 10ms
					50,    // 50ms
					100,   // 100ms - typical network fetch
					250,   // 250ms
					500,   // 500ms
					1000,  // 1s
					2500,  // 2.5s
					5000,  // 5s
					10000, // 10s - slow sources about to time out
				},
			},
			[]string{"loadable", "outcome"},
		),
		tasksInFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "loadstate_tasks_in_flight",
				Help: "Number of load tasks currently running",
			},
		),
	}
}

// ObserveLoadStarted implements loadable.Metrics.
func (m *loadableMetrics) ObserveLoadStarted(path loadable.PathID) {
	m.loadsStarted.WithLabelValues(string(path)).Inc()
}

// ObserveLoadSucceeded implements loadable.Metrics.
func (m *loadableMetrics) ObserveLoadSucceeded(path loadable.PathID, duration time.Duration) {
	m.loadsSucceeded.WithLabelValues(string(path)).Inc()
	m.observeDuration(path, "success", duration)
}

// ObserveLoadFailed implements loadable.Metrics.
func (m *loadableMetrics) ObserveLoadFailed(path loadable.PathID, duration time.Duration) {
	m.loadsFailed.WithLabelValues(string(path)).Inc()
	m.observeDuration(path, "failure", duration)
}

// ObserveLoadCancelled implements loadable.Metrics.
func (m *loadableMetrics) ObserveLoadCancelled(path loadable.PathID, duration time.Duration) {
	m.loadsCancelled.WithLabelValues(string(path)).Inc()
	m.observeDuration(path, "cancelled", duration)
}

// RecordInFlight implements loadable.Metrics.
func (m *loadableMetrics) RecordInFlight(count int) {
	m.tasksInFlight.Set(float64(count))
}

func (m *loadableMetrics) observeDuration(path loadable.PathID, outcome string, duration time.Duration) {
	m.loadDuration.WithLabelValues(string(path), outcome).
		Observe(float64(duration.Microseconds()) / 1000.0)
}
