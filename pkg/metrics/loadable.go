package metrics

import (
	"github.com/loadkit/loadstate/pkg/loadable"
)

// NewLoadableMetrics creates a new Prometheus-backed loadable.Metrics
// instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
// When nil is returned, callers should pass nil in their reducer config,
// which results in zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	reducer := loadable.New(loadable.Config[S, A, V]{
//		...
//		Metrics: metrics.NewLoadableMetrics(),
//	}, inner)
//
//	// Without metrics (zero overhead)
//	reducer := loadable.New(cfg, inner)
func NewLoadableMetrics() loadable.Metrics {
	if !IsEnabled() || newPrometheusLoadableMetrics == nil {
		return nil
	}

	// The constructor lives in pkg/metrics/prometheus and is registered
	// from there at package initialization. The indirection keeps this
	// package's API free of the concrete implementation while letting
	// both depend on the loadable.Metrics interface.
	return newPrometheusLoadableMetrics()
}

// newPrometheusLoadableMetrics is implemented in pkg/metrics/prometheus.
var newPrometheusLoadableMetrics func() loadable.Metrics

// RegisterLoadableMetricsConstructor registers the Prometheus loadable
// metrics constructor. Called by pkg/metrics/prometheus during package
// initialization.
func RegisterLoadableMetricsConstructor(constructor func() loadable.Metrics) {
	newPrometheusLoadableMetrics = constructor
}
