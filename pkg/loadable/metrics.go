package loadable

import "time"

// Metrics provides observability for loadable reducers. Implementations
// can use this interface to collect metrics about load attempts, their
// latency, and how many are currently in flight. Optional - if nil, a
// LoadableReducer skips metrics collection entirely.
//
// Example implementations:
//   - Prometheus metrics (pkg/metrics/prometheus)
//   - In-memory counters for testing
type Metrics interface {
	// ObserveLoadStarted records that a load task was launched for path.
	ObserveLoadStarted(path PathID)

	// ObserveLoadSucceeded records a load that completed successfully,
	// along with how long it took.
	ObserveLoadSucceeded(path PathID, duration time.Duration)

	// ObserveLoadFailed records a load that completed with a non-
	// cancellation error, along with how long it took.
	ObserveLoadFailed(path PathID, duration time.Duration)

	// ObserveLoadCancelled records a load that was cancelled, either
	// externally or by the load func itself.
	ObserveLoadCancelled(path PathID, duration time.Duration)

	// RecordInFlight records the current number of in-flight tasks across
	// all loadable paths owned by a reducer tree.
	RecordInFlight(count int)
}
