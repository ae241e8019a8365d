package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so load activity
// can be aggregated and queried by loadable, task, or mode.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // Trace ID for request correlation
	KeySpanID  = "span_id"  // Span ID for operation tracking

	// ========================================================================
	// Load Lifecycle
	// ========================================================================
	KeyLoadable  = "loadable"  // Loadable path identifier
	KeyTaskID    = "task_id"   // Launched load task identity token
	KeyMode      = "mode"      // Merge mode: upsert_next, upsert_first, reload
	KeyOperation = "operation" // Lifecycle step: launch, complete, cancel, skip
	KeyInFlight  = "in_flight" // Number of load tasks currently running
	KeyState     = "state"     // Loadable variant: not_loaded, loading, loaded, failed
	KeyStale     = "stale"     // Loaded value flagged for reload
	KeyTrigger   = "trigger"   // What started the load: state, action

	// ========================================================================
	// Pagination
	// ========================================================================
	KeyPage     = "page"      // Page key being fetched (stringified)
	KeyNextPage = "next_page" // Next page key reported by the source
	KeyPageSize = "page_size" // Requested page size
	KeyRecords  = "records"   // Number of records in a slice or collection

	// ========================================================================
	// Outcomes
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyAttempt    = "attempt"     // Load attempt counter, when the caller tracks one

	// ========================================================================
	// Source
	// ========================================================================
	KeyEndpoint = "endpoint" // Remote endpoint a load fetches from
	KeyStatus   = "status"   // Response status code, when HTTP-backed
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for the trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for the span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Loadable returns a slog.Attr for the loadable path identifier
func Loadable(path string) slog.Attr {
	return slog.String(KeyLoadable, path)
}

// TaskID returns a slog.Attr for a load task's identity token
func TaskID(id string) slog.Attr {
	return slog.String(KeyTaskID, id)
}

// Mode returns a slog.Attr for the merge mode
func Mode(mode string) slog.Attr {
	return slog.String(KeyMode, mode)
}

// Operation returns a slog.Attr for the lifecycle step
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// InFlight returns a slog.Attr for the in-flight task count
func InFlight(n int) slog.Attr {
	return slog.Int(KeyInFlight, n)
}

// State returns a slog.Attr for the loadable variant
func State(state string) slog.Attr {
	return slog.String(KeyState, state)
}

// Stale returns a slog.Attr for staleness
func Stale(stale bool) slog.Attr {
	return slog.Bool(KeyStale, stale)
}

// Page returns a slog.Attr for the page key being fetched
func Page(page string) slog.Attr {
	return slog.String(KeyPage, page)
}

// NextPage returns a slog.Attr for the next page key
func NextPage(page string) slog.Attr {
	return slog.String(KeyNextPage, page)
}

// PageSize returns a slog.Attr for the requested page size
func PageSize(size int) slog.Attr {
	return slog.Int(KeyPageSize, size)
}

// Records returns a slog.Attr for a record count
func Records(n int) slog.Attr {
	return slog.Int(KeyRecords, n)
}

// DurationMs returns a slog.Attr for a duration in milliseconds
func DurationMs(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMs, float64(d.Microseconds())/1000.0)
}

// Err returns a slog.Attr for an error. A nil error yields an empty
// attr, so callers can log unconditionally.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Attempt returns a slog.Attr for a load attempt counter
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// Endpoint returns a slog.Attr for the remote endpoint
func Endpoint(url string) slog.Attr {
	return slog.String(KeyEndpoint, url)
}

// Status returns a slog.Attr for a response status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}
