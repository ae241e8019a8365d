package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds load-scoped logging context. It travels with the
// context handed to a load task so every log line emitted during the
// load carries the same correlation fields.
type LogContext struct {
	TraceID   string    // Trace ID for request correlation
	SpanID    string    // Span ID for operation tracking
	Loadable  string    // Loadable path identifier
	TaskID    string    // Load task identity token
	Mode      string    // Merge mode for paginated loads
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given loadable path
func NewLogContext(loadable string) *LogContext {
	return &LogContext{
		Loadable:  loadable,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:   lc.TraceID,
		SpanID:    lc.SpanID,
		Loadable:  lc.Loadable,
		TaskID:    lc.TaskID,
		Mode:      lc.Mode,
		StartTime: lc.StartTime,
	}
}

// WithTask returns a copy with the task token set
func (lc *LogContext) WithTask(taskID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TaskID = taskID
	}
	return clone
}

// WithMode returns a copy with the merge mode set
func (lc *LogContext) WithMode(mode string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Mode = mode
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
