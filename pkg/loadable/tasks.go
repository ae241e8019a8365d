package loadable

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// taskToken identifies one launched load task, so a late completion from
// a task that has since been superseded or cancelled can be recognized
// and dropped instead of corrupting state.
type taskToken uuid.UUID

func newTaskToken() taskToken {
	return taskToken(uuid.New())
}

func (t taskToken) String() string {
	return uuid.UUID(t).String()
}

// taskEntry tracks one in-flight load task.
type taskEntry struct {
	token  taskToken
	cancel context.CancelFunc
	done   chan struct{}
}

// taskRegistry owns the in-flight task map for every loadable Path a
// single LoadableReducer (and its children, in the paginated variants)
// drives. At most one task is registered per path at any time.
type taskRegistry struct {
	mu      sync.Mutex
	entries map[PathID]*taskEntry

	// latest records the token of the most recently launched task for
	// each path. It is not cleared on completion - only overwritten by a
	// later launch, or removed by requestCancel. entries drops a path's entry the moment its
	// task finishes, so isCurrent cannot use entries alone: a freshly
	// completed, non-superseded task's own completion action must still
	// read as current when the reducer processes it.
	latest map[PathID]taskToken

	metrics Metrics
}

func newTaskRegistry(metrics Metrics) *taskRegistry {
	return &taskRegistry{
		entries: make(map[PathID]*taskEntry),
		latest:  make(map[PathID]taskToken),
		metrics: metrics,
	}
}

// launch cancels and replaces any existing task for path synchronously -
// a subsequent cancel request on the very next reducer pass is guaranteed
// to observe the new task, never the old one - and starts fn on its own
// goroutine. fn is called with the new task's context and must return
// promptly after the context is cancelled.
//
// onDone is invoked from the task's goroutine once fn returns, with the
// token that was current when the task launched (so the caller can detect
// and drop a stale completion).
func (r *taskRegistry) launch(
	parent context.Context,
	path PathID,
	fn func(ctx context.Context) (result any, err error),
	onDone func(token taskToken, result any, err error, duration time.Duration),
) taskToken {
	r.mu.Lock()
	r.cancelLocked(path)

	ctx, cancel := context.WithCancel(parent)
	token := newTaskToken()
	entry := &taskEntry{token: token, cancel: cancel, done: make(chan struct{})}
	r.entries[path] = entry
	r.latest[path] = token
	inFlight := len(r.entries)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ObserveLoadStarted(path)
		r.metrics.RecordInFlight(inFlight)
	}

	go func() {
		start := time.Now()
		result, err := fn(ctx)
		duration := time.Since(start)

		r.mu.Lock()
		current, stillRegistered := r.entries[path]
		if stillRegistered && current.token == token {
			delete(r.entries, path)
		}
		remaining := len(r.entries)
		r.mu.Unlock()

		if r.metrics != nil {
			r.metrics.RecordInFlight(remaining)
		}

		// Close done before invoking onDone: a caller blocked in
		// cancelReturningToken's <-entry.done may itself be holding a
		// lock onDone's dispatch needs downstream, so the wait must be
		// satisfied first.
		close(entry.done)
		onDone(token, result, err, duration)
	}()

	return token
}

// cancel cancels the in-flight task for path, if any, and waits for its
// goroutine to observe cancellation and exit. Returns ErrTaskNotFound if
// no task is registered.
func (r *taskRegistry) cancel(path PathID) error {
	_, err := r.cancelReturningToken(path)
	return err
}

// cancelReturningToken behaves like cancel but also returns the token of
// the task that was cancelled, so a caller can dispatch a matching
// LoadRequestCancelled action.
func (r *taskRegistry) cancelReturningToken(path PathID) (taskToken, error) {
	r.mu.Lock()
	entry, ok := r.entries[path]
	if ok {
		delete(r.entries, path)
	}
	r.mu.Unlock()

	if !ok {
		return taskToken{}, ErrTaskNotFound
	}
	entry.cancel()
	<-entry.done
	return entry.token, nil
}

// requestCancel cancels the in-flight task for path, if any, without
// waiting for its goroutine to exit. The task's own onDone callback -
// already wired to dispatch the matching LoadRequestCancelled action -
// fires once the task notices ctx is done and returns. The path's latest
// token is forgotten as well, so isCurrent rejects any completion the
// cancelled task dispatches afterwards. Used from within
// a reducer pass, where blocking on <-entry.done would deadlock against
// a host that serializes Reduce calls with a mutex also needed by that
// same onDone callback's dispatch.
func (r *taskRegistry) requestCancel(path PathID) {
	r.mu.Lock()
	entry, ok := r.entries[path]
	if ok {
		delete(r.entries, path)
	}
	delete(r.latest, path)
	r.mu.Unlock()

	if ok {
		entry.cancel()
	}
}

// cancelLocked cancels any task registered for path. Caller must hold
// r.mu.
func (r *taskRegistry) cancelLocked(path PathID) {
	if entry, ok := r.entries[path]; ok {
		delete(r.entries, path)
		entry.cancel()
	}
}

// isCurrent reports whether token names the most recently launched task
// for path - i.e. no newer task has since superseded it. A token whose
// task has already completed (and been removed from entries) is still
// current as long as nothing replaced it afterwards; a token whose task
// was superseded by a later launch, or cancelled via requestCancel, is not.
func (r *taskRegistry) isCurrent(path PathID, token taskToken) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest, ok := r.latest[path]
	return ok && latest == token
}

// inFlightCount returns the number of tasks currently registered.
func (r *taskRegistry) inFlightCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
