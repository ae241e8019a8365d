package loadable

import (
	"context"
	"time"

	"github.com/loadkit/loadstate/internal/logger"
)

// Inner is the signature a host reducer implements to be wrapped by a
// LoadableReducer. It receives the same dispatch the outer reducer uses,
// so an inner reducer can itself trigger further actions (including, for
// external cancellation, resetting the loadable Path back to NotLoaded).
type Inner[S any, A any] func(ctx context.Context, state *S, action A, dispatch Dispatch[A])

// Config wires a LoadableReducer to one loadable Path inside a larger
// state/action pair.
type Config[S any, A any, V any] struct {
	// PathID names the Path for task-registry bookkeeping and metrics.
	// Must be unique among the loadable paths sharing a LoadableReducer
	// tree (typically one PathID per field).
	PathID PathID

	// Path projects the driven Value out of S.
	Path Path[S, V]

	// Action is the prism between the host's action type and the two
	// LoadableAction cases this Path reacts to and produces.
	Action ActionCase[A, V]

	// Triggers reports whether an action other than a RequiresLoading
	// state transition should also start a load - e.g. a dedicated
	// "onAppear" action the host dispatches once per screen. Optional;
	// defaults to never triggering outside of state-driven loads.
	Triggers func(A) bool

	// Guard reports whether a load may begin given the current (already
	// inner-reduced) state. Optional; defaults to always true. A false
	// Guard silently skips the load - no task, no state mutation.
	Guard func(S) bool

	// Load performs the actual asynchronous fetch. It must return
	// promptly once ctx is cancelled. A nil error with hasValue false
	// models a load that legitimately produced nothing.
	Load func(ctx context.Context, state S) (value V, hasValue bool, err error)

	// Metrics is optional observability; nil disables it.
	Metrics Metrics

	// Observer is notified when this reducer changes the driven Value:
	// on launch (Loading) and when a load completes as Loaded or Failed.
	// Changes made by the inner reducer are not reported. Optional.
	Observer Observer[V]
}

// loadOutcome is the internal payload a launched task's goroutine hands
// back to taskRegistry.launch's onDone callback.
type loadOutcome[V any] struct {
	value    V
	hasValue bool
}

// LoadableReducer wraps an inner reducer with load-lifecycle logic: on
// every action it runs the inner reducer, then inspects the resulting
// Value to decide whether a load is due, and drives that load's task to
// completion (or cancellation) independently of the inner reducer's own
// concerns.
type LoadableReducer[S any, A any, V any] struct {
	cfg   Config[S, A, V]
	inner Inner[S, A]
	tasks *taskRegistry
}

// New constructs a LoadableReducer. inner may be nil if the wrapped Path
// has no other action to react to.
func New[S any, A any, V any](cfg Config[S, A, V], inner Inner[S, A]) *LoadableReducer[S, A, V] {
	if cfg.Triggers == nil {
		cfg.Triggers = func(A) bool { return false }
	}
	if cfg.Guard == nil {
		cfg.Guard = func(S) bool { return true }
	}
	return &LoadableReducer[S, A, V]{
		cfg:   cfg,
		inner: inner,
		tasks: newTaskRegistry(cfg.Metrics),
	}
}

// AnyTrigger combines several trigger predicates into one that fires if
// any of them would.
func AnyTrigger[A any](predicates ...func(A) bool) func(A) bool {
	return func(a A) bool {
		for _, p := range predicates {
			if p(a) {
				return true
			}
		}
		return false
	}
}

// Reduce runs one pass of the reducer over action: it applies the pure
// LoadableAction transition (if action belongs to this Path), runs the
// inner reducer, and then decides whether a load must be launched or an
// in-flight one cancelled. The inner reducer always sees the action
// before the launch decision is made, so state it mutates in the same
// pass counts.
//
// Task registration and cancellation happen synchronously within this
// call - never deferred to a later tick - so a cancel dispatched on the
// very next pass is guaranteed to observe the task this pass launched,
// closing the race a naive "return an effect to run later" design would
// leave open.
func (r *LoadableReducer[S, A, V]) Reduce(ctx context.Context, state *S, action A, dispatch Dispatch[A]) {
	path := r.cfg.Path

	if loadableAction, ok := r.cfg.Action.Extract(action); ok {
		r.applyTransition(path, state, loadableAction)
	}

	wasLoadingBefore := path.Get(*state).IsLoading()

	if r.inner != nil {
		r.inner(ctx, state, action, dispatch)
	}

	current := path.Get(*state)
	switch {
	case current.RequiresLoading() || r.cfg.Triggers(action):
		r.launch(ctx, state, dispatch)
	case wasLoadingBefore && current.IsNotLoaded() && !current.IsReadyToLoad():
		r.cancelAndNotify()
	}
}

// applyTransition handles a LoadableAction the reducer dispatched back to
// itself: a completed or cancelled load task. A completion or
// cancellation whose token no longer matches the task most recently
// launched for this Path is a late arrival from a task this reducer has
// since superseded, and is dropped without mutating state.
func (r *LoadableReducer[S, A, V]) applyTransition(path Path[S, V], state *S, a LoadableAction[V]) {
	if !r.tasks.isCurrent(r.cfg.PathID, a.token) {
		return
	}

	if result, ok := a.IsCompleted(); ok {
		switch classify(result.Err) {
		case outcomeSuccess:
			v := path.Get(*state)
			if result.HasValue {
				v.Loaded(result.Value)
			} else {
				v.LoadedEmpty()
			}
			path.Set(state, v)
			r.notify(path, state)
		case outcomeCancelled:
			// Cooperative self-cancellation: leave state as-is.
		case outcomeFailure:
			v := path.Get(*state)
			v.Failed()
			path.Set(state, v)
			r.notify(path, state)
		}
		return
	}

	// a.IsCancelled(): externally cancelled load. The inner reducer is
	// responsible for whatever state reset triggered the cancellation and
	// sees this action like any other; the Value is left unchanged and the
	// Observer is not called.
}

// launch starts a new load task for the wrapped Path, cancelling any
// task already in flight for it first.
func (r *LoadableReducer[S, A, V]) launch(ctx context.Context, state *S, dispatch Dispatch[A]) {
	path := r.cfg.Path

	if !r.cfg.Guard(*state) {
		logger.Debug("load skipped by guard", logger.Loadable(string(r.cfg.PathID)), logger.Operation("skip"))
		return
	}

	snapshot := *state
	current := path.Get(*state)
	current.Loading(true)
	path.Set(state, current)
	r.notify(path, state)

	fn := func(taskCtx context.Context) (any, error) {
		v, hasValue, err := r.cfg.Load(taskCtx, snapshot)
		return loadOutcome[V]{value: v, hasValue: hasValue}, err
	}

	onDone := func(token taskToken, result any, err error, duration time.Duration) {
		r.dispatchCompletion(token, result, err, duration, dispatch)
	}

	token := r.tasks.launch(ctx, r.cfg.PathID, fn, onDone)
	logger.Debug("load task launched",
		logger.Loadable(string(r.cfg.PathID)),
		logger.TaskID(token.String()),
		logger.Operation("launch"),
		logger.InFlight(r.tasks.inFlightCount()))
}

// dispatchCompletion runs on the launched task's own goroutine once it
// returns, translating its outcome into the matching LoadableAction and
// metrics observation.
func (r *LoadableReducer[S, A, V]) dispatchCompletion(token taskToken, result any, err error, duration time.Duration, dispatch Dispatch[A]) {
	metrics := r.cfg.Metrics

	switch classify(err) {
	case outcomeSuccess:
		if metrics != nil {
			metrics.ObserveLoadSucceeded(r.cfg.PathID, duration)
		}
		logger.Debug("load completed",
			logger.Loadable(string(r.cfg.PathID)),
			logger.TaskID(token.String()),
			logger.DurationMs(duration))
		out := result.(loadOutcome[V])
		dispatch(r.cfg.Action.Embed(Completed(token, Result[V]{Value: out.value, HasValue: out.hasValue})))
	case outcomeCancelled:
		if metrics != nil {
			metrics.ObserveLoadCancelled(r.cfg.PathID, duration)
		}
		logger.Debug("load cancelled",
			logger.Loadable(string(r.cfg.PathID)),
			logger.TaskID(token.String()),
			logger.DurationMs(duration))
		dispatch(r.cfg.Action.Embed(Cancelled[V](token)))
	case outcomeFailure:
		if metrics != nil {
			metrics.ObserveLoadFailed(r.cfg.PathID, duration)
		}
		logger.Warn("load failed",
			logger.Loadable(string(r.cfg.PathID)),
			logger.TaskID(token.String()),
			logger.DurationMs(duration),
			logger.Err(err))
		dispatch(r.cfg.Action.Embed(Completed(token, Result[V]{Err: err})))
	}
}

// cancelAndNotify cancels the task in flight for this Path, if any - it
// may already have completed on its own. It does not itself dispatch the
// matching LoadRequestCancelled action: the cancelled task's own
// completion, once its goroutine notices ctx is done and returns, drives
// that through dispatchCompletion exactly as a self-cancelling load does
// in the cancellation-inside-load case. Waiting here for the goroutine to
// exit before returning would deadlock a host that serializes Reduce
// calls with a lock dispatchCompletion also needs.
func (r *LoadableReducer[S, A, V]) cancelAndNotify() {
	logger.Debug("cancelling in-flight load", logger.Loadable(string(r.cfg.PathID)), logger.Operation("cancel"))
	r.tasks.requestCancel(r.cfg.PathID)
}

// notify calls the configured Observer, if any, with the Path's current
// value.
func (r *LoadableReducer[S, A, V]) notify(path Path[S, V], state *S) {
	if r.cfg.Observer != nil {
		r.cfg.Observer.ValueChanged(path.Get(*state))
	}
}

// InFlightCount reports how many load tasks this reducer currently has
// running. Exposed for tests and for a host's own metrics/health checks.
func (r *LoadableReducer[S, A, V]) InFlightCount() int {
	return r.tasks.inFlightCount()
}
