package pagination

import (
	"context"

	"github.com/loadkit/loadstate/pkg/loadable"
)

// Config wires a paginated loadable: a loadable.Config whose Load closure
// is derived from a page fetcher plus a merge mode, instead of being
// supplied directly.
type Config[S any, A any, C Collection[C, V, P], V any, P any] struct {
	// PathID names the loadable for task bookkeeping and metrics.
	PathID loadable.PathID

	// Path projects the driven collection's loadable value out of S.
	Path loadable.Path[S, C]

	// Action is the prism between the host's action type and the
	// loadable actions this path reacts to and produces.
	Action loadable.ActionCase[A, C]

	// Triggers reports whether an action should force a load even though
	// the loadable state alone would not. Optional.
	Triggers func(A) bool

	// Guard is the user's own precondition, composed by conjunction with
	// the built-in one that skips UpsertNext loads when the collection
	// has no next page. Optional; defaults to always true.
	Guard func(S) bool

	// FirstPage produces the key of the first page. It is a function, not
	// a value, so the first page may be time-dependent - a timestamped
	// window anchored at "now", for example.
	FirstPage func() P

	// Mode selects how the fetched page is merged into the collection,
	// read from state at launch time. Optional; defaults to UpsertNext.
	Mode func(S) LoadingMode

	// FromInitial constructs a fresh collection from a first page. For
	// IdentifiedCollection this is NewIdentified.
	FromInitial func(slice PageSlice[V, P]) C

	// LoadPage fetches one page. It receives the state snapshot taken at
	// launch, like any other load closure.
	LoadPage func(ctx context.Context, page P, state S) (PageSlice[V, P], error)

	// Metrics is optional observability; nil disables it.
	Metrics loadable.Metrics

	// Observer is notified when the reducer changes the driven value:
	// on launch (Loading) and when a load completes as Loaded or Failed.
	// Changes made by the inner reducer are not reported. Optional.
	Observer loadable.Observer[C]
}

// New constructs a LoadableReducer whose load closure pages through a
// remote collection:
//
//   - with no current collection, the first page is fetched and a fresh
//     collection built from it, whatever the mode;
//   - UpsertNext fetches the collection's next page and appends it, or
//     cancels the attempt when there is none;
//   - UpsertFirst re-fetches the first page and merges it at the front;
//   - Reload re-fetches the first page and replaces the collection.
func New[S any, A any, C Collection[C, V, P], V any, P any](cfg Config[S, A, C, V, P], inner loadable.Inner[S, A]) *loadable.LoadableReducer[S, A, C] {
	mode := cfg.Mode
	if mode == nil {
		mode = func(S) LoadingMode { return UpsertNext }
	}
	userGuard := cfg.Guard
	if userGuard == nil {
		userGuard = func(S) bool { return true }
	}

	// Skip the launch outright when appending with nowhere to append
	// from. The load closure below repeats the check and cancels, but
	// catching it here means no task, no Loading transition, no state
	// churn at all.
	guard := func(state S) bool {
		if !userGuard(state) {
			return false
		}
		if mode(state) != UpsertNext {
			return true
		}
		current, ok := cfg.Path.Get(state).CurrentValue()
		if !ok {
			return true
		}
		return current.HasNextPage()
	}

	load := func(ctx context.Context, state S) (C, bool, error) {
		var zero C

		current, hasCurrent := cfg.Path.Get(state).CurrentValue()
		if !hasCurrent {
			slice, err := cfg.LoadPage(ctx, cfg.FirstPage(), state)
			if err != nil {
				return zero, false, err
			}
			return cfg.FromInitial(slice), true, nil
		}

		switch mode(state) {
		case UpsertNext:
			next, ok := current.NextPage()
			if !ok {
				return zero, false, loadable.ErrNoNextPage
			}
			slice, err := cfg.LoadPage(ctx, next, state)
			if err != nil {
				return zero, false, err
			}
			return current.UpsertAppending(slice), true, nil

		case UpsertFirst:
			slice, err := cfg.LoadPage(ctx, cfg.FirstPage(), state)
			if err != nil {
				return zero, false, err
			}
			return current.UpsertPrepending(slice), true, nil

		default: // Reload
			slice, err := cfg.LoadPage(ctx, cfg.FirstPage(), state)
			if err != nil {
				return zero, false, err
			}
			return cfg.FromInitial(slice), true, nil
		}
	}

	return loadable.New(loadable.Config[S, A, C]{
		PathID:   cfg.PathID,
		Path:     cfg.Path,
		Action:   cfg.Action,
		Triggers: cfg.Triggers,
		Guard:    guard,
		Load:     load,
		Metrics:  cfg.Metrics,
		Observer: cfg.Observer,
	}, inner)
}
