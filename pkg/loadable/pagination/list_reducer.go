package pagination

import (
	"context"

	"github.com/loadkit/loadstate/pkg/loadable"
)

// ListState is the state slice a ListReducer drives: an identified,
// paginated collection behind a loadable value, plus the merge mode the
// next load attempt should use.
type ListState[V Identifiable, P any] struct {
	Items loadable.Value[IdentifiedCollection[V, P]]
	Mode  LoadingMode
}

// Remove drops the given ids from the collection in place, without
// changing the load state - a Loaded value stays Loaded, stale stays
// stale, and a reload in flight keeps its prior.
func (s *ListState[V, P]) Remove(ids ...string) {
	s.Items.UpdateValue(func(c IdentifiedCollection[V, P]) IdentifiedCollection[V, P] {
		return c.Removing(ids...)
	})
}

// Update replaces the record sharing v's id in place, without changing
// the load state. No-op when the id is not present.
func (s *ListState[V, P]) Update(v V) {
	s.Items.UpdateValue(func(c IdentifiedCollection[V, P]) IdentifiedCollection[V, P] {
		return c.Updating(v)
	})
}

// listActionKind enumerates the preset list actions.
type listActionKind int

const (
	listActionFirstAppear listActionKind = iota
	listActionPullToRefresh
	listActionReachedEndOfPage
	listActionRetry
	listActionLoadable
)

// ListAction is the opinionated action set a ListReducer understands:
// the four user-intent actions list UIs need, plus the loadable
// completion/cancellation actions the reducer feeds back to itself.
type ListAction[V Identifiable, P any] struct {
	kind     listActionKind
	loadable loadable.LoadableAction[IdentifiedCollection[V, P]]
}

// FirstAppear is dispatched when the list becomes visible for the first
// time: the collection reloads from the first page, restarting any load
// already in flight.
func FirstAppear[V Identifiable, P any]() ListAction[V, P] {
	return ListAction[V, P]{kind: listActionFirstAppear}
}

// PullToRefresh reloads from the first page while the current records
// stay on screen.
func PullToRefresh[V Identifiable, P any]() ListAction[V, P] {
	return ListAction[V, P]{kind: listActionPullToRefresh}
}

// ReachedEndOfPage fetches and appends the next page. When the collection
// has no next page no load is launched, but the mode is still set to
// UpsertNext and the value marked stale.
func ReachedEndOfPage[V Identifiable, P any]() ListAction[V, P] {
	return ListAction[V, P]{kind: listActionReachedEndOfPage}
}

// Retry restarts the load from the first page, typically after a failure.
func Retry[V Identifiable, P any]() ListAction[V, P] {
	return ListAction[V, P]{kind: listActionRetry}
}

// ListConfig configures a ListReducer.
type ListConfig[V Identifiable, P any] struct {
	// PathID names the loadable for task bookkeeping and metrics.
	PathID loadable.PathID

	// FirstPage produces the key of the first page.
	FirstPage func() P

	// LoadPage fetches one page of records.
	LoadPage func(ctx context.Context, page P) (PageSlice[V, P], error)

	// Guard optionally vetoes load attempts; defaults to always true.
	Guard func(ListState[V, P]) bool

	// Metrics is optional observability; nil disables it.
	Metrics loadable.Metrics

	// Observer is notified when the reducer changes the loadable value:
	// on launch (Loading) and when a load completes as Loaded or Failed.
	// The list actions' own state changes are not reported. Optional.
	Observer loadable.Observer[IdentifiedCollection[V, P]]
}

// ListReducer is the preset wiring for list UIs: an IdentifiedCollection
// behind a loadable value, driven by the four list actions. First
// appearance and retry reload from scratch, pull-to-refresh reloads while
// keeping the current records visible, and reaching the end of the page
// appends the next one.
type ListReducer[V Identifiable, P any] struct {
	reducer *loadable.LoadableReducer[ListState[V, P], ListAction[V, P], IdentifiedCollection[V, P]]
}

// NewList constructs a ListReducer.
func NewList[V Identifiable, P any](cfg ListConfig[V, P]) *ListReducer[V, P] {
	pageCfg := Config[ListState[V, P], ListAction[V, P], IdentifiedCollection[V, P], V, P]{
		PathID: cfg.PathID,
		Path: loadable.Path[ListState[V, P], IdentifiedCollection[V, P]]{
			Get: func(s ListState[V, P]) loadable.Value[IdentifiedCollection[V, P]] { return s.Items },
			Set: func(s *ListState[V, P], v loadable.Value[IdentifiedCollection[V, P]]) { s.Items = v },
		},
		Action: loadable.ActionCase[ListAction[V, P], IdentifiedCollection[V, P]]{
			Embed: func(la loadable.LoadableAction[IdentifiedCollection[V, P]]) ListAction[V, P] {
				return ListAction[V, P]{kind: listActionLoadable, loadable: la}
			},
			Extract: func(a ListAction[V, P]) (loadable.LoadableAction[IdentifiedCollection[V, P]], bool) {
				if a.kind != listActionLoadable {
					return loadable.LoadableAction[IdentifiedCollection[V, P]]{}, false
				}
				return a.loadable, true
			},
		},
		Guard:       cfg.Guard,
		FirstPage:   cfg.FirstPage,
		Mode:        func(s ListState[V, P]) LoadingMode { return s.Mode },
		FromInitial: NewIdentified[V, P],
		LoadPage: func(ctx context.Context, page P, _ ListState[V, P]) (PageSlice[V, P], error) {
			return cfg.LoadPage(ctx, page)
		},
		Metrics:  cfg.Metrics,
		Observer: cfg.Observer,
	}

	return &ListReducer[V, P]{reducer: New(pageCfg, listInner[V, P])}
}

// listInner translates the preset actions into loadable state
// transitions; the wrapping reducer re-inspects state in the same pass
// and launches (or restarts) the matching load.
func listInner[V Identifiable, P any](_ context.Context, state *ListState[V, P], a ListAction[V, P], _ loadable.Dispatch[ListAction[V, P]]) {
	switch a.kind {
	case listActionFirstAppear, listActionRetry:
		state.Mode = Reload
		state.Items.ReadyToLoad()
	case listActionPullToRefresh:
		state.Mode = Reload
		state.Items.MarkAsStale()
	case listActionReachedEndOfPage:
		state.Mode = UpsertNext
		state.Items.MarkAsStale()
	}
}

// Reduce runs one pass over action.
func (r *ListReducer[V, P]) Reduce(ctx context.Context, state *ListState[V, P], action ListAction[V, P], dispatch loadable.Dispatch[ListAction[V, P]]) {
	r.reducer.Reduce(ctx, state, action, dispatch)
}

// InFlightCount reports how many load tasks are currently running.
func (r *ListReducer[V, P]) InFlightCount() int {
	return r.reducer.InFlightCount()
}
