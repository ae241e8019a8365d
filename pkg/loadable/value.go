// Package loadable implements a reusable engine for tracking the lifecycle
// of data that is fetched asynchronously inside a unidirectional-dataflow
// application: a four-state value (NotLoaded, Loading, Loaded, Failed), a
// higher-order reducer that drives loads from state, and the primitives an
// inner reducer needs to request, cancel, and observe them.
package loadable

// kind tags the variant a Value currently holds.
type kind int

const (
	kindNotLoaded kind = iota
	kindLoading
	kindLoaded
	kindFailed
)

// Value is a tagged union over the four states a loadable value can be in.
// The zero Value is NotLoaded{ReadyToLoad: false}.
//
// Value carries at most one V at a time: Loaded.value when loaded, or
// Loading.prior while a reload is in flight. NotLoaded and Failed never
// carry a value - see CurrentValue.
type Value[V any] struct {
	k kind

	// readyToLoad is only meaningful when k == kindNotLoaded.
	readyToLoad bool

	// prior is only meaningful when k == kindLoading; it holds the value
	// that was current immediately before the load began, if any.
	prior    V
	hasPrior bool

	// value and isStale are only meaningful when k == kindLoaded.
	value    V
	hasValue bool
	isStale  bool
}

// NotLoaded returns a Value in its initial, resting state.
func NotLoaded[V any]() Value[V] {
	return Value[V]{k: kindNotLoaded}
}

// LoadedWith returns a Value already populated with v, as if a load had
// just completed successfully. This is the "initialized with a value"
// lifecycle entry point from the data model.
func LoadedWith[V any](v V) Value[V] {
	return Value[V]{k: kindLoaded, value: v, hasValue: true}
}

// Unload resets the receiver to NotLoaded{ReadyToLoad: false}, discarding
// any carried value. Idempotent.
func (s *Value[V]) Unload() {
	*s = Value[V]{k: kindNotLoaded}
}

// ReadyToLoad resets the receiver to NotLoaded{ReadyToLoad: true},
// discarding any carried value and signalling the reducer to begin a load
// on its next pass. Calling this while Loaded discards the value; use
// MarkAsStale to request a reload without discarding it.
func (s *Value[V]) ReadyToLoad() {
	*s = Value[V]{k: kindNotLoaded, readyToLoad: true}
}

// MarkAsStale requests a reload without discarding the current value. If
// the receiver is Loaded or Loading, it becomes Loaded{currentValue,
// isStale: true}; otherwise it becomes NotLoaded{ReadyToLoad: true}.
// Idempotent when already stale.
func (s *Value[V]) MarkAsStale() {
	if s.k != kindLoaded && s.k != kindLoading {
		*s = Value[V]{k: kindNotLoaded, readyToLoad: true}
		return
	}
	v, hasValue := s.CurrentValue()
	*s = Value[V]{k: kindLoaded, value: v, hasValue: hasValue, isStale: true}
}

// Loading transitions the receiver to Loading. When withCurrentValue is
// true, the current value (if any) is preserved as Loading.prior so the
// UI may keep displaying it during the reload.
func (s *Value[V]) Loading(withCurrentValue bool) {
	var prior V
	var hasPrior bool
	if withCurrentValue {
		prior, hasPrior = s.CurrentValue()
	}
	*s = Value[V]{k: kindLoading, prior: prior, hasPrior: hasPrior}
}

// Loaded transitions the receiver to Loaded{value: v, isStale: false}.
func (s *Value[V]) Loaded(v V) {
	*s = Value[V]{k: kindLoaded, value: v, hasValue: true}
}

// LoadedEmpty transitions the receiver to Loaded with no value, modeling a
// successful load that legitimately yielded nothing.
func (s *Value[V]) LoadedEmpty() {
	*s = Value[V]{k: kindLoaded}
}

// Failed transitions the receiver to Failed, discarding any carried value.
func (s *Value[V]) Failed() {
	*s = Value[V]{k: kindFailed}
}

// UpdateValue applies f to the carried value, if any, leaving the variant
// and its flags untouched: a stale Loaded value stays stale, and a reload
// in flight keeps showing the transformed prior. No-op in NotLoaded and
// Failed, which carry nothing.
func (s *Value[V]) UpdateValue(f func(V) V) {
	switch s.k {
	case kindLoaded:
		if s.hasValue {
			s.value = f(s.value)
		}
	case kindLoading:
		if s.hasPrior {
			s.prior = f(s.prior)
		}
	}
}

// CurrentValue returns the value from Loaded (if present) or the prior
// value from Loading (if present), and whether one was available.
func (s Value[V]) CurrentValue() (V, bool) {
	switch s.k {
	case kindLoaded:
		if s.hasValue {
			return s.value, true
		}
	case kindLoading:
		if s.hasPrior {
			return s.prior, true
		}
	}
	var zero V
	return zero, false
}

// IsNotLoaded reports whether the receiver is in the NotLoaded variant.
func (s Value[V]) IsNotLoaded() bool { return s.k == kindNotLoaded }

// IsLoading reports whether the receiver is in the Loading variant.
func (s Value[V]) IsLoading() bool { return s.k == kindLoading }

// IsLoaded reports whether the receiver is in the Loaded variant.
func (s Value[V]) IsLoaded() bool { return s.k == kindLoaded }

// HasFailed reports whether the receiver is in the Failed variant.
func (s Value[V]) HasFailed() bool { return s.k == kindFailed }

// IsReloading reports whether a load is in flight and a prior value is
// available to keep displaying meanwhile.
func (s Value[V]) IsReloading() bool {
	if !s.IsLoading() {
		return false
	}
	_, ok := s.CurrentValue()
	return ok
}

// IsPerformingInitialLoad reports whether a load is in flight with no
// prior value available.
func (s Value[V]) IsPerformingInitialLoad() bool {
	if !s.IsLoading() {
		return false
	}
	_, ok := s.CurrentValue()
	return !ok
}

// IsStale reports whether the receiver is a Loaded value flagged for
// reload. Only true in the Loaded variant.
func (s Value[V]) IsStale() bool { return s.k == kindLoaded && s.isStale }

// IsReadyToLoad reports whether the receiver is NotLoaded and flagged to
// begin loading on the next reducer pass. Only true in the NotLoaded
// variant.
func (s Value[V]) IsReadyToLoad() bool { return s.k == kindNotLoaded && s.readyToLoad }

// RequiresLoading is the sole trigger predicate the loadable reducer
// inspects to decide whether a state-driven load is due.
func (s Value[V]) RequiresLoading() bool { return s.IsStale() || s.IsReadyToLoad() }
