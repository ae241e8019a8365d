package loadable

// Container pairs a loadable Value with the two accessors view code
// wants: CurrentValue for the data alone, and State for the full union.
// Assigning through SetValue forces the Loaded variant, so a field that
// only ever receives plain values behaves like an ordinary one while the
// lifecycle stays inspectable next to it.
//
// Observers registered with Observe are invoked on every mutation of the
// state, whichever accessor performed it. The container does not
// serialize calls; like the rest of the engine it expects mutations to
// arrive on the host's single store executor.
type Container[V any] struct {
	state     Value[V]
	observers []Observer[V]
}

// NewContainer returns a container in the NotLoaded resting state.
func NewContainer[V any]() *Container[V] {
	return &Container[V]{state: NotLoaded[V]()}
}

// NewContainerWith returns a container already holding v, as if a load
// had completed.
func NewContainerWith[V any](v V) *Container[V] {
	return &Container[V]{state: LoadedWith(v)}
}

// CurrentValue returns the held value, if any.
func (c *Container[V]) CurrentValue() (V, bool) {
	return c.state.CurrentValue()
}

// SetValue assigns the inner value, forcing Loaded{v, stale: false}.
func (c *Container[V]) SetValue(v V) {
	c.state.Loaded(v)
	c.notify()
}

// State returns the full loadable union.
func (c *Container[V]) State() Value[V] {
	return c.state
}

// SetState replaces the full loadable union.
func (c *Container[V]) SetState(s Value[V]) {
	c.state = s
	c.notify()
}

// Mutate applies one or more transitions to the state in place and
// notifies observers once afterwards.
func (c *Container[V]) Mutate(f func(*Value[V])) {
	f(&c.state)
	c.notify()
}

// Observe registers an observer invoked after every mutation.
func (c *Container[V]) Observe(o Observer[V]) {
	c.observers = append(c.observers, o)
}

// Path returns a lens over the container, so a state type holding
// containers can hand one straight to a reducer Config.
func (c *Container[V]) Path() Path[*Container[V], V] {
	return Path[*Container[V], V]{
		Get: func(c *Container[V]) Value[V] { return c.state },
		Set: func(c **Container[V], v Value[V]) { (*c).SetState(v) },
	}
}

func (c *Container[V]) notify() {
	for _, o := range c.observers {
		o.ValueChanged(c.state)
	}
}
