package loadable

// Path is a first-class getter/setter pair projecting a loadable Value out
// of a larger state type S. It plays the role of the key path / lens the
// design notes call for, expressed the idiomatic Go way: two plain
// functions rather than a generated lens type.
type Path[S any, V any] struct {
	Get func(S) Value[V]
	Set func(*S, Value[V])
}

// PathID is a stable token distinguishing one Path from another at
// runtime, used by the task registry to key in-flight tasks. Go has no
// structural identity for closures, so callers supply one explicitly;
// most configurations derive it from the field name or a constant unique
// per loadable in the enclosing state.
type PathID string

// ActionCase is an injective mapping between the two-case LoadableAction[V]
// and the host's full action type A - the "prism" from the design notes.
// Extract reports whether a was produced by Embed (i.e. belongs to this
// loadable); Embed constructs the corresponding host action.
type ActionCase[A any, V any] struct {
	Embed   func(LoadableAction[V]) A
	Extract func(A) (LoadableAction[V], bool)
}
