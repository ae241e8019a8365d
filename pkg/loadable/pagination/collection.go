package pagination

// Collection is the capability set a paginated aggregate must provide to
// be driven by a paginated reducer. C is the implementing type itself, so
// the merge operations can return a new value of the concrete type rather
// than an interface; dispatch is by capability, not inheritance, and
// user-defined aggregates (e.g. search results carrying extra metadata)
// plug in alongside IdentifiedCollection.
//
// Construction from a first page is not part of the capability set - Go
// interfaces have no static methods - so reducers take a FromInitial
// function alongside the collection type.
type Collection[C any, V any, P any] interface {
	// Values returns the aggregated records in order.
	Values() []V

	// LastPage is the page key of the deepest page merged so far.
	LastPage() P

	// NextPage returns the key of the page to fetch next, if the source
	// reported one.
	NextPage() (P, bool)

	// HasNextPage reports whether NextPage would return a key.
	HasNextPage() bool

	// UpsertAppending merges slice at the end of the collection: records
	// whose identity is already present are updated in place, keeping
	// their position; new records are appended in slice order. The
	// collection's page pointers are taken from the slice.
	UpsertAppending(slice PageSlice[V, P]) C

	// UpsertPrepending merges slice at the front of the collection:
	// records already present are updated in place, new records are
	// inserted in slice order. The next-page pointer is preserved from
	// the receiver, never taken from the slice.
	UpsertPrepending(slice PageSlice[V, P]) C
}
