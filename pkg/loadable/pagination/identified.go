package pagination

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Identifiable is implemented by records that carry a stable identity.
// The identity is what upserts deduplicate on.
type Identifiable interface {
	ID() string
}

// IdentifiedCollection is the default Collection implementation, keyed on
// each record's ID. It preserves insertion order and updates records in
// place on id collisions, backed by an insertion-ordered map so upserts
// stay O(1) per record.
//
// The zero IdentifiedCollection is empty with no pages; collections built
// from a page come from NewIdentified. Merge operations return a new
// collection and leave the receiver untouched.
type IdentifiedCollection[V Identifiable, P any] struct {
	items    *orderedmap.OrderedMap[string, V]
	lastPage P
	nextPage *P
}

// NewIdentified constructs an IdentifiedCollection from a first page.
func NewIdentified[V Identifiable, P any](slice PageSlice[V, P]) IdentifiedCollection[V, P] {
	items := orderedmap.New[string, V]()
	for _, v := range slice.Values {
		items.Set(v.ID(), v)
	}
	return IdentifiedCollection[V, P]{
		items:    items,
		lastPage: slice.Page,
		nextPage: copyPage(slice.NextPage),
	}
}

// Values returns the records in insertion order.
func (c IdentifiedCollection[V, P]) Values() []V {
	if c.items == nil {
		return nil
	}
	values := make([]V, 0, c.items.Len())
	for pair := c.items.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}

// IDs returns the record identities in insertion order.
func (c IdentifiedCollection[V, P]) IDs() []string {
	if c.items == nil {
		return nil
	}
	ids := make([]string, 0, c.items.Len())
	for pair := c.items.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Len returns the number of records held.
func (c IdentifiedCollection[V, P]) Len() int {
	if c.items == nil {
		return 0
	}
	return c.items.Len()
}

// Get returns the record with the given id, if present.
func (c IdentifiedCollection[V, P]) Get(id string) (V, bool) {
	if c.items == nil {
		var zero V
		return zero, false
	}
	return c.items.Get(id)
}

// LastPage is the page key of the deepest page merged so far.
func (c IdentifiedCollection[V, P]) LastPage() P {
	return c.lastPage
}

// NextPage returns the key of the page to fetch next, if any.
func (c IdentifiedCollection[V, P]) NextPage() (P, bool) {
	if c.nextPage == nil {
		var zero P
		return zero, false
	}
	return *c.nextPage, true
}

// HasNextPage reports whether a next page is known.
func (c IdentifiedCollection[V, P]) HasNextPage() bool {
	return c.nextPage != nil
}

// UpsertAppending merges slice at the end of the collection. Records whose
// id is already present are updated in place, keeping their position; ids
// unique to the slice are appended in slice order. The page pointers are
// taken from the slice.
func (c IdentifiedCollection[V, P]) UpsertAppending(slice PageSlice[V, P]) IdentifiedCollection[V, P] {
	items := c.cloneItems()
	for _, v := range slice.Values {
		items.Set(v.ID(), v)
	}
	return IdentifiedCollection[V, P]{
		items:    items,
		lastPage: slice.Page,
		nextPage: copyPage(slice.NextPage),
	}
}

// UpsertPrepending merges slice at the front of the collection. Records
// whose id is already present are updated in place, keeping their
// position; a run of new records is inserted directly after the nearest
// preceding matched record, or at the very front when none precedes it,
// so an entirely-new slice ends up prepended in slice order. The
// next-page pointer is preserved from the receiver, never taken from the
// slice, and the last-page marker is likewise untouched: re-fetching the
// first page must not reset how deep the collection has already paged.
func (c IdentifiedCollection[V, P]) UpsertPrepending(slice PageSlice[V, P]) IdentifiedCollection[V, P] {
	updated := make(map[string]V, len(slice.Values))
	after := make(map[string][]V)
	var front []V

	anchor := ""
	for _, v := range slice.Values {
		id := v.ID()
		if _, exists := c.Get(id); exists {
			updated[id] = v
			anchor = id
			continue
		}
		if anchor == "" {
			front = append(front, v)
		} else {
			after[anchor] = append(after[anchor], v)
		}
	}

	items := orderedmap.New[string, V]()
	for _, v := range front {
		items.Set(v.ID(), v)
	}
	if c.items != nil {
		for pair := c.items.Oldest(); pair != nil; pair = pair.Next() {
			value := pair.Value
			if v, ok := updated[pair.Key]; ok {
				value = v
			}
			items.Set(pair.Key, value)
			for _, v := range after[pair.Key] {
				items.Set(v.ID(), v)
			}
		}
	}

	return IdentifiedCollection[V, P]{
		items:    items,
		lastPage: c.lastPage,
		nextPage: copyPage(c.nextPage),
	}
}

// Removing returns a copy of the collection without the given ids. Page
// pointers are untouched. Unknown ids are ignored.
func (c IdentifiedCollection[V, P]) Removing(ids ...string) IdentifiedCollection[V, P] {
	items := c.cloneItems()
	for _, id := range ids {
		items.Delete(id)
	}
	return IdentifiedCollection[V, P]{
		items:    items,
		lastPage: c.lastPage,
		nextPage: copyPage(c.nextPage),
	}
}

// Updating returns a copy of the collection with v replacing the record
// that shares its id, in place. When no record matches, the collection is
// returned unchanged - updating is not an insert.
func (c IdentifiedCollection[V, P]) Updating(v V) IdentifiedCollection[V, P] {
	if _, ok := c.Get(v.ID()); !ok {
		return c
	}
	items := c.cloneItems()
	items.Set(v.ID(), v)
	return IdentifiedCollection[V, P]{
		items:    items,
		lastPage: c.lastPage,
		nextPage: copyPage(c.nextPage),
	}
}

func (c IdentifiedCollection[V, P]) cloneItems() *orderedmap.OrderedMap[string, V] {
	items := orderedmap.New[string, V]()
	if c.items == nil {
		return items
	}
	for pair := c.items.Oldest(); pair != nil; pair = pair.Next() {
		items.Set(pair.Key, pair.Value)
	}
	return items
}

// Equal reports whether two collections hold the same id sequence, the
// same record for each id, and the same page pointers.
func Equal[V interface {
	Identifiable
	comparable
}, P comparable](a, b IdentifiedCollection[V, P]) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.lastPage != b.lastPage {
		return false
	}
	aNext, aOK := a.NextPage()
	bNext, bOK := b.NextPage()
	if aOK != bOK || aNext != bNext {
		return false
	}

	bValues := b.Values()
	for i, v := range a.Values() {
		if bValues[i].ID() != v.ID() || bValues[i] != v {
			return false
		}
	}
	return true
}

func copyPage[P any](p *P) *P {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
