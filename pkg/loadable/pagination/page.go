// Package pagination layers a polymorphic, deduplicated collection on top
// of pkg/loadable: a stream of page responses folds into a growing,
// identified collection under one of three merge modes, driven by the
// same cancel-in-flight task machinery loadable.LoadableReducer provides.
package pagination

import "time"

// DefaultPageSize is supplied when a NumberedPage is constructed from a
// bare page number via NewNumberedPage.
const DefaultPageSize = 25

// NumberedPage is a 1-based page index, the most common page key.
type NumberedPage struct {
	Number int
	Size   int
}

// NewNumberedPage constructs a NumberedPage with DefaultPageSize.
func NewNumberedPage(number int) NumberedPage {
	return NumberedPage{Number: number, Size: DefaultPageSize}
}

// OffsetPage indexes into a flat record space.
type OffsetPage struct {
	Limit  int
	Offset int
}

// TimestampedPage is a window extending backward from EndDate, for
// reverse-chronological feeds where record counts shift between loads.
type TimestampedPage struct {
	EndDate time.Time
	Size    int
}

// PageSlice is the network-facing contract every page-fetching closure
// must produce: the records for one page, the page key that produced
// them, and the key for the next page, if any.
type PageSlice[V any, P any] struct {
	Values   []V
	Page     P
	NextPage *P
}

// HasNextPage reports whether the slice names a next page.
func (s PageSlice[V, P]) HasNextPage() bool {
	return s.NextPage != nil
}
