package pagination

// LoadingMode selects how the result of one page load is merged into the
// collection already held by the loadable value.
type LoadingMode int

const (
	// UpsertNext fetches the collection's next page and appends it. When
	// the collection has no next page, the load attempt is skipped
	// entirely.
	UpsertNext LoadingMode = iota

	// UpsertFirst re-fetches the first page and merges it at the front of
	// the collection, updating records that are already present instead of
	// duplicating them. The collection's next-page pointer is untouched.
	UpsertFirst

	// Reload re-fetches the first page and replaces the whole collection
	// with it.
	Reload
)

// String returns the mode's name for logs and error messages.
func (m LoadingMode) String() string {
	switch m {
	case UpsertNext:
		return "upsert_next"
	case UpsertFirst:
		return "upsert_first"
	case Reload:
		return "reload"
	default:
		return "unknown"
	}
}
