package entities

// ContentRow is a read-only projection of one page in the content table.
type ContentRow struct {
	Title   string
	URL     string // empty when the page has no link
	Content string
}

// LookupStatus tags the outcome of a content lookup so callers can tell
// "nothing matched" apart from "the store was unreachable".
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupFound
	LookupUnavailable
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupUnavailable:
		return "unavailable"
	default:
		return "not_found"
	}
}

// LookupResult is the outcome of one content lookup. Row is set only when
// Status is LookupFound; Err only when it is LookupUnavailable.
type LookupResult struct {
	Status LookupStatus
	Row    ContentRow
	Err    error
}
