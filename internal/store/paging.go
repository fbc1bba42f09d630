package store

const (
	// DefaultTake is the page size used when the caller does not ask for one.
	DefaultTake = 20
	// MaxTake caps the page size a caller may request.
	MaxTake = 100
)

// PagingParams contains paging and search parameters for list queries.
type PagingParams struct {
	Search string // Optional case-insensitive substring filter
	Skip   int    // Number of filtered results to skip (default 0)
	Take   int    // Maximum results to return (default DefaultTake)
}

// Validate corrects out-of-range paging parameters in place.
func (p *PagingParams) Validate() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Take <= 0 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
}

// PagedResult contains one page of a filtered result set.
// Total always reflects the full filtered count, computed before slicing,
// so an out-of-range Skip yields an empty PageContent with a correct Total.
type PagedResult[T any] struct {
	PageContent []T `json:"page_content"`
	StartIndex  int `json:"start_index"`
	Total       int `json:"total"`
}
