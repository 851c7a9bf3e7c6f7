package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the fixed number of rows on every paginated list.
const PageSize = 10

// FilterParams carries the named filters of a list view.
type FilterParams struct {
	Keys    []string          // recognised filter names, in display order
	Filters map[string]string // trimmed non-empty values only
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // requested page (1-indexed), never clamped to TotalPages
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage), at least 1
}

// ParsePage extracts the page number from URL query values.
// PRE: none
// POST: returns >= 1; a missing, malformed or non-positive page is 1
func ParsePage(q url.Values) int {
	page, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseFilterParams extracts named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised, non-blank keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Keys:    filterKeys,
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// Get returns the value of a filter, or "".
func (f FilterParams) Get(key string) string {
	return f.Filters[key]
}

// Active reports whether any filter is set.
func (f FilterParams) Active() bool {
	return len(f.Filters) > 0
}

// Query encodes the filters plus a page number, for pagination links.
func (f FilterParams) Query(page int) string {
	q := url.Values{}
	for _, key := range f.Keys {
		if v, ok := f.Filters[key]; ok {
			q.Set(key, v)
		}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q.Encode()
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0, page >= 1
// POST: Page is kept as requested; a page past the end simply has no rows
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = PageSize
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the SQL OFFSET for the current page.
// PRE: PageInfo is valid
// POST: Returns (Page-1) * PerPage, or TotalPages * PerPage for any page past the end,
//
//	so a huge page number cannot overflow into a negative offset
func (p PageInfo) Offset() int {
	if p.Page > p.TotalPages {
		return p.TotalPages * p.PerPage
	}
	return (p.Page - 1) * p.PerPage
}

// PastEnd reports whether the page lies beyond the last page of rows.
func (p PageInfo) PastEnd() bool {
	return p.Page > p.TotalPages
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if the page has no rows, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Offset() >= p.Total {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PerPage, Total), or 0 if the page has no rows
func (p PageInfo) EndRow() int {
	if p.StartRow() == 0 {
		return 0
	}
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page has rows.
func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages
}

// PrevPage returns the previous page number.
func (p PageInfo) PrevPage() int {
	if p.Page-1 > p.TotalPages {
		return p.TotalPages
	}
	return p.Page - 1
}

// NextPage returns the next page number.
func (p PageInfo) NextPage() int {
	return p.Page + 1
}

// PageNumbers returns the page numbers to display in pagination controls.
// Shows at most 5 pages centered around the current page.
// PRE: PageInfo is valid
// POST: Returns slice of at most 5 page numbers within [1, TotalPages]
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	current := p.Page
	if current > p.TotalPages {
		current = p.TotalPages
	}
	start := current - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if pagination controls should be displayed.
// POST: Returns true if Total > PerPage or the page is past the end
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage || p.Page > p.TotalPages
}
