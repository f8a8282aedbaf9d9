package core

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Window is an offset/limit slice of a listing.
type Window struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

func NewWindow(total, limit, offset int) Window {
	return Window{Total: total, Limit: limit, Offset: offset, HasMore: offset+limit < total}
}

// Page is a numbered page of a listing.
type Page struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func NewPage(total, page, size int) Page {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return Page{
		CurrentPage: page,
		TotalPages:  pages,
		TotalCount:  total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

// ClampLimit applies the default page size to non-positive values and caps
// the rest at MaxPageSize.
func ClampLimit(limit, def int) int {
	switch {
	case limit <= 0:
		return def
	case limit > MaxPageSize:
		return MaxPageSize
	}
	return limit
}
