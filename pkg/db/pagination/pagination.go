package pagination

// Pagination carries caller-supplied offset pagination inputs.
type Pagination struct {
	Page    int `form:"page,default=1" validate:"gte=1"`
	PerPage int `form:"per_page,default=10" validate:"gte=1,lte=250"`
}

// Normalize clamps the inputs into a usable window. Zero or negative
// values fall back to defaults, per-page is capped at maxPerPage.
func (p Pagination) Normalize(defaultPerPage, maxPerPage int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if maxPerPage > 0 && p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

// Offset is the row offset of the page window.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// PageInfo is the pagination metadata block returned with every list.
type PageInfo struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPageInfo computes page metadata. last_page = ceil(total/perPage),
// which stays 0 for an empty result set.
func NewPageInfo(page, perPage int, total int64) PageInfo {
	lastPage := 0
	if perPage > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return PageInfo{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}
