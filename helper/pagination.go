package helper

import "math"

// Paging is a clamped page window.
type Paging struct {
	Page     int
	PageSize int
}

// maxOffset bounds Offset so it fits a 32-bit SQL OFFSET.
const maxOffset = math.MaxInt32

// NewPaging clamps page to >= 1 and pageSize to [1, max]. A zero pageSize
// falls back to def. Page is capped so Offset never exceeds maxOffset.
func NewPaging(page, pageSize, def, max int) Paging {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = def
	}
	if max > 0 && pageSize > max {
		pageSize = max
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if lastPage := maxOffset/pageSize + 1; page > lastPage {
		page = lastPage
	}
	return Paging{Page: page, PageSize: pageSize}
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Paging) Limit() int {
	return p.PageSize
}

// TotalPages ...
// Number of pages needed to hold total records.
func (p Paging) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.PageSize)))
}
