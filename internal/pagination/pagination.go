// Package pagination pages the list endpoints: submissions, the review
// queue, bookmarks and saved searches.
package pagination

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Orderings shared by the list endpoints. Most lists read newest first; the
// review queue is worked oldest first so nothing waits forever.
const (
	NewestFirst = "created_at DESC"
	OldestFirst = "created_at ASC"
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in page 1 and the default size when unset.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset is the number of rows before the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse builds a page. Data is never nil so it encodes as [].
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Find counts the rows query matches and loads one page of them in order.
// query carries the model and filters; preloads apply to the page only.
func Find[T any](query *gorm.DB, page PageRequest, order string, preloads ...string) (*PageResponse[T], error) {
	page.Defaults()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	rows := query.Session(&gorm.Session{})
	for _, p := range preloads {
		rows = rows.Preload(p)
	}
	var data []T
	if err := rows.Order(order).Offset(page.Offset()).Limit(page.PageSize).Find(&data).Error; err != nil {
		return nil, err
	}

	resp := NewPageResponse(data, page.Page, page.PageSize, total)
	return &resp, nil
}

// Map converts every item of a page, keeping its metadata.
func Map[T, U any](p *PageResponse[T], convert func(*T) U) PageResponse[U] {
	out := make([]U, 0, len(p.Data))
	for i := range p.Data {
		out = append(out, convert(&p.Data[i]))
	}
	return NewPageResponse(out, p.Page, p.PageSize, p.TotalItems)
}
