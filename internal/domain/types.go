package domain

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 50

	// MaxPage keeps Skip within int range for any page size.
	MaxPage = math.MaxInt / MaxPageSize
)

// PageRequest is the raw paging input. Nil means the parameter was absent.
type PageRequest struct {
	Page     *int `json:"page,omitempty"`
	PageSize *int `json:"pageSize,omitempty"`
}

// Page is a clamped PageRequest translated to skip/take.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps page to [1, MaxPage] and size to [1, 50]. Absent values default to 1 and 20.
func NewPage(req PageRequest) Page {
	page := DefaultPage
	if req.Page != nil {
		page = *req.Page
	}
	size := DefaultPageSize
	if req.PageSize != nil {
		size = *req.PageSize
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: page, Size: size}
}

// Skip is the row offset of the page.
func (p Page) Skip() int { return (p.Number - 1) * p.Size }

// Take is the row limit of the page.
func (p Page) Take() int { return p.Size }

// PageMeta is the pagination part of a paginated envelope.
type PageMeta struct {
	Total           int  `json:"total"`
	Page            int  `json:"page"`
	PerPage         int  `json:"perPage"`
	LastPage        int  `json:"lastPage"`
	From            int  `json:"from"`
	To              int  `json:"to"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	Paginated       bool `json:"paginated"`
}

// Meta computes the metadata for a page that returned `returned` rows out of `total`.
// On an empty trailing page To is smaller than From.
func (p Page) Meta(total, returned int) PageMeta {
	lastPage := int(math.Ceil(float64(total) / float64(p.Size)))
	offset := p.Skip()
	return PageMeta{
		Total:           total,
		Page:            p.Number,
		PerPage:         p.Size,
		LastPage:        lastPage,
		From:            offset + 1,
		To:              offset + returned,
		HasNextPage:     p.Number < lastPage,
		HasPreviousPage: p.Number > 1,
		Paginated:       true,
	}
}

// Envelope wraps a single result.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// PageEnvelope wraps one page of results.
type PageEnvelope[T any] struct {
	Data []T `json:"data"`
	PageMeta
	Message string `json:"message"`
}

// NewPageEnvelope builds the paginated envelope; a nil slice is rendered as [].
func NewPageEnvelope[T any](page Page, total int, rows []T, msg string) PageEnvelope[T] {
	if rows == nil {
		rows = []T{}
	}
	return PageEnvelope[T]{
		Data:     rows,
		PageMeta: page.Meta(total, len(rows)),
		Message:  msg,
	}
}
