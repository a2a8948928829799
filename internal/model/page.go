package model

// Page size bounds for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page of a list query.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

// NewPage normalises client input: pages start at 1 and sizes are clamped
// to MaxPageSize, with DefaultPageSize for a missing size.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Limit returns the row limit for the page.
func (p Page) Limit() int { return p.Size }

// Offset returns the number of rows before the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }
