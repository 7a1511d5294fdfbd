package store

const (
	defaultLimit = 50
	maxLimit     = 99
)

// PaginationParams holds page-based pagination inputs.
type PaginationParams struct {
	Page  int
	Limit int
}

// Normalize clamps the params to sane values: page defaults to 1,
// limit defaults to 50 and is kept below 100.
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// Offset returns the row offset for the current page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results with the total row count.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}
