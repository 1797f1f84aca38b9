package services

const (
	// DefaultPerPage applies when the caller omits a page size.
	DefaultPerPage = 10
	// MaxPerPage caps page sizes; larger requests are clamped, not rejected.
	MaxPerPage = 100
)

// PageRequest describes the window of a paginated listing.
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize applies defaults and clamps the page size to MaxPerPage.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized window.
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}
