// Package pagination implements fixed-size page slicing for post listings.
package pagination

// PostsPerPage is the fixed page size for every post listing.
const PostsPerPage = 10

// Page describes one slice of an ordered listing. Number is always within
// [1, TotalPages], TotalPages is at least 1 even for an empty listing.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

// New clamps the requested page number against the total item count and
// returns the resulting page. Requests below 1 clamp to the first page,
// requests past the end clamp to the last (possibly partial) page.
func New(requested int, total int64) Page {
	totalPages := int((total + PostsPerPage - 1) / PostsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       PostsPerPage,
		TotalPages: totalPages,
		Total:      total,
	}
}

// Offset returns the item offset of the first element on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether a page follows this one.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether a page precedes this one.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}
