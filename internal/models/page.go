package models

const (
	// DefaultPerPage is the page size used when the client does not pass one.
	DefaultPerPage = 20
	// MaxPerPage caps per_page regardless of what the client asks for.
	MaxPerPage = 100
)

// ClampPage normalizes pagination parameters: page is at least 1, per_page
// defaults to DefaultPerPage and never exceeds MaxPerPage.
func ClampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// TotalPages computes the number of pages covering total items.
func TotalPages(total, perPage int) int {
	if total == 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
