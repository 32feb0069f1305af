package domain

// Pagination defaults.
const (
	DefaultPage      = 1
	DefaultPageLimit = 20
	MaxPageLimit     = 1000
)

// NormalizePage corrects page and limit into acceptable bounds.
// This is bound correction, not validation.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Offset calculates the slice offset of a 1-indexed page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// TotalPages returns ceil(total / limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// Paginate slices an already ordered result list into the requested page.
// Pages past the end are empty.
func Paginate(products []*Product, page, limit int) *Page {
	page, limit = NormalizePage(page, limit)
	total := len(products)

	start := Offset(page, limit)
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]*Product, end-start)
	copy(items, products[start:end])

	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}
