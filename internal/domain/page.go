package domain

// PageWindow is the caller-owned pagination state.
type PageWindow struct {
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int
}

// NewPageWindow creates a normalized, clamped window.
func NewPageWindow(page, pageSize, totalItems int) PageWindow {
	page, pageSize = ValidatePagination(page, pageSize)
	if totalItems < 0 {
		totalItems = 0
	}

	return PageWindow{
		CurrentPage:  page,
		ItemsPerPage: pageSize,
		TotalItems:   totalItems,
	}.Clamp()
}

// TotalPages returns ceil(TotalItems / ItemsPerPage), never less than 1.
func (w PageWindow) TotalPages() int {
	size := w.ItemsPerPage
	if size <= 0 {
		size = DefaultPageSize
	}

	pages := (w.TotalItems + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp moves CurrentPage into [1, TotalPages].
func (w PageWindow) Clamp() PageWindow {
	if total := w.TotalPages(); w.CurrentPage > total {
		w.CurrentPage = total
	}
	if w.CurrentPage < 1 {
		w.CurrentPage = 1
	}
	return w
}

// WithPage returns the window moved to page, clamped.
func (w PageWindow) WithPage(page int) PageWindow {
	w.CurrentPage = page
	return w.Clamp()
}

// WithPageSize changes the page size and resets to the first page.
func (w PageWindow) WithPageSize(pageSize int) PageWindow {
	_, w.ItemsPerPage = ValidatePagination(1, pageSize)
	w.CurrentPage = 1
	return w
}

// WithTotalItems updates the collection size and re-clamps the current page.
func (w PageWindow) WithTotalItems(totalItems int) PageWindow {
	if totalItems < 0 {
		totalItems = 0
	}
	w.TotalItems = totalItems
	return w.Clamp()
}

// Offset returns the index of the first item on the current page.
func (w PageWindow) Offset() int {
	return (w.CurrentPage - 1) * w.ItemsPerPage
}
