package reporting

import "github.com/iho/lpledger/internal/domain"

// Page is one slice of a collection plus its window metadata.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns the requested page of items. The page is clamped into
// [1, TotalPages] so a shrunken collection never yields an empty page
// while items remain.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	return PaginateWindow(items, domain.NewPageWindow(page, pageSize, len(items)))
}

// PaginateWindow slices items according to w after re-clamping it to the
// actual collection size.
func PaginateWindow[T any](items []T, w domain.PageWindow) Page[T] {
	w = domain.NewPageWindow(w.CurrentPage, w.ItemsPerPage, len(items))

	start := w.Offset()
	end := start + w.ItemsPerPage
	if end > len(items) {
		end = len(items)
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return Page[T]{
		Items:      pageItems,
		Page:       w.CurrentPage,
		PageSize:   w.ItemsPerPage,
		TotalItems: w.TotalItems,
		TotalPages: w.TotalPages(),
	}
}
