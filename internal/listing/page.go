package listing

import "iter"

const DefaultPageSize = 10

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

func totalPages(total, size int) int {
	return (total + size - 1) / size
}

// Paginate slices items into 1-indexed pages of size items. Pages past the
// end are empty but still report the totals.
func Paginate[T any](items []T, page, size int) Page[T] {
	page, size = normalize(page, size)

	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		Total:      len(items),
		TotalPages: totalPages(len(items), size),
	}
}

// PaginateSeq pages a lazy sequence, materialising only the requested page.
func PaginateSeq[T any](seq iter.Seq[T], page, size int) Page[T] {
	page, size = normalize(page, size)

	start := (page - 1) * size
	out := make([]T, 0, size)
	total := 0
	for item := range seq {
		if total >= start && total < start+size {
			out = append(out, item)
		}
		total++
	}

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages(total, size),
	}
}
