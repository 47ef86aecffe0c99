package table

const (
	DefaultPageSize = 10
	maxVisiblePages = 3
)

// TotalPages is ceil(n/size) with a floor of one page, so an empty list
// still renders page 1.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns the 1-indexed page of items. Out of range pages yield an
// empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return items[:0:0]
	}

	start := (page - 1) * size
	if start >= len(items) {
		return items[:0:0]
	}
	end := min(start+size, len(items))
	return items[start:end:end]
}

// VisiblePages picks at most three page numbers around current.
func VisiblePages(current, total int) []int {
	if total < 1 {
		total = 1
	}
	if total <= maxVisiblePages {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}

	switch {
	case current <= 2:
		return []int{1, 2, 3}
	case current >= total-1:
		return []int{total - 2, total - 1, total}
	default:
		return []int{current - 1, current, current + 1}
	}
}
