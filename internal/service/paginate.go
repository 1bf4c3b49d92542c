package service

// Paginate returns the 1-indexed page of all with the given size as a new
// slice. Pages outside the available range are empty. all is never modified.
func Paginate[T any](all []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(all) {
		return []T{}
	}
	end := min(start+size, len(all))
	out := make([]T, end-start)
	copy(out, all[start:end])
	return out
}

// TotalPages is the number of pages needed to show total items.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageItem is one slot of a pager: a page number, or an ellipsis for a gap.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageNumbers lays out a pager: the first and last page plus a window of up
// to window pages centred on current, with an ellipsis wherever pages are
// skipped. When total fits in the window every page is listed.
func PageNumbers(current, total, window int) []PageItem {
	if total <= 0 {
		return []PageItem{}
	}
	if window < 1 {
		window = 1
	}
	current = max(1, min(current, total))

	if total <= window {
		items := make([]PageItem, 0, total)
		for n := 1; n <= total; n++ {
			items = append(items, PageItem{Number: n})
		}
		return items
	}

	start := current - window/2
	end := start + window - 1
	if start < 1 {
		start, end = 1, window
	}
	if end > total {
		start, end = total-window+1, total
	}

	items := make([]PageItem, 0, window+4)
	if start > 1 {
		items = append(items, PageItem{Number: 1})
		if start > 2 {
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	for n := start; n <= end; n++ {
		items = append(items, PageItem{Number: n})
	}
	if end < total {
		if end < total-1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Number: total})
	}
	return items
}
