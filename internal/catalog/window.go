package catalog

// PageWindow computes the page numbers a pagination control should render:
// all pages when they fit, otherwise a window of visibleCount pages centered
// on current and slid (not shrunk) to stay inside [1, totalPages]. Pure
// function; identical input yields identical output.
func PageWindow(current, totalPages, visibleCount int) []int {
	if totalPages < 1 || visibleCount < 1 {
		return nil
	}

	if totalPages <= visibleCount {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	half := visibleCount / 2
	start := current - half
	end := current + half

	if start < 1 {
		start = 1
		end = visibleCount
	}
	if end > totalPages {
		end = totalPages
		start = totalPages - visibleCount + 1
	}

	pages := make([]int, 0, visibleCount)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
