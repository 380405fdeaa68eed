package pipeline

import (
	"fmt"

	"github.com/lotview/lotview/pkg/models"
)

// Pagination describes the position of a page within a result set.
type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	PageSize        int  `json:"page_size"`
	TotalItems      int  `json:"total_items"`
	TotalPages      int  `json:"total_pages"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// Page couples one page of listings with its pagination metadata.
type Page struct {
	Data       []models.Listing
	Pagination Pagination
}

// Ellipsis marks a gap in the window returned by PageNumbers.
const Ellipsis = -1

// Paginate slices an ordered collection into the requested page. A page
// beyond the last one is silently clamped to the last page, and a page below
// 1 clamps to 1; neither is an error. A pageSize <= 0 is a caller bug and
// returns ErrInvalidPageSize.
func Paginate(listings []models.Listing, page, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	total := len(listings)
	totalPages := (total + pageSize - 1) / pageSize

	// Clamp to [1, max(1, totalPages)] so an empty set still reports page 1.
	upper := totalPages
	if upper < 1 {
		upper = 1
	}
	effective := page
	if effective < 1 {
		effective = 1
	}
	if effective > upper {
		effective = upper
	}

	start := (effective - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]models.Listing, end-start)
	copy(data, listings[start:end])

	return &Page{
		Data: data,
		Pagination: Pagination{
			CurrentPage:     effective,
			PageSize:        pageSize,
			TotalItems:      total,
			TotalPages:      totalPages,
			HasNextPage:     effective < totalPages,
			HasPreviousPage: effective > 1,
		},
	}, nil
}

// PageNumbers produces a bounded-width window of page numbers for UI
// controls, with Ellipsis marking any gap wider than one page. Page 1 and the
// last page are always shown when the total exceeds the visible window, and
// the window stays centered on current as far as boundary clamping allows.
func PageNumbers(current, total, maxVisible int) []int {
	if total <= 0 || maxVisible <= 0 {
		return []int{}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= maxVisible {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	// Reserve two slots for the first and last page; the rest form the
	// window around the current page.
	window := maxVisible - 2
	if window < 1 {
		window = 1
	}

	start := current - window/2
	end := start + window - 1
	if start < 2 {
		start = 2
		end = start + window - 1
	}
	if end > total-1 {
		end = total - 1
		start = end - window + 1
		if start < 2 {
			start = 2
		}
	}

	pages := make([]int, 0, maxVisible+2)
	pages = append(pages, 1)
	if start > 2 {
		pages = append(pages, Ellipsis)
	}
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	if end < total-1 {
		pages = append(pages, Ellipsis)
	}
	pages = append(pages, total)
	return pages
}
