package pipeline

import "github.com/lotview/lotview/pkg/models"

// Engine composes the query pipeline over a listing snapshot: filter, then
// sort, then paginate, in that fixed order.
type Engine struct {
	classifier *Classifier
}

// NewEngine creates an Engine backed by the given classifier.
func NewEngine(classifier *Classifier) *Engine {
	return &Engine{classifier: classifier}
}

// Classifier returns the engine's tier classifier, shared with collaborators
// that need to label listings.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Query is a combined listing query: filter criteria, sort spec, and page
// request. A zero-value Sort falls back to DefaultSort.
type Query struct {
	Criteria FilterCriteria
	Sort     SortSpec
	Page     int
	PageSize int
}

// Result is the dual output of a query run. AllFiltered carries the full
// sorted, filtered set (not just the current page) because aggregate
// statistics must never be computed from a single page.
type Result struct {
	Data        []models.Listing
	AllFiltered []models.Listing
	Pagination  Pagination
}

// Run executes Filter, Sort, and Paginate over the snapshot. An empty result
// set is a normal state; only precondition violations (unknown sort field,
// non-positive page size) return errors.
func (e *Engine) Run(listings []models.Listing, q Query) (*Result, error) {
	spec := q.Sort
	if spec == (SortSpec{}) {
		spec = DefaultSort()
	}

	filtered := e.ApplyFilters(listings, q.Criteria)

	sorted, err := e.SortListings(filtered, spec)
	if err != nil {
		return nil, err
	}

	page, err := Paginate(sorted, q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	return &Result{
		Data:        page.Data,
		AllFiltered: sorted,
		Pagination:  page.Pagination,
	}, nil
}

// TierCounts tallies listings per quality tier. Callers should pass
// Result.AllFiltered so the counts reflect the whole filtered set.
func (e *Engine) TierCounts(listings []models.Listing) map[models.Tier]int {
	counts := map[models.Tier]int{
		models.TierTopPick: 0,
		models.TierGoodBuy: 0,
		models.TierCaution: 0,
	}
	for i := range listings {
		counts[e.classifier.Classify(listings[i].PriorityScore)]++
	}
	return counts
}
