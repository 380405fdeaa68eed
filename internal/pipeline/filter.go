package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lotview/lotview/pkg/models"
)

// FilterCriteria narrows a listing snapshot. Nil pointer fields are inactive,
// so "no filter" is a type-level state rather than a sentinel string. Search
// is inactive when empty or whitespace, consistent with the other dimensions.
type FilterCriteria struct {
	Make          *string
	Model         *string
	YearMin       *int
	YearMax       *int
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
	MileageMax    *int
	MileageRating *models.MileageRating
	QualityTier   *models.Tier
	Search        string
}

// Fields accepted by UniqueValues.
const (
	FieldMake  = "make"
	FieldModel = "model"
)

// ApplyFilters returns the listings matching every active criterion. The
// result preserves the input's relative order and shares no backing array
// with it; with no active criteria it is an element-for-element copy.
func (e *Engine) ApplyFilters(listings []models.Listing, c FilterCriteria) []models.Listing {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	result := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if e.matches(&listings[i], c, search) {
			result = append(result, listings[i])
		}
	}
	return result
}

// matches reports whether a listing passes every active criterion. All
// numeric bounds are inclusive.
func (e *Engine) matches(l *models.Listing, c FilterCriteria, search string) bool {
	if c.Make != nil && l.Make != *c.Make {
		return false
	}
	if c.Model != nil && l.Model != *c.Model {
		return false
	}
	if c.YearMin != nil && l.Year < *c.YearMin {
		return false
	}
	if c.YearMax != nil && l.Year > *c.YearMax {
		return false
	}
	if c.PriceMin != nil && l.Price.Cmp(*c.PriceMin) < 0 {
		return false
	}
	if c.PriceMax != nil && l.Price.Cmp(*c.PriceMax) > 0 {
		return false
	}
	if c.MileageMax != nil && l.Mileage > *c.MileageMax {
		return false
	}
	if c.MileageRating != nil && l.MileageRating != *c.MileageRating {
		return false
	}
	if c.QualityTier != nil && e.classifier.Classify(l.PriorityScore) != *c.QualityTier {
		return false
	}
	if search != "" && !matchesSearch(l, search) {
		return false
	}
	return true
}

// matchesSearch checks the query against VIN, make, model, and year with OR
// semantics. The query must already be lowercased and trimmed.
func matchesSearch(l *models.Listing, query string) bool {
	return strings.Contains(strings.ToLower(l.VIN), query) ||
		strings.Contains(strings.ToLower(l.Make), query) ||
		strings.Contains(strings.ToLower(l.Model), query) ||
		strings.Contains(strconv.Itoa(l.Year), query)
}

// ActiveFilterCount counts the criteria dimensions that are active, for UI
// badges. An empty or whitespace-only search does not count.
func ActiveFilterCount(c FilterCriteria) int {
	active := []bool{
		c.Make != nil,
		c.Model != nil,
		c.YearMin != nil,
		c.YearMax != nil,
		c.PriceMin != nil,
		c.PriceMax != nil,
		c.MileageMax != nil,
		c.MileageRating != nil,
		c.QualityTier != nil,
		strings.TrimSpace(c.Search) != "",
	}

	n := 0
	for _, a := range active {
		if a {
			n++
		}
	}
	return n
}

// UniqueValues extracts the distinct values of a field across the snapshot,
// sorted for stable display. Collaborators use it to populate filter option
// lists. Only FieldMake and FieldModel are supported.
func UniqueValues(listings []models.Listing, field string) ([]string, error) {
	if field != FieldMake && field != FieldModel {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	seen := make(map[string]struct{}, len(listings))
	values := make([]string, 0, len(listings))
	for i := range listings {
		v := listings[i].Make
		if field == FieldModel {
			v = listings[i].Model
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	sort.Strings(values)
	return values, nil
}
