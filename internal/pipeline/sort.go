package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lotview/lotview/pkg/models"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortField names a sortable listing attribute.
type SortField string

const (
	SortPriority    SortField = "priority"
	SortQualityTier SortField = "quality_tier"
	SortPrice       SortField = "price"
	SortMileage     SortField = "mileage"
	SortYear        SortField = "year"
	SortMake        SortField = "make"
	SortModel       SortField = "model"
	SortDate        SortField = "date"
)

// SortSpec combines a sort field with a direction.
type SortSpec struct {
	Field SortField
	Order SortOrder
}

// DefaultSort is the order used when no explicit sort has been requested:
// highest priority score first, so the best matches always surface absent
// other input.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortPriority, Order: OrderDesc}
}

// ToggleOrder returns the opposite direction.
func ToggleOrder(o SortOrder) SortOrder {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

// SortListings returns a new slice ordered by the given spec. The input is
// never mutated and the sort is stable: equal keys keep their filtered
// relative order, which keeps pagination deterministic.
//
// An unknown field returns ErrUnknownSortField so callers can fall back to
// DefaultSort instead of crashing.
func (e *Engine) SortListings(listings []models.Listing, spec SortSpec) ([]models.Listing, error) {
	out := make([]models.Listing, len(listings))
	copy(out, listings)

	if spec.Field == SortQualityTier {
		e.sortByTier(out, spec.Order)
		return out, nil
	}

	cmp, err := comparator(spec.Field)
	if err != nil {
		return nil, err
	}

	desc := spec.Order == OrderDesc
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(&out[i], &out[j])
		if desc {
			c = -c
		}
		return c < 0
	})
	return out, nil
}

// sortByTier orders by tier rank, with desc putting the best tier group
// first. Within a tier, a higher priority score always sorts first no matter
// the requested direction: toggling the direction flips which tier group
// appears first, not the internal ordering of a group.
func (e *Engine) sortByTier(listings []models.Listing, order SortOrder) {
	sort.SliceStable(listings, func(i, j int) bool {
		ri := tierRank(e.classifier.Classify(listings[i].PriorityScore))
		rj := tierRank(e.classifier.Classify(listings[j].PriorityScore))
		if ri != rj {
			if order == OrderAsc {
				return ri > rj
			}
			return ri < rj
		}
		return listings[i].PriorityScore > listings[j].PriorityScore
	})
}

// comparator returns a three-way compare for the given field.
func comparator(field SortField) (func(a, b *models.Listing) int, error) {
	switch field {
	case SortPriority:
		return func(a, b *models.Listing) int { return a.PriorityScore - b.PriorityScore }, nil
	case SortPrice:
		return func(a, b *models.Listing) int { return a.Price.Cmp(b.Price) }, nil
	case SortMileage:
		return func(a, b *models.Listing) int { return a.Mileage - b.Mileage }, nil
	case SortYear:
		return func(a, b *models.Listing) int { return a.Year - b.Year }, nil
	case SortMake:
		return func(a, b *models.Listing) int { return strings.Compare(a.Make, b.Make) }, nil
	case SortModel:
		return func(a, b *models.Listing) int { return strings.Compare(a.Model, b.Model) }, nil
	case SortDate:
		return func(a, b *models.Listing) int { return a.ListedAt.Compare(b.ListedAt) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}
}
