package listings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lotview/lotview/internal/pipeline"
	"github.com/lotview/lotview/pkg/models"
)

// Defaults are the presentation-layer paging knobs, loaded from config.
type Defaults struct {
	PageSize        int
	PageSizeMax     int
	MaxVisiblePages int
}

// parseQuery decodes the shareable query-string representation of
// {criteria, sort, page, pageSize} into a pipeline query. The value "all"
// (or an empty string) leaves a filter dimension inactive.
func parseQuery(values url.Values, defaults Defaults) (pipeline.Query, error) {
	var q pipeline.Query

	q.Criteria.Make = optString(values.Get("make"))
	q.Criteria.Model = optString(values.Get("model"))
	q.Criteria.Search = values.Get("q")

	var err error
	if q.Criteria.YearMin, err = optInt(values.Get("year_min"), "year_min"); err != nil {
		return q, err
	}
	if q.Criteria.YearMax, err = optInt(values.Get("year_max"), "year_max"); err != nil {
		return q, err
	}
	if q.Criteria.MileageMax, err = optInt(values.Get("mileage_max"), "mileage_max"); err != nil {
		return q, err
	}
	if q.Criteria.PriceMin, err = optDecimal(values.Get("price_min"), "price_min"); err != nil {
		return q, err
	}
	if q.Criteria.PriceMax, err = optDecimal(values.Get("price_max"), "price_max"); err != nil {
		return q, err
	}
	if q.Criteria.MileageRating, err = optMileageRating(values.Get("mileage_rating")); err != nil {
		return q, err
	}
	if q.Criteria.QualityTier, err = optTier(values.Get("tier")); err != nil {
		return q, err
	}

	if sort := values.Get("sort"); sort != "" {
		q.Sort.Field = pipeline.SortField(sort)
		q.Sort.Order = pipeline.OrderDesc
	}
	switch order := values.Get("order"); order {
	case "":
	case string(pipeline.OrderAsc), string(pipeline.OrderDesc):
		if q.Sort.Field == "" {
			q.Sort = pipeline.DefaultSort()
		}
		q.Sort.Order = pipeline.SortOrder(order)
	default:
		return q, fmt.Errorf("order must be %q or %q, got %q", pipeline.OrderAsc, pipeline.OrderDesc, order)
	}

	q.Page = 1
	if page, err := optInt(values.Get("page"), "page"); err != nil {
		return q, err
	} else if page != nil {
		q.Page = *page
	}

	q.PageSize = defaults.PageSize
	if size, err := optInt(values.Get("page_size"), "page_size"); err != nil {
		return q, err
	} else if size != nil {
		if *size <= 0 {
			return q, fmt.Errorf("page_size must be positive, got %d", *size)
		}
		q.PageSize = *size
	}
	if q.PageSize > defaults.PageSizeMax {
		q.PageSize = defaults.PageSizeMax
	}

	return q, nil
}

// optString treats "" and the UI's "all" sentinel as inactive.
func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return nil
	}
	return &s
}

func optInt(s, field string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", field, s)
	}
	return &n, nil
}

func optDecimal(s, field string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q", field, s)
	}
	return &d, nil
}

func optMileageRating(s string) (*models.MileageRating, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return nil, nil
	}
	r := models.MileageRating(s)
	switch r {
	case models.MileageExcellent, models.MileageGood, models.MileageAcceptable, models.MileagePoor:
		return &r, nil
	}
	return nil, fmt.Errorf("unknown mileage_rating %q", s)
}

func optTier(s string) (*models.Tier, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return nil, nil
	}
	t := models.Tier(s)
	switch t {
	case models.TierTopPick, models.TierGoodBuy, models.TierCaution:
		return &t, nil
	}
	return nil, fmt.Errorf("unknown tier %q", s)
}
