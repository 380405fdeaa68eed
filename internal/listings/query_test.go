package listings

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lotview/lotview/internal/pipeline"
	"github.com/lotview/lotview/pkg/models"
)

var testDefaults = Defaults{PageSize: 20, PageSizeMax: 100, MaxVisiblePages: 5}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestParseQuery_Empty(t *testing.T) {
	q, err := parseQuery(url.Values{}, testDefaults)
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}

	if n := pipeline.ActiveFilterCount(q.Criteria); n != 0 {
		t.Errorf("ActiveFilterCount = %d, want 0", n)
	}
	if q.Sort != (pipeline.SortSpec{}) {
		t.Errorf("Sort = %+v, want zero value (engine default)", q.Sort)
	}
	if q.Page != 1 || q.PageSize != 20 {
		t.Errorf("page=%d pageSize=%d, want 1 and 20", q.Page, q.PageSize)
	}
}

func TestParseQuery_AllSentinelIsInactive(t *testing.T) {
	v := url.Values{}
	v.Set("make", "all")
	v.Set("tier", "all")
	v.Set("mileage_rating", "All")
	v.Set("price_min", "10000")

	q, err := parseQuery(v, testDefaults)
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}

	if q.Criteria.Make != nil || q.Criteria.QualityTier != nil || q.Criteria.MileageRating != nil {
		t.Error("'all' values must leave dimensions inactive")
	}
	if n := pipeline.ActiveFilterCount(q.Criteria); n != 1 {
		t.Errorf("ActiveFilterCount = %d, want 1 (price_min only)", n)
	}
}

func TestParseQuery_Criteria(t *testing.T) {
	v := url.Values{}
	v.Set("make", "Toyota")
	v.Set("model", "Camry")
	v.Set("year_min", "2018")
	v.Set("year_max", "2022")
	v.Set("price_max", "20000.50")
	v.Set("mileage_max", "60000")
	v.Set("mileage_rating", "good")
	v.Set("tier", "top_pick")
	v.Set("q", "camry")

	q, err := parseQuery(v, testDefaults)
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}

	c := q.Criteria
	if c.Make == nil || *c.Make != "Toyota" {
		t.Error("make not parsed")
	}
	if c.YearMin == nil || *c.YearMin != 2018 || c.YearMax == nil || *c.YearMax != 2022 {
		t.Error("year bounds not parsed")
	}
	if c.PriceMax == nil || !c.PriceMax.Equal(decimalFromString(t, "20000.50")) {
		t.Error("price_max not parsed")
	}
	if c.MileageRating == nil || *c.MileageRating != models.MileageGood {
		t.Error("mileage_rating not parsed")
	}
	if c.QualityTier == nil || *c.QualityTier != models.TierTopPick {
		t.Error("tier not parsed")
	}
	if c.Search != "camry" {
		t.Errorf("search = %q", c.Search)
	}
	if n := pipeline.ActiveFilterCount(c); n != 9 {
		t.Errorf("ActiveFilterCount = %d, want 9", n)
	}
}

func TestParseQuery_Sort(t *testing.T) {
	tests := []struct {
		name        string
		sort, order string
		want        pipeline.SortSpec
	}{
		{"sort only defaults to desc", "price", "", pipeline.SortSpec{Field: pipeline.SortPrice, Order: pipeline.OrderDesc}},
		{"sort with asc", "mileage", "asc", pipeline.SortSpec{Field: pipeline.SortMileage, Order: pipeline.OrderAsc}},
		{"order only applies to default field", "", "asc", pipeline.SortSpec{Field: pipeline.SortPriority, Order: pipeline.OrderAsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := url.Values{}
			if tt.sort != "" {
				v.Set("sort", tt.sort)
			}
			if tt.order != "" {
				v.Set("order", tt.order)
			}

			q, err := parseQuery(v, testDefaults)
			if err != nil {
				t.Fatalf("parseQuery: %v", err)
			}
			if q.Sort != tt.want {
				t.Errorf("sort = %+v, want %+v", q.Sort, tt.want)
			}
		})
	}
}

func TestParseQuery_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad year", "year_min", "twenty"},
		{"bad price", "price_max", "cheap"},
		{"bad mileage rating", "mileage_rating", "pristine"},
		{"bad tier", "tier", "platinum"},
		{"bad order", "order", "sideways"},
		{"bad page", "page", "first"},
		{"zero page size", "page_size", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := url.Values{}
			v.Set(tt.key, tt.value)
			if _, err := parseQuery(v, testDefaults); err == nil {
				t.Errorf("parseQuery(%s=%s) expected error", tt.key, tt.value)
			}
		})
	}
}

func TestParseQuery_PageSizeClamp(t *testing.T) {
	v := url.Values{}
	v.Set("page_size", "5000")

	q, err := parseQuery(v, testDefaults)
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}
	if q.PageSize != testDefaults.PageSizeMax {
		t.Errorf("PageSize = %d, want clamp to %d", q.PageSize, testDefaults.PageSizeMax)
	}
}
