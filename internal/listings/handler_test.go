package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lotview/lotview/internal/pipeline"
	"github.com/lotview/lotview/internal/services"
	"github.com/lotview/lotview/internal/testutil"
	"github.com/lotview/lotview/pkg/models"
)

func newTestMux(t *testing.T) (*http.ServeMux, services.ListingRepository) {
	t.Helper()
	repo, err := services.NewSQLiteListingRepository(context.Background(), testutil.NewStore(t))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	engine := pipeline.NewEngine(pipeline.NewClassifier(pipeline.DefaultTierThresholds()))
	h := NewHandler(repo, engine, testDefaults, testutil.Logger())

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, repo
}

func seedFleet(t *testing.T, repo services.ListingRepository) {
	t.Helper()
	fleet := []models.Listing{
		testutil.NewListing(testutil.WithVIN("4T1BF1FK5HU281903"), testutil.WithMakeModel("Toyota", "Camry"),
			testutil.WithPrice("18000"), testutil.WithScore(90)),
		testutil.NewListing(testutil.WithVIN("5TDZA3EH2HS789012"), testutil.WithMakeModel("Toyota", "Highlander"),
			testutil.WithPrice("25000"), testutil.WithScore(70)),
		testutil.NewListing(testutil.WithVIN("3VWC57BU8KM123456"), testutil.WithMakeModel("Volkswagen", "Jetta"),
			testutil.WithPrice("14000"), testutil.WithScore(40)),
	}
	for i := range fleet {
		if err := repo.Create(context.Background(), &fleet[i]); err != nil {
			t.Fatalf("seed %s: %v", fleet[i].VIN, err)
		}
	}
}

type queryResponseBody struct {
	Data []struct {
		VIN           string `json:"vin"`
		PriorityScore int    `json:"priority_score"`
		QualityTier   string `json:"quality_tier"`
	} `json:"data"`
	Stats struct {
		TotalMatches  int            `json:"total_matches"`
		TierCounts    map[string]int `json:"tier_counts"`
		ActiveFilters int            `json:"active_filters"`
	} `json:"stats"`
	Pagination struct {
		CurrentPage     int   `json:"current_page"`
		TotalItems      int   `json:"total_items"`
		TotalPages      int   `json:"total_pages"`
		HasNextPage     bool  `json:"has_next_page"`
		HasPreviousPage bool  `json:"has_previous_page"`
		Pages           []any `json:"pages"`
	} `json:"pagination"`
}

func doQuery(t *testing.T, mux *http.ServeMux, target string) (*httptest.ResponseRecorder, queryResponseBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var body queryResponseBody
	if w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w, body
}

func TestHandleQuery_DefaultSortAndStats(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	w, body := doQuery(t, mux, "/api/v1/listings")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(body.Data) != 3 {
		t.Fatalf("len(data) = %d, want 3", len(body.Data))
	}
	// Best score first absent any explicit sort.
	if body.Data[0].PriorityScore != 90 || body.Data[2].PriorityScore != 40 {
		t.Errorf("scores = [%d %d %d], want descending",
			body.Data[0].PriorityScore, body.Data[1].PriorityScore, body.Data[2].PriorityScore)
	}
	if body.Data[0].QualityTier != "top_pick" || body.Data[2].QualityTier != "caution" {
		t.Errorf("tiers = %q..%q", body.Data[0].QualityTier, body.Data[2].QualityTier)
	}
	if body.Stats.TotalMatches != 3 || body.Stats.ActiveFilters != 0 {
		t.Errorf("stats = %+v", body.Stats)
	}
	if body.Stats.TierCounts["top_pick"] != 1 || body.Stats.TierCounts["good_buy"] != 1 || body.Stats.TierCounts["caution"] != 1 {
		t.Errorf("tier counts = %v", body.Stats.TierCounts)
	}
}

func TestHandleQuery_FilterComposition(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	w, body := doQuery(t, mux, "/api/v1/listings?make=Toyota&price_max=20000")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(body.Data) != 1 || body.Data[0].VIN != "4T1BF1FK5HU281903" {
		t.Fatalf("data = %+v, want only the $18,000 Toyota", body.Data)
	}
	if body.Stats.ActiveFilters != 2 {
		t.Errorf("active filters = %d, want 2", body.Stats.ActiveFilters)
	}
}

func TestHandleQuery_StatsComeFromFullFilteredSet(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	// Page size 1: the page holds one listing but stats cover all matches.
	w, body := doQuery(t, mux, "/api/v1/listings?page_size=1&page=2")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(body.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(body.Data))
	}
	if body.Stats.TotalMatches != 3 {
		t.Errorf("total matches = %d, want 3 (never a single page)", body.Stats.TotalMatches)
	}
	p := body.Pagination
	if p.CurrentPage != 2 || p.TotalPages != 3 || !p.HasNextPage || !p.HasPreviousPage {
		t.Errorf("pagination = %+v", p)
	}
	if len(p.Pages) != 3 {
		t.Errorf("pages = %v, want [1 2 3]", p.Pages)
	}
}

func TestHandleQuery_PageClamping(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	w, body := doQuery(t, mux, "/api/v1/listings?page=999999&page_size=2")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body.Pagination.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want clamp to last page 2", body.Pagination.CurrentPage)
	}
}

func TestHandleQuery_UnknownSortFallsBack(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	w, body := doQuery(t, mux, "/api/v1/listings?sort=horsepower")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with default sort fallback", w.Code)
	}
	if body.Data[0].PriorityScore != 90 {
		t.Errorf("first score = %d, want default priority-desc order", body.Data[0].PriorityScore)
	}
}

func TestHandleQuery_BadCriteria(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	for _, target := range []string{
		"/api/v1/listings?price_min=cheap",
		"/api/v1/listings?tier=platinum",
		"/api/v1/listings?page_size=-2",
	} {
		w, _ := doQuery(t, mux, target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, w.Code)
		}
	}
}

func TestHandleQuery_EmptyResultIsOK(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	w, body := doQuery(t, mux, "/api/v1/listings?make=DeLorean")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(body.Data) != 0 || body.Stats.TotalMatches != 0 || body.Pagination.TotalPages != 0 {
		t.Errorf("expected zeroed empty result, got %+v", body)
	}
}

func TestHandleFacets(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/facets", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string][]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body["makes"]) != 2 || body["makes"][0] != "Toyota" || body["makes"][1] != "Volkswagen" {
		t.Errorf("makes = %v, want sorted [Toyota Volkswagen]", body["makes"])
	}
	if len(body["models"]) != 3 {
		t.Errorf("models = %v, want 3", body["models"])
	}
}

func TestHandleGet(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	// Lookup is case-insensitive.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/4t1bf1fk5hu281903", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		VIN         string `json:"vin"`
		QualityTier string `json:"quality_tier"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.VIN != "4T1BF1FK5HU281903" || body.QualityTier != "top_pick" {
		t.Errorf("body = %+v", body)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/1FTEW1EP3KF456789", http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want problem+json", ct)
	}
}

func TestHandleCreate(t *testing.T) {
	mux, _ := newTestMux(t)

	payload := `{
		"vin": "1HGCV1F34LA012345",
		"make": "Honda", "model": "Accord", "year": 2020,
		"price": "20990", "mileage": 42800,
		"mileage_rating": "good", "title_status": "clean",
		"accident_count": 0, "owner_count": 1,
		"city": "Austin", "state": "TX", "distance_miles": 6.5,
		"priority_score": 86, "listed_at": "2026-08-18T00:00:00Z"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(payload))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	// Same VIN again conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(payload))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"malformed JSON", `{"vin":`},
		{"short VIN", `{"vin": "ABC123", "make": "Honda", "model": "Accord", "year": 2020, "owner_count": 1}`},
		{"score out of range", `{"vin": "1HGCV1F34LA012345", "make": "Honda", "model": "Accord", "year": 2020, "owner_count": 1, "priority_score": 140}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(tt.payload))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleUpdateAndDelete(t *testing.T) {
	mux, repo := newTestMux(t)
	seedFleet(t, repo)

	payload := `{
		"make": "Toyota", "model": "Camry", "year": 2020,
		"price": "17500", "mileage": 36000,
		"mileage_rating": "good", "title_status": "clean",
		"accident_count": 0, "owner_count": 1,
		"city": "Austin", "state": "TX", "distance_miles": 12.4,
		"priority_score": 88, "listed_at": "2026-08-01T00:00:00Z"
	}`

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/4T1BF1FK5HU281903", strings.NewReader(payload))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	got, err := repo.Get(context.Background(), "4T1BF1FK5HU281903")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.PriorityScore != 88 {
		t.Errorf("score = %d, want 88", got.PriorityScore)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/listings/4T1BF1FK5HU281903", http.NoBody)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/listings/4T1BF1FK5HU281903", http.NoBody)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
