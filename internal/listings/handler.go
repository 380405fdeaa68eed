// Package listings exposes the vehicle listing HTTP API: the query endpoint
// backed by the filter/sort/paginate pipeline, single-listing lookup, filter
// facets, and the ingestion CRUD surface.
package listings

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lotview/lotview/internal/pipeline"
	"github.com/lotview/lotview/internal/server"
	"github.com/lotview/lotview/internal/services"
	"github.com/lotview/lotview/pkg/models"
)

// Handler provides HTTP handlers for listing endpoints.
type Handler struct {
	repo     services.ListingRepository
	engine   *pipeline.Engine
	defaults Defaults
	logger   *zap.Logger
}

// NewHandler creates a listings Handler.
func NewHandler(repo services.ListingRepository, engine *pipeline.Engine, defaults Defaults, logger *zap.Logger) *Handler {
	return &Handler{
		repo:     repo,
		engine:   engine,
		defaults: defaults,
		logger:   logger,
	}
}

// RegisterRoutes registers listing routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/listings", h.handleQuery)
	mux.HandleFunc("GET /api/v1/listings/facets", h.handleFacets)
	mux.HandleFunc("GET /api/v1/listings/{vin}", h.handleGet)
	mux.HandleFunc("POST /api/v1/listings", h.handleCreate)
	mux.HandleFunc("PUT /api/v1/listings/{vin}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/v1/listings/{vin}", h.handleDelete)
}

// listingView is a Listing plus its derived quality tier, which is computed
// per response and never persisted.
type listingView struct {
	models.Listing
	QualityTier models.Tier `json:"quality_tier"`
}

type queryStats struct {
	TotalMatches  int                 `json:"total_matches"`
	TierCounts    map[models.Tier]int `json:"tier_counts"`
	ActiveFilters int                 `json:"active_filters"`
}

type paginationView struct {
	pipeline.Pagination
	// Pages is the windowed page-number list for UI controls; gaps appear
	// as the string "ellipsis".
	Pages []any `json:"pages"`
}

type queryResponse struct {
	Data       []listingView  `json:"data"`
	Stats      queryStats     `json:"stats"`
	Pagination paginationView `json:"pagination"`
}

// handleQuery runs the full query pipeline over the listing snapshot.
// Aggregate stats come from the complete filtered set, never the current
// page.
func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r.URL.Query(), h.defaults)
	if err != nil {
		queriesTotal.WithLabelValues("bad_request").Inc()
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	snapshot, err := h.repo.All(r.Context())
	if err != nil {
		h.logger.Error("failed to load listing snapshot", zap.Error(err))
		queriesTotal.WithLabelValues("error").Inc()
		server.InternalError(w, "failed to load listings", r.URL.Path)
		return
	}

	start := time.Now()
	result, err := h.engine.Run(snapshot, query)
	if errors.Is(err, pipeline.ErrUnknownSortField) {
		// A stale or hand-edited URL shouldn't break browsing: fall back to
		// the default sort.
		h.logger.Warn("unknown sort field, using default sort",
			zap.String("field", string(query.Sort.Field)))
		query.Sort = pipeline.DefaultSort()
		result, err = h.engine.Run(snapshot, query)
	}
	if err != nil {
		queriesTotal.WithLabelValues("bad_request").Inc()
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	queryDuration.Observe(time.Since(start).Seconds())
	queriesTotal.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, queryResponse{
		Data: h.views(result.Data),
		Stats: queryStats{
			TotalMatches:  len(result.AllFiltered),
			TierCounts:    h.engine.TierCounts(result.AllFiltered),
			ActiveFilters: pipeline.ActiveFilterCount(query.Criteria),
		},
		Pagination: paginationView{
			Pagination: result.Pagination,
			Pages: pageItems(pipeline.PageNumbers(
				result.Pagination.CurrentPage,
				result.Pagination.TotalPages,
				h.defaults.MaxVisiblePages,
			)),
		},
	})
}

// handleFacets returns the distinct makes and models present in the
// snapshot, for populating filter controls.
func (h *Handler) handleFacets(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.All(r.Context())
	if err != nil {
		h.logger.Error("failed to load listing snapshot", zap.Error(err))
		server.InternalError(w, "failed to load listings", r.URL.Path)
		return
	}

	makes, err := pipeline.UniqueValues(snapshot, pipeline.FieldMake)
	if err != nil {
		server.InternalError(w, err.Error(), r.URL.Path)
		return
	}
	mdls, err := pipeline.UniqueValues(snapshot, pipeline.FieldModel)
	if err != nil {
		server.InternalError(w, err.Error(), r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{
		"makes":  makes,
		"models": mdls,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vin := r.PathValue("vin")
	listing, err := h.repo.Get(r.Context(), vin)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			server.NotFound(w, fmt.Sprintf("listing %s not found", vin), r.URL.Path)
			return
		}
		h.logger.Error("failed to get listing", zap.String("vin", vin), zap.Error(err))
		server.InternalError(w, "failed to get listing", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, h.view(*listing))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var listing models.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if err := validateListing(&listing); err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	if err := h.repo.Create(r.Context(), &listing); err != nil {
		if errors.Is(err, services.ErrAlreadyExists) {
			server.Conflict(w, fmt.Sprintf("listing %s already exists", listing.VIN), r.URL.Path)
			return
		}
		h.logger.Error("failed to create listing", zap.String("vin", listing.VIN), zap.Error(err))
		server.InternalError(w, "failed to create listing", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusCreated, h.view(listing))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var listing models.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	listing.VIN = r.PathValue("vin")
	if err := validateListing(&listing); err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	if err := h.repo.Update(r.Context(), &listing); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			server.NotFound(w, fmt.Sprintf("listing %s not found", listing.VIN), r.URL.Path)
			return
		}
		h.logger.Error("failed to update listing", zap.String("vin", listing.VIN), zap.Error(err))
		server.InternalError(w, "failed to update listing", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, h.view(listing))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vin := r.PathValue("vin")
	if err := h.repo.Delete(r.Context(), vin); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			server.NotFound(w, fmt.Sprintf("listing %s not found", vin), r.URL.Path)
			return
		}
		h.logger.Error("failed to delete listing", zap.String("vin", vin), zap.Error(err))
		server.InternalError(w, "failed to delete listing", r.URL.Path)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// validateListing enforces ingestion-time invariants the pipeline assumes.
func validateListing(l *models.Listing) error {
	switch {
	case len(l.VIN) != 17:
		return fmt.Errorf("vin must be 17 characters, got %d", len(l.VIN))
	case l.Make == "" || l.Model == "":
		return errors.New("make and model are required")
	case l.Year <= 0:
		return errors.New("year is required")
	case l.Price.IsNegative():
		return errors.New("price must not be negative")
	case l.Mileage < 0:
		return errors.New("mileage must not be negative")
	case l.AccidentCount < 0:
		return errors.New("accident_count must not be negative")
	case l.OwnerCount < 1:
		return errors.New("owner_count must be positive")
	case l.PriorityScore < 0 || l.PriorityScore > 100:
		return fmt.Errorf("priority_score must be within [0, 100], got %d", l.PriorityScore)
	}
	return nil
}

func (h *Handler) view(l models.Listing) listingView {
	return listingView{
		Listing:     l,
		QualityTier: h.engine.Classifier().Classify(l.PriorityScore),
	}
}

func (h *Handler) views(listings []models.Listing) []listingView {
	out := make([]listingView, len(listings))
	for i := range listings {
		out[i] = h.view(listings[i])
	}
	return out
}

// pageItems converts a page-number window into its JSON shape, replacing the
// Ellipsis sentinel with the string "ellipsis".
func pageItems(pages []int) []any {
	out := make([]any, len(pages))
	for i, p := range pages {
		if p == pipeline.Ellipsis {
			out[i] = "ellipsis"
		} else {
			out[i] = p
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
