package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mmc102/partner-finder/internal/middleware"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AreaHandler handles the area tree
type AreaHandler struct {
	catalogService *services.CatalogService
}

// NewAreaHandler creates a new area handler
func NewAreaHandler(catalogService *services.CatalogService) *AreaHandler {
	return &AreaHandler{
		catalogService: catalogService,
	}
}

// ListRootAreas handles GET /api/v1/areas
func (h *AreaHandler) ListRootAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.catalogService.ListRootAreas(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list areas")
		respondServiceError(w, err, "Failed to list areas")
		return
	}

	respondJSON(w, http.StatusOK, areas)
}

// GetArea handles GET /api/v1/areas/{area_id}
func (h *AreaHandler) GetArea(w http.ResponseWriter, r *http.Request) {
	areaID := chi.URLParam(r, "area_id")

	details, err := h.catalogService.GetArea(r.Context(), areaID)
	if err != nil {
		log.Error().Err(err).Str("area_id", areaID).Msg("Failed to get area")
		respondServiceError(w, err, "Failed to get area")
		return
	}

	respondJSON(w, http.StatusOK, details)
}

// AddArea handles POST /api/v1/areas/{area_id}/areas
func (h *AreaHandler) AddArea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parentID := chi.URLParam(r, "area_id")

	var req services.NewArea
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	area, err := h.catalogService.AddArea(ctx, parentID, req)
	if err != nil {
		log.Error().Err(err).Str("parent_id", parentID).Msg("Failed to add area")
		respondServiceError(w, err, "Failed to add area")
		return
	}

	log.Info().
		Int64("user_id", middleware.GetUserID(ctx)).
		Str("area_id", area.ID).
		Str("parent_id", parentID).
		Msg("Area added")

	respondJSON(w, http.StatusCreated, area)
}

// AddClimb handles POST /api/v1/areas/{area_id}/climbs
func (h *AreaHandler) AddClimb(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	areaID := chi.URLParam(r, "area_id")

	var req services.NewClimb
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	climb, err := h.catalogService.AddClimb(ctx, areaID, req)
	if err != nil {
		log.Error().Err(err).Str("area_id", areaID).Msg("Failed to add climb")
		respondServiceError(w, err, "Failed to add climb")
		return
	}

	log.Info().
		Int64("user_id", middleware.GetUserID(ctx)).
		Str("climb_id", climb.ID).
		Str("area_id", areaID).
		Msg("Climb added")

	respondJSON(w, http.StatusCreated, climb)
}
