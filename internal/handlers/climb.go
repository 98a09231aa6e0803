package handlers

import (
	"net/http"
	"strconv"

	"github.com/mmc102/partner-finder/internal/middleware"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ClimbHandler handles climbs and interest in them
type ClimbHandler struct {
	catalogService  *services.CatalogService
	interestService *services.InterestService
}

// NewClimbHandler creates a new climb handler
func NewClimbHandler(catalogService *services.CatalogService, interestService *services.InterestService) *ClimbHandler {
	return &ClimbHandler{
		catalogService:  catalogService,
		interestService: interestService,
	}
}

// ListClimbs handles GET /api/v1/climbs
func (h *ClimbHandler) ListClimbs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	listings, err := h.catalogService.ListClimbs(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list climbs")
		respondServiceError(w, err, "Failed to list climbs")
		return
	}

	respondJSON(w, http.StatusOK, listings)
}

// GetClimb handles GET /api/v1/climbs/{climb_id}
func (h *ClimbHandler) GetClimb(w http.ResponseWriter, r *http.Request) {
	climbID := chi.URLParam(r, "climb_id")

	details, err := h.catalogService.GetClimb(r.Context(), climbID)
	if err != nil {
		log.Error().Err(err).Str("climb_id", climbID).Msg("Failed to get climb")
		respondServiceError(w, err, "Failed to get climb")
		return
	}

	respondJSON(w, http.StatusOK, details)
}

// AddInterest handles POST /api/v1/climbs/{climb_id}/interest
func (h *ClimbHandler) AddInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	climbID := chi.URLParam(r, "climb_id")

	interest, err := h.interestService.AddInterest(ctx, userID, climbID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Str("climb_id", climbID).
			Msg("Failed to add interest")
		respondServiceError(w, err, "Failed to add interest")
		return
	}

	log.Info().
		Int64("user_id", userID).
		Str("climb_id", climbID).
		Msg("Interest added")

	respondJSON(w, http.StatusOK, interest)
}

// RemoveInterest handles DELETE /api/v1/climbs/{climb_id}/interest?completed=true|false
func (h *ClimbHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	climbID := chi.URLParam(r, "climb_id")

	completed := false
	if raw := r.URL.Query().Get("completed"); raw != "" {
		var err error
		completed, err = strconv.ParseBool(raw)
		if err != nil {
			respondError(w, "completed must be true or false", http.StatusBadRequest)
			return
		}
	}

	if err := h.interestService.RemoveInterest(ctx, userID, climbID, completed); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Str("climb_id", climbID).
			Msg("Failed to remove interest")
		respondServiceError(w, err, "Failed to remove interest")
		return
	}

	log.Info().
		Int64("user_id", userID).
		Str("climb_id", climbID).
		Bool("completed", completed).
		Msg("Interest removed")

	w.WriteHeader(http.StatusNoContent)
}
