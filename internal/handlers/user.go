package handlers

import (
	"net/http"

	"github.com/mmc102/partner-finder/internal/middleware"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles profiles and the follow graph
type UserHandler struct {
	userService   *services.UserService
	socialService *services.SocialService
	feedService   *services.FeedService
	wsHub         *services.WSHub
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	userService *services.UserService,
	socialService *services.SocialService,
	feedService *services.FeedService,
	wsHub *services.WSHub,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		socialService: socialService,
		feedService:   feedService,
		wsHub:         wsHub,
	}
}

// GetProfile handles GET /api/v1/users/{user_id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "user_id")
	if err != nil {
		respondError(w, "Invalid user_id", http.StatusBadRequest)
		return
	}

	profile, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get profile")
		respondServiceError(w, err, "Failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Dashboard handles GET /api/v1/dashboard
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	dashboard, err := h.feedService.Dashboard(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to build dashboard")
		respondServiceError(w, err, "Failed to build dashboard")
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}

// ListUsers handles GET /api/v1/users and returns the users not yet followed
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	users, err := h.socialService.ListNonConnections(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list users")
		respondServiceError(w, err, "Failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// ListFollowing handles GET /api/v1/me/following
func (h *UserHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	users, err := h.socialService.ListFollowing(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list following")
		respondServiceError(w, err, "Failed to list following")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// ListFollowers handles GET /api/v1/me/followers
func (h *UserHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	users, err := h.socialService.ListFollowers(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list followers")
		respondServiceError(w, err, "Failed to list followers")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// Follow handles POST /api/v1/users/{user_id}/follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	targetID, err := int64Param(r, "user_id")
	if err != nil {
		respondError(w, "Invalid user_id", http.StatusBadRequest)
		return
	}

	result, err := h.socialService.Follow(ctx, userID, targetID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("target_id", targetID).
			Msg("Failed to follow user")
		respondServiceError(w, err, "Failed to follow user")
		return
	}

	log.Info().
		Int64("user_id", userID).
		Int64("target_id", targetID).
		Msg("User followed")

	// Push the notification if the target is online
	if h.wsHub.IsOnline(targetID) {
		unread, err := h.feedService.UnreadCount(ctx, targetID)
		if err == nil {
			err = h.wsHub.NotifyNotification(result.Notification, unread)
		}
		if err != nil {
			log.Error().
				Err(err).
				Int64("target_id", targetID).
				Msg("Failed to push follow notification")
		}
	}

	respondJSON(w, http.StatusCreated, result)
}
