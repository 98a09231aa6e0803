package handlers

import (
	"net/http"
	"strconv"

	"github.com/mmc102/partner-finder/internal/middleware"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/rs/zerolog/log"
)

// FeedHandler handles the activity feed and notifications
type FeedHandler struct {
	feedService *services.FeedService
	wsHub       *services.WSHub
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService, wsHub *services.WSHub) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		wsHub:       wsHub,
	}
}

// UnreadCountResponse carries the number of unread notifications
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// GetFeed handles GET /api/v1/feed?limit=N
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	items, err := h.feedService.GetFeed(ctx, userID, limit)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get feed")
		respondServiceError(w, err, "Failed to get feed")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// SharedInterests handles GET /api/v1/shared-interests
func (h *FeedHandler) SharedInterests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	shared, err := h.feedService.SharedInterests(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get shared interests")
		respondServiceError(w, err, "Failed to get shared interests")
		return
	}

	respondJSON(w, http.StatusOK, shared)
}

// GetNotifications handles GET /api/v1/notifications
func (h *FeedHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	notifications, err := h.feedService.GetNotifications(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get notifications")
		respondServiceError(w, err, "Failed to get notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *FeedHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	count, err := h.feedService.UnreadCount(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to count unread notifications")
		respondServiceError(w, err, "Failed to count unread notifications")
		return
	}

	respondJSON(w, http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

// MarkRead handles POST /api/v1/notifications/{notification_id}/read
func (h *FeedHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	notificationID, err := int64Param(r, "notification_id")
	if err != nil {
		respondError(w, "Invalid notification_id", http.StatusBadRequest)
		return
	}

	if err := h.feedService.MarkRead(ctx, userID, notificationID); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("notification_id", notificationID).
			Msg("Failed to mark notification as read")
		respondServiceError(w, err, "Failed to mark notification as read")
		return
	}

	count, err := h.feedService.UnreadCount(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to count unread notifications")
		respondServiceError(w, err, "Failed to count unread notifications")
		return
	}

	// Keep other open tabs in sync
	if h.wsHub.IsOnline(userID) {
		if err := h.wsHub.NotifyUnreadCount(userID, count); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to push unread count")
		}
	}

	respondJSON(w, http.StatusOK, UnreadCountResponse{UnreadCount: count})
}
