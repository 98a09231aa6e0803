package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/middleware"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub         *services.WSHub
	userService *services.UserService
	feedService *services.FeedService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	userService *services.UserService,
	feedService *services.FeedService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
		feedService: feedService,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ValidateWebSocketToken(r.URL.Query().Get("token"), h.userService)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	ctx := r.Context()

	// Send the current unread count on connect
	count, err := h.feedService.UnreadCount(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to count unread notifications")
	} else if err := h.hub.NotifyUnreadCount(userID, count); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to send unread_count message")
	}

	log.Info().Int64("user_id", userID).Msg("WebSocket connection established")

	// Handle messages
	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Int64("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to parse WebSocket message")
			h.sendError(userID, "Invalid message format")
			continue
		}

		if err := h.handleMessage(ctx, userID, msg); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Str("type", msg.Type).Msg("Failed to handle message")
			h.sendError(userID, apperrors.Message(err, "Failed to handle message"))
		}
	}
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(ctx context.Context, userID int64, msg services.WSMessage) error {
	switch msg.Type {
	case services.WSTypeMarkRead:
		return h.handleMarkRead(ctx, userID, msg)
	default:
		return apperrors.Validation(fmt.Sprintf("Unknown message type %q", msg.Type))
	}
}

// handleMarkRead handles mark_read messages
func (h *WebSocketHandler) handleMarkRead(ctx context.Context, userID int64, msg services.WSMessage) error {
	if msg.NotificationID == 0 {
		return apperrors.Validation("notification_id is required")
	}

	if err := h.feedService.MarkRead(ctx, userID, msg.NotificationID); err != nil {
		return err
	}

	count, err := h.feedService.UnreadCount(ctx, userID)
	if err != nil {
		return err
	}

	return h.hub.NotifyUnreadCount(userID, count)
}

// sendError sends an error message to the user
func (h *WebSocketHandler) sendError(userID int64, message string) {
	if err := h.hub.SendError(userID, message); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to send error message")
	}
}
