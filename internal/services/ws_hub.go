package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mmc102/partner-finder/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket message types
const (
	WSTypeNotification = "notification"
	WSTypeUnreadCount  = "unread_count"
	WSTypeMarkRead     = "mark_read"
	WSTypeError        = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type           string               `json:"type"`
	NotificationID int64                `json:"notification_id,omitempty"`
	Notification   *models.Notification `json:"notification,omitempty"`
	UnreadCount    *int                 `json:"unread_count,omitempty"`
	Message        string               `json:"message,omitempty"`
}

// wsClient serializes writes to one connection
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages WebSocket connections, one per user
type WSHub struct {
	mu          sync.RWMutex
	connections map[int64]*wsClient
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[int64]*wsClient),
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existing, exists := h.connections[userID]; exists {
		existing.conn.Close()
	}

	h.connections[userID] = &wsClient{conn: conn}

	log.Info().Int64("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes the connection of a user. A connection that has
// already been replaced by a newer one is only closed.
func (h *WSHub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	if client, exists := h.connections[userID]; exists && client.conn == conn {
		delete(h.connections, userID)
		log.Info().Int64("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID int64, message WSMessage) error {
	h.mu.RLock()
	client, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %d is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(userID, client.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// NotifyNotification pushes a new notification and the unread count to its recipient
func (h *WSHub) NotifyNotification(notification *models.Notification, unread int) error {
	return h.SendToUser(notification.UserID, WSMessage{
		Type:         WSTypeNotification,
		Notification: notification,
		UnreadCount:  &unread,
	})
}

// NotifyUnreadCount pushes the unread count to a user
func (h *WSHub) NotifyUnreadCount(userID int64, unread int) error {
	return h.SendToUser(userID, WSMessage{
		Type:        WSTypeUnreadCount,
		UnreadCount: &unread,
	})
}

// SendError sends an error message to a user
func (h *WSHub) SendError(userID int64, message string) error {
	return h.SendToUser(userID, WSMessage{
		Type:    WSTypeError,
		Message: message,
	})
}
