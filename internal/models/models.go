package models

import "time"

// Feed item actions
const (
	ActionFollowed         = "followed"
	ActionNewInterestClimb = "new_interest_climb"
	ActionCompletedClimb   = "completed_climb"
)

// Notification types
const (
	NotificationTypeGeneral = "general"
	NotificationTypeFollow  = "follow"
)

// User represents a registered climber. The email is private and only
// serialized through the account view of its owner.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"-"`
	PasswordHash string `json:"-"`
}

// UserAssociation is a directed follow edge from UserID to FriendID
type UserAssociation struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	FriendID   int64     `json:"friend_id"`
	FollowedAt time.Time `json:"followed_at"`
}

// Area is a node in the location tree. Root areas have no parent.
type Area struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ParentID  *string  `json:"parent_id,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Climb represents a route inside a leaf area
type Climb struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	GradeYDS    *string  `json:"grade_yds,omitempty"`
	GradeFont   *string  `json:"grade_font,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Protection  *string  `json:"protection,omitempty"`
	AreaID      string   `json:"area_id"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// UserInterest marks a climb the user is currently projecting
type UserInterest struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	ClimbID string `json:"climb_id"`
}

// FeedItem is an append-only record of a social action.
// UserName is filled on reads for display.
type FeedItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Notification is an alert for UserID about something SourceUserID did.
// SourceUserName is filled on reads for display.
type Notification struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	SourceUserID     int64     `json:"source_user_id"`
	SourceUserName   string    `json:"source_user_name,omitempty"`
	Message          string    `json:"message"`
	Read             bool      `json:"read"`
	Timestamp        time.Time `json:"timestamp"`
	NotificationType string    `json:"notification_type"`
}
