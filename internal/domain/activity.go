package domain

import "time"

// Activity log actions.
const (
	ActionUserRegistered = "user_registered"
	ActionUserLogin      = "user_login"
	ActionUserCreated    = "user_created"
	ActionUserUpdated    = "user_updated"
	ActionUserDeleted    = "user_deleted"
)

// ActivityEntry is one appended event in the recent-activity window.
// UserID is the acting user, not necessarily the affected one.
type ActivityEntry struct {
	UserID    string         `json:"userId"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
