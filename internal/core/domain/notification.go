package domain

import "time"

// NotificationType categorises a notification for display purposes.
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

// Notification is a single user-facing event delivered over the realtime
// channel and listed by the notification endpoints. Both surfaces share one
// store, so the read/unread state is consistent between them.
type Notification struct {
	NotificationID string           `json:"id"`
	UserID         string           `json:"-"` // Owner; not serialised to the wire
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Timestamp      time.Time        `json:"timestamp"`
	Read           bool             `json:"read"`
}
