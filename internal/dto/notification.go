package dto

import (
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
)

// PublishNotificationRequest defines the data needed to push a notification.
type PublishNotificationRequest struct {
	Type    domain.NotificationType `json:"type" binding:"required,oneof=INFO SUCCESS WARNING ERROR"`
	Title   string                  `json:"title" binding:"required"`
	Message string                  `json:"message" binding:"required"`
}

// ListNotificationsResponse wraps the notification feed, most recent first.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}
