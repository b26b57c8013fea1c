package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/middleware"
	"github.com/bizbooks/bizbooks_backend/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// notificationHandler serves the notification feed backed by the same store
// the websocket hub broadcasts from, so both surfaces stay consistent.
type notificationHandler struct {
	store *realtime.Store
}

func newNotificationHandler(store *realtime.Store) *notificationHandler {
	return &notificationHandler{store: store}
}

// registerNotificationRoutes registers routes related to notifications.
func registerNotificationRoutes(rg *gin.RouterGroup, store *realtime.Store) {
	h := newNotificationHandler(store)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("", h.publishNotification)
		notifications.POST("/read-all", h.markAllRead)
		notifications.POST("/:id/read", h.markRead)
		notifications.DELETE("/:id", h.deleteNotification)
		notifications.DELETE("", h.clearAll)
	}
}

// listNotifications godoc
// @Summary List notifications
// @Description Retrieves the notification feed, most recent first, with the unread count
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ListNotificationsResponse{
		Notifications: h.store.List(),
		UnreadCount:   h.store.UnreadCount(),
	})
}

// publishNotification godoc
// @Summary Publish a notification
// @Description Pushes a notification into the feed and broadcasts it to connected websocket clients
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body dto.PublishNotificationRequest true "Notification details"
// @Success 201 {object} domain.Notification
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications [post]
func (h *notificationHandler) publishNotification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PublishNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PublishNotification", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	n := h.store.Publish(domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         loggedInUserID,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		Timestamp:      time.Now().UTC(),
	})

	logger.Info("Notification published", slog.String("notification_id", n.NotificationID), slog.String("type", string(n.Type)))
	c.JSON(http.StatusCreated, n)
}

// markRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	if !h.store.MarkRead(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// markAllRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *notificationHandler) markAllRead(c *gin.Context) {
	h.store.MarkAllRead()
	c.Status(http.StatusNoContent)
}

// deleteNotification godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (h *notificationHandler) deleteNotification(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// clearAll godoc
// @Summary Clear all notifications
// @Tags notifications
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications [delete]
func (h *notificationHandler) clearAll(c *gin.Context) {
	h.store.ClearAll()
	c.Status(http.StatusNoContent)
}
