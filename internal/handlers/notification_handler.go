package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yallahq/yalla-api/internal/errors"
	"github.com/yallahq/yalla-api/internal/middleware"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/services"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.BadRequest(c, "limit must be an integer")
			return
		}
		limit = parsed
	}

	notifications, err := h.notificationService.GetUserNotifications(authUserID, limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	count, err := h.notificationService.GetUnreadCount(authUserID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// CreateNotification handles POST /api/notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req struct {
		UserID     string                  `json:"userId" binding:"required"`
		Type       models.NotificationType `json:"type" binding:"required,oneof=vote assignment completion invite achievement reminder"`
		Title      string                  `json:"title" binding:"required"`
		Message    string                  `json:"message" binding:"required"`
		Emoji      string                  `json:"emoji" binding:"required"`
		ActionURL  *string                 `json:"actionUrl"`
		EntityType *models.EntityType      `json:"entityType" binding:"omitempty,oneof=board item user circle yalla"`
		EntityID   *string                 `json:"entityId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	id, err := h.notificationService.CreateNotification(services.CreateNotificationInput{
		UserID:     req.UserID,
		Type:       req.Type,
		Title:      req.Title,
		Message:    req.Message,
		Emoji:      req.Emoji,
		ActionURL:  req.ActionURL,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create notification")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// MarkAsRead handles POST /api/notifications/:notificationId/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.notificationService.MarkAsRead(c.Param("notificationId"), authUserID); err != nil {
		h.respondNotificationError(c, err, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllAsRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	count, err := h.notificationService.MarkAllAsRead(authUserID)
	if err != nil {
		apierrors.InternalError(c, "Failed to mark notifications as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// DeleteNotification handles DELETE /api/notifications/:notificationId
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.notificationService.DeleteNotification(c.Param("notificationId"), authUserID); err != nil {
		h.respondNotificationError(c, err, "Failed to delete notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// NotifyYallaEvent handles POST /api/notifications/events/yalla
func (h *NotificationHandler) NotifyYallaEvent(c *gin.Context) {
	var req struct {
		Type    models.NotificationType `json:"type" binding:"required,oneof=vote assignment completion"`
		YallaID string                  `json:"yallaId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	ids, err := h.notificationService.NotifyYallaEvent(services.NotifyYallaEventInput{
		Type:        req.Type,
		YallaID:     req.YallaID,
		TriggeredBy: authUserID,
	})
	if err != nil {
		if errors.Is(err, services.ErrYallaNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to deliver notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notificationIds": ids})
}

// NotifyTaskEvent handles POST /api/notifications/events/task
func (h *NotificationHandler) NotifyTaskEvent(c *gin.Context) {
	var req struct {
		Type          models.NotificationType `json:"type" binding:"required,oneof=assignment completion"`
		ItemID        string                  `json:"itemId" binding:"required"`
		BoardID       string                  `json:"boardId" binding:"required"`
		AssignerName  *string                 `json:"assignerName"`
		CompleterName *string                 `json:"completerName"`
		ItemTitle     *string                 `json:"itemTitle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	ids, err := h.notificationService.NotifyTaskEvent(services.NotifyTaskEventInput{
		Type:        req.Type,
		ItemID:      req.ItemID,
		BoardID:     req.BoardID,
		TriggeredBy: authUserID,
		Data: &services.TaskEventData{
			AssignerName:  req.AssignerName,
			CompleterName: req.CompleterName,
			ItemTitle:     req.ItemTitle,
		},
	})
	if err != nil {
		if errors.Is(err, services.ErrBoardNotFound) || errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to deliver notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notificationIds": ids})
}

// NotifyAchievement handles POST /api/notifications/events/achievement
func (h *NotificationHandler) NotifyAchievement(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
		Emoji   string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	id, err := h.notificationService.NotifyAchievement(authUserID, services.AchievementDetails{
		Title:   req.Title,
		Message: req.Message,
		Emoji:   req.Emoji,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create notification")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// NotifyBoardInvite handles POST /api/notifications/events/board-invite
func (h *NotificationHandler) NotifyBoardInvite(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		BoardID     string `json:"boardId" binding:"required"`
		BoardName   string `json:"boardName" binding:"required"`
		InviterName string `json:"inviterName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	id, err := h.notificationService.NotifyBoardInvite(req.UserID, req.BoardID, req.BoardName, req.InviterName)
	if err != nil {
		apierrors.InternalError(c, "Failed to create notification")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// NotifyCircleInvite handles POST /api/notifications/events/circle-invite
func (h *NotificationHandler) NotifyCircleInvite(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		CircleID    string `json:"circleId" binding:"required"`
		CircleName  string `json:"circleName" binding:"required"`
		InviterName string `json:"inviterName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	id, err := h.notificationService.NotifyCircleInvite(req.UserID, req.CircleID, req.CircleName, req.InviterName)
	if err != nil {
		apierrors.InternalError(c, "Failed to create notification")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *NotificationHandler) respondNotificationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotNotificationOwner),
		errors.Is(err, services.ErrCannotDeleteOtherInbox):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, fallback)
	}
}
