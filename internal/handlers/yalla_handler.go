package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yallahq/yalla-api/internal/errors"
	"github.com/yallahq/yalla-api/internal/middleware"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/services"
)

// YallaHandler handles yalla and vote HTTP requests
type YallaHandler struct {
	yallaService *services.YallaService
}

// NewYallaHandler creates a new YallaHandler
func NewYallaHandler(yallaService *services.YallaService) *YallaHandler {
	return &YallaHandler{
		yallaService: yallaService,
	}
}

// ListUserYallas handles GET /api/yallas
func (h *YallaHandler) ListUserYallas(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	yallas, err := h.yallaService.GetUserYallas(authUserID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list yallas")
		return
	}

	c.JSON(http.StatusOK, yallas)
}

// ListCircleYallas handles GET /api/circles/:circleId/yallas
func (h *YallaHandler) ListCircleYallas(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	yallas, err := h.yallaService.GetCircleYallas(c.Param("circleId"), authUserID)
	if err != nil {
		h.respondYallaError(c, err, "Failed to list yallas")
		return
	}

	c.JSON(http.StatusOK, yallas)
}

// CreateYalla handles POST /api/yallas
func (h *YallaHandler) CreateYalla(c *gin.Context) {
	var req struct {
		Title           string           `json:"title" binding:"required"`
		Description     *string          `json:"description"`
		Type            models.YallaType `json:"type" binding:"required,oneof=community assigned"`
		CircleID        string           `json:"circleId" binding:"required"`
		AssignedTo      []string         `json:"assignedTo"`
		Priority        *int             `json:"priority"`
		DueDate         *int64           `json:"dueDate"`
		CompletionImage *string          `json:"completionImage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	id, err := h.yallaService.CreateYalla(services.CreateYallaInput{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		CircleID:        req.CircleID,
		CreatorID:       authUserID,
		AssignedTo:      req.AssignedTo,
		Priority:        req.Priority,
		DueDate:         req.DueDate,
		CompletionImage: req.CompletionImage,
	})
	if err != nil {
		h.respondYallaError(c, err, "Failed to create yalla")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateYalla handles PATCH /api/yallas/:yallaId
func (h *YallaHandler) UpdateYalla(c *gin.Context) {
	var req struct {
		Title           *string             `json:"title"`
		Description     *string             `json:"description"`
		Status          *models.YallaStatus `json:"status" binding:"omitempty,oneof=pending accepted completed declined"`
		CompletedAt     *int64              `json:"completedAt"`
		CompletionImage *string             `json:"completionImage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	yalla, err := h.yallaService.UpdateYalla(c.Param("yallaId"), authUserID, services.UpdateYallaInput{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		CompletedAt:     req.CompletedAt,
		CompletionImage: req.CompletionImage,
	})
	if err != nil {
		h.respondYallaError(c, err, "Failed to update yalla")
		return
	}

	c.JSON(http.StatusOK, yalla)
}

// DeleteYalla handles DELETE /api/yallas/:yallaId
func (h *YallaHandler) DeleteYalla(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.yallaService.DeleteYalla(c.Param("yallaId"), authUserID); err != nil {
		h.respondYallaError(c, err, "Failed to delete yalla")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VoteOnYalla handles POST /api/yallas/:yallaId/votes
func (h *YallaHandler) VoteOnYalla(c *gin.Context) {
	var req struct {
		Value *int `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.yallaService.VoteOnYalla(c.Param("yallaId"), authUserID, *req.Value); err != nil {
		h.respondYallaError(c, err, "Failed to record vote")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveVote handles DELETE /api/yallas/:yallaId/votes
func (h *YallaHandler) RemoveVote(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.yallaService.RemoveVote(c.Param("yallaId"), authUserID); err != nil {
		h.respondYallaError(c, err, "Failed to remove vote")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *YallaHandler) respondYallaError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrYallaNotFound),
		errors.Is(err, services.ErrCircleNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotCircleMemberCreate),
		errors.Is(err, services.ErrAssignedYallaAdminOnly),
		errors.Is(err, services.ErrNotAuthorizedEditYalla),
		errors.Is(err, services.ErrOnlyCreatorDeletesYalla),
		errors.Is(err, services.ErrCannotVote),
		errors.Is(err, services.ErrNotCircleViewer):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrVoteCommunityOnly):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, fallback)
	}
}
