package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yallahq/yalla-api/internal/dto"
	apierrors "github.com/yallahq/yalla-api/internal/errors"
	"github.com/yallahq/yalla-api/internal/middleware"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/services"
)

// CircleHandler handles circle and membership HTTP requests
type CircleHandler struct {
	circleService *services.CircleService
}

// NewCircleHandler creates a new CircleHandler
func NewCircleHandler(circleService *services.CircleService) *CircleHandler {
	return &CircleHandler{
		circleService: circleService,
	}
}

// ListUserCircles handles GET /api/circles
func (h *CircleHandler) ListUserCircles(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	circles, err := h.circleService.GetUserCircles(authUserID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list circles")
		return
	}

	result := make([]dto.CircleWithMembersDTO, 0, len(circles))
	for _, cw := range circles {
		result = append(result, dto.ToCircleWithMembersDTO(cw.Circle, cw.Members))
	}

	c.JSON(http.StatusOK, result)
}

// CreateCircle handles POST /api/circles
func (h *CircleHandler) CreateCircle(c *gin.Context) {
	var req struct {
		Name                  string                  `json:"name" binding:"required"`
		Description           string                  `json:"description"`
		Color                 string                  `json:"color" binding:"required"`
		AssignmentPermissions models.AssignmentPolicy `json:"assignmentPermissions" binding:"required,oneof=admin-only all-members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	id, err := h.circleService.CreateCircle(services.CreateCircleInput{
		Name:                  req.Name,
		Description:           req.Description,
		Color:                 req.Color,
		AdminID:               authUserID,
		AssignmentPermissions: req.AssignmentPermissions,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create circle")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateCircle handles PATCH /api/circles/:circleId
func (h *CircleHandler) UpdateCircle(c *gin.Context) {
	var req struct {
		Name                  *string                  `json:"name"`
		Description           *string                  `json:"description"`
		Color                 *string                  `json:"color"`
		AssignmentPermissions *models.AssignmentPolicy `json:"assignmentPermissions" binding:"omitempty,oneof=admin-only all-members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	circle, err := h.circleService.UpdateCircle(c.Param("circleId"), authUserID, services.UpdateCircleInput{
		Name:                  req.Name,
		Description:           req.Description,
		Color:                 req.Color,
		AssignmentPermissions: req.AssignmentPermissions,
	})
	if err != nil {
		h.respondCircleError(c, err, "Failed to update circle")
		return
	}

	c.JSON(http.StatusOK, circle)
}

// DeleteCircle handles DELETE /api/circles/:circleId
func (h *CircleHandler) DeleteCircle(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.circleService.DeleteCircle(c.Param("circleId"), authUserID); err != nil {
		h.respondCircleError(c, err, "Failed to delete circle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddMember handles POST /api/circles/:circleId/members
func (h *CircleHandler) AddMember(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.circleService.AddMember(c.Param("circleId"), req.UserID, authUserID); err != nil {
		h.respondCircleError(c, err, "Failed to add member")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// RemoveMember handles DELETE /api/circles/:circleId/members/:userId
func (h *CircleHandler) RemoveMember(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.circleService.RemoveMember(c.Param("circleId"), c.Param("userId"), authUserID); err != nil {
		h.respondCircleError(c, err, "Failed to remove member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CircleHandler) respondCircleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrCircleNotFound),
		errors.Is(err, services.ErrNotCircleMember):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotCircleAdminUpdate),
		errors.Is(err, services.ErrNotCircleAdminDelete),
		errors.Is(err, services.ErrNotCircleAdminAddMember),
		errors.Is(err, services.ErrNotAuthorizedRemoveMember),
		errors.Is(err, services.ErrCannotRemoveCircleAdmin):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyCircleMember):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, fallback)
	}
}
