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

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// SyncUser handles POST /api/users/sync
func (h *UserHandler) SyncUser(c *gin.Context) {
	var req struct {
		Email  string  `json:"email" binding:"required,email"`
		Name   *string `json:"name"`
		Avatar *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	user, err := h.userService.CreateOrUpdate(services.SyncUserInput{
		AuthUserID: authUserID,
		Email:      req.Email,
		Name:       req.Name,
		Avatar:     req.Avatar,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to sync user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetCurrentUser handles GET /api/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	user, err := h.userService.GetByAuthID(authUserID)
	if err != nil {
		h.respondUserError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /api/users/:userId
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByAuthID(c.Param("userId"))
	if err != nil {
		h.respondUserError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListAll()
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdatePreferences handles PATCH /api/users/me/preferences
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var req models.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	user, err := h.userService.UpdatePreferences(authUserID, req)
	if err != nil {
		h.respondUserError(c, err, "Failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name   *string `json:"name"`
		Avatar *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	user, err := h.userService.UpdateProfile(authUserID, services.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		h.respondUserError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/me
func (h *UserHandler) DeleteUser(c *gin.Context) {
	authUserID, _ := middleware.GetAuthUserID(c)

	if err := h.userService.Delete(authUserID); err != nil {
		apierrors.InternalError(c, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateKarmaLevel handles POST /api/users/me/karma
func (h *UserHandler) UpdateKarmaLevel(c *gin.Context) {
	var req struct {
		KarmaLevel *int `json:"karmaLevel" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	user, err := h.userService.UpdateKarmaLevel(authUserID, *req.KarmaLevel)
	if err != nil {
		h.respondUserError(c, err, "Failed to update karma level")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateTasksCompleted handles POST /api/users/me/tasks-completed
func (h *UserHandler) UpdateTasksCompleted(c *gin.Context) {
	h.updateCounter(c, h.userService.UpdateTasksCompleted, "Failed to update completed tasks")
}

// UpdateTasksAssigned handles POST /api/users/me/tasks-assigned
func (h *UserHandler) UpdateTasksAssigned(c *gin.Context) {
	h.updateCounter(c, h.userService.UpdateTasksAssigned, "Failed to update assigned tasks")
}

func (h *UserHandler) updateCounter(
	c *gin.Context,
	update func(string, services.CounterUpdateInput) (*models.User, error),
	fallback string,
) {
	var req struct {
		Increment bool `json:"increment"`
		Count     *int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authUserID, _ := middleware.GetAuthUserID(c)

	user, err := update(authUserID, services.CounterUpdateInput{
		Increment: req.Increment,
		Count:     req.Count,
	})
	if err != nil {
		h.respondUserError(c, err, fallback)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) respondUserError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrUserNotFound) {
		apierrors.NotFound(c, err.Error())
		return
	}
	apierrors.InternalError(c, fallback)
}
