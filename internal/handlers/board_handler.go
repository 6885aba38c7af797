package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yallahq/yalla-api/internal/errors"
	"github.com/yallahq/yalla-api/internal/middleware"
	"github.com/yallahq/yalla-api/internal/services"
)

// BoardHandler handles board, column and item HTTP requests
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// authUserIDPtr returns the caller identity as a pointer, or nil when the
// request is anonymous.
func authUserIDPtr(c *gin.Context) *string {
	if id, ok := middleware.GetAuthUserID(c); ok {
		return &id
	}
	return nil
}

// ListBoards handles GET /api/boards
func (h *BoardHandler) ListBoards(c *gin.Context) {
	boards, err := h.boardService.ListBoards(authUserIDPtr(c))
	if err != nil {
		apierrors.InternalError(c, "Failed to list boards")
		return
	}

	c.JSON(http.StatusOK, boards)
}

// ListAllBoards handles GET /api/boards/all
func (h *BoardHandler) ListAllBoards(c *gin.Context) {
	boards, err := h.boardService.ListAllBoards()
	if err != nil {
		apierrors.InternalError(c, "Failed to list boards")
		return
	}

	c.JSON(http.StatusOK, boards)
}

// ListMyBoards handles GET /api/boards/mine
func (h *BoardHandler) ListMyBoards(c *gin.Context) {
	authUserID, ok := middleware.GetAuthUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	boards, err := h.boardService.ListUserBoards(authUserID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list boards")
		return
	}

	c.JSON(http.StatusOK, boards)
}

// GetBoard handles GET /api/boards/:boardId
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, err := h.boardService.GetBoard(c.Param("boardId"))
	if err != nil {
		if errors.Is(err, services.ErrBoardNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to get board")
		return
	}

	c.JSON(http.StatusOK, board)
}

// CreateBoard handles POST /api/boards
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req struct {
		Name  string  `json:"name" binding:"required"`
		Color *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	// Reads on this surface are open but creation needs an owner.
	authUserID, ok := middleware.GetAuthUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := h.boardService.CreateBoard(services.CreateBoardInput{
		Name:       req.Name,
		Color:      req.Color,
		AuthUserID: authUserID,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create board")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateBoard handles PATCH /api/boards/:boardId
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	board, err := h.boardService.UpdateBoard(c.Param("boardId"), authUserIDPtr(c), services.UpdateBoardInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		h.respondBoardError(c, err, "Failed to update board")
		return
	}

	c.JSON(http.StatusOK, board)
}

// CreateColumn handles POST /api/boards/:boardId/columns
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	column, err := h.boardService.CreateColumn(c.Param("boardId"), req.Name, authUserIDPtr(c))
	if err != nil {
		h.respondBoardError(c, err, "Failed to create column")
		return
	}

	c.JSON(http.StatusCreated, column)
}

// UpdateColumn handles PATCH /api/boards/:boardId/columns/:columnId
func (h *BoardHandler) UpdateColumn(c *gin.Context) {
	var req struct {
		Name  *string `json:"name"`
		Order *int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	column, err := h.boardService.UpdateColumn(
		c.Param("boardId"), c.Param("columnId"), authUserIDPtr(c),
		services.UpdateColumnInput{Name: req.Name, Order: req.Order},
	)
	if err != nil {
		h.respondBoardError(c, err, "Failed to update column")
		return
	}

	c.JSON(http.StatusOK, column)
}

// DeleteColumn handles DELETE /api/boards/:boardId/columns/:columnId
func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	if err := h.boardService.DeleteColumn(c.Param("boardId"), c.Param("columnId"), authUserIDPtr(c)); err != nil {
		h.respondBoardError(c, err, "Failed to delete column")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateItem handles POST /api/boards/:boardId/items
func (h *BoardHandler) CreateItem(c *gin.Context) {
	var req struct {
		ID       string  `json:"id"`
		Title    string  `json:"title" binding:"required"`
		Content  *string `json:"content"`
		Order    int     `json:"order"`
		ColumnID string  `json:"columnId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	item, err := h.boardService.CreateItem(c.Param("boardId"), authUserIDPtr(c), services.CreateItemInput{
		ID:       req.ID,
		Title:    req.Title,
		Content:  req.Content,
		Order:    req.Order,
		ColumnID: req.ColumnID,
	})
	if err != nil {
		h.respondBoardError(c, err, "Failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PATCH /api/boards/:boardId/items/:itemId
func (h *BoardHandler) UpdateItem(c *gin.Context) {
	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Order    *int    `json:"order"`
		ColumnID *string `json:"columnId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	item, err := h.boardService.UpdateItem(
		c.Param("boardId"), c.Param("itemId"), authUserIDPtr(c),
		services.UpdateItemInput{
			Title:    req.Title,
			Content:  req.Content,
			Order:    req.Order,
			ColumnID: req.ColumnID,
		},
	)
	if err != nil {
		h.respondBoardError(c, err, "Failed to update item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/boards/:boardId/items/:itemId
func (h *BoardHandler) DeleteItem(c *gin.Context) {
	if err := h.boardService.DeleteItem(c.Param("boardId"), c.Param("itemId"), authUserIDPtr(c)); err != nil {
		h.respondBoardError(c, err, "Failed to delete item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *BoardHandler) respondBoardError(c *gin.Context, err error, fallback string) {
	var accessErr *services.BoardAccessError
	switch {
	case errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrColumnNotFound),
		errors.Is(err, services.ErrItemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.As(err, &accessErr):
		apierrors.Forbidden(c, accessErr.Error())
	default:
		apierrors.InternalError(c, fallback)
	}
}
