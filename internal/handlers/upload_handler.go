package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yallahq/yalla-api/internal/errors"
	"github.com/yallahq/yalla-api/internal/storage"
)

// UploadHandler handles completion image uploads and downloads
type UploadHandler struct {
	store *storage.Store
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store *storage.Store) *UploadHandler {
	return &UploadHandler{
		store: store,
	}
}

// GenerateUploadURL handles POST /api/uploads
func (h *UploadHandler) GenerateUploadURL(c *gin.Context) {
	storageID, uploadURL := h.store.GenerateUploadTarget()

	c.JSON(http.StatusOK, gin.H{
		"storageId": storageID,
		"uploadUrl": uploadURL,
	})
}

// UploadObject handles PUT /api/uploads/:storageId
func (h *UploadHandler) UploadObject(c *gin.Context) {
	storageID := c.Param("storageId")

	if err := h.store.Save(storageID, c.Request.Body); err != nil {
		apierrors.BadRequest(c, "Invalid storage id")
		return
	}

	c.JSON(http.StatusOK, gin.H{"storageId": storageID})
}

// GetObjectURL handles GET /api/images/:storageId
func (h *UploadHandler) GetObjectURL(c *gin.Context) {
	url, err := h.store.ResolveURL(c.Param("storageId"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to resolve object")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// DownloadObject handles GET /api/uploads/:storageId
func (h *UploadHandler) DownloadObject(c *gin.Context) {
	reader, err := h.store.Open(c.Param("storageId"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to open object")
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", reader, nil)
}
