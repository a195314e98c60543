package shots

import (
	"net/http"

	"brickshot/internal/api/httperr"
	"brickshot/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

// POST /attachments/upload-url
func (h *Handler) UploadURL(c *gin.Context) {
	ticket, err := h.svc.GenerateUploadURL(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// POST /shots/:id/attachments
func (h *Handler) AddAttachment(c *gin.Context) {
	var input struct {
		Filename   string `json:"filename" binding:"required"`
		StorageKey string `json:"storage_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.svc.AddAttachment(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input.Filename, input.StorageKey)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}
