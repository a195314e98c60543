package scenes

import (
	"errors"
	"io"
	"net/http"

	"brickshot/internal/api/httperr"
	"brickshot/internal/app/http/middleware"
	"brickshot/internal/board"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *board.Service
}

func NewHandler(svc *board.Service) *Handler {
	return &Handler{svc: svc}
}

// GET /projects/:id/scenes
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.ListScenes(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenes": list})
}

// POST /projects/:id/scenes
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sc, err := h.svc.CreateScene(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input.Description)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

// GET /scenes/:id
func (h *Handler) Get(c *gin.Context) {
	v, err := h.svc.GetScene(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// PUT /scenes/:id
func (h *Handler) Update(c *gin.Context) {
	var patch board.ScenePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateScene(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), patch); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scene updated"})
}

// DELETE /scenes/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.DeleteScene(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /scenes/:id/swap
func (h *Handler) Swap(c *gin.Context) {
	var input struct {
		I *int `json:"i" binding:"required"`
		J *int `json:"j" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.svc.SwapShots(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), *input.I, *input.J)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shot_order": order})
}
