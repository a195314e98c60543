package shots

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"brickshot/internal/api/httperr"
	"brickshot/internal/app/http/middleware"
	"brickshot/internal/board"
	"brickshot/internal/domain/access"
	"brickshot/internal/domain/shotlist"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *board.Service
}

func NewHandler(svc *board.Service) *Handler {
	return &Handler{svc: svc}
}

// parseStatuses accepts ?status=a&status=b as well as ?status=a,b.
func parseStatuses(raw []string) ([]shotlist.Status, error) {
	var out []shotlist.Status
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			st := shotlist.Status(part)
			if !st.Valid() {
				return nil, shotlist.ErrInvalidStatus
			}
			out = append(out, st)
		}
	}
	return out, nil
}

// GET /scenes/:id/shots
func (h *Handler) List(c *gin.Context) {
	statuses, err := parseStatuses(c.QueryArray("status"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	b, err := h.svc.ListShots(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), statuses)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /scenes/:id/shots
// An empty body appends a shot at the end of the scene.
func (h *Handler) Create(c *gin.Context) {
	var input board.NewShot
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.CreateShot(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GET /shots/:id
func (h *Handler) Get(c *gin.Context) {
	detail, err := h.svc.GetShot(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// PUT /shots/:id
func (h *Handler) Update(c *gin.Context) {
	var patch board.ShotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateShot(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), patch); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shot updated"})
}

// DELETE /shots/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.DeleteShot(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /shots/:id/cycle
func (h *Handler) Cycle(c *gin.Context) {
	h.respondRow(c, h.svc.CycleStatus)
}

// POST /shots/:id/toggle-unsure
func (h *Handler) ToggleUnsure(c *gin.Context) {
	h.respondRow(c, h.svc.ToggleUnsure)
}

// POST /shots/:id/lock
func (h *Handler) Lock(c *gin.Context) {
	h.respondRow(c, h.svc.LockShotCode)
}

// PUT /shots/:id/code
// An empty code unpins the shot.
func (h *Handler) EditCode(c *gin.Context) {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := h.svc.EditShotCode(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input.Code)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) respondRow(c *gin.Context, action func(context.Context, access.Caller, string) (*board.ShotRow, error)) {
	row, err := action(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
