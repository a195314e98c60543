package projects

import (
	"fmt"
	"net/http"

	"brickshot/internal/api/httperr"
	"brickshot/internal/app/http/middleware"
	"brickshot/internal/board"
	"brickshot/internal/domain/transfer"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *board.Service
}

func NewHandler(svc *board.Service) *Handler {
	return &Handler{svc: svc}
}

// GET /projects?search=
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.ListProjects(c.Request.Context(), middleware.CallerFrom(c), c.Query("search"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": list})
}

// POST /projects
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), middleware.CallerFrom(c), input.Name)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /projects/:id
func (h *Handler) Get(c *gin.Context) {
	details, err := h.svc.GetProjectDetails(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// PUT /projects/:id
func (h *Handler) Update(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.RenameProject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input.Name); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project updated"})
}

// DELETE /projects/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /projects/:id/open
func (h *Handler) Open(c *gin.Context) {
	if err := h.svc.OpenProject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /projects/:id/export
func (h *Handler) Export(c *gin.Context) {
	doc, err := h.svc.ExportProject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	name := ""
	if doc.Name != nil {
		name = *doc.Name
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, transfer.FileName(name)))
	c.JSON(http.StatusOK, doc)
}

// POST /projects/import
// The body is the content of an exported project file.
func (h *Handler) Import(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	doc, err := transfer.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.ImportProject(c.Request.Context(), middleware.CallerFrom(c), doc)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
