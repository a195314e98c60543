// Package httperr turns service errors into JSON error responses.
package httperr

import (
	"errors"
	"net/http"

	"brickshot/internal/board"
	"brickshot/internal/domain/access"
	"brickshot/internal/domain/numbering"
	"brickshot/internal/domain/ordering"
	"brickshot/internal/domain/shotlist"

	"github.com/gin-gonic/gin"
)

// Status picks the HTTP status for err. Unknown errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shotlist.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shotlist.ErrAttachmentExists):
		return http.StatusConflict
	case errors.Is(err, ordering.ErrIndexOutOfRange),
		errors.Is(err, numbering.ErrInvalidNumber),
		errors.Is(err, shotlist.ErrNotPinned),
		errors.Is(err, shotlist.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Write aborts the request with err. Internal errors are recorded on the
// context for the request logger and answered with a generic message.
func Write(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
