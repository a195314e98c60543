package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"brickshot/internal/board"
	"brickshot/internal/domain/access"
	"brickshot/internal/domain/numbering"
	"brickshot/internal/domain/ordering"
	"brickshot/internal/domain/shotlist"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{access.ErrUnauthenticated, http.StatusUnauthorized},
		{access.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("shot x: %w", shotlist.ErrNotFound), http.StatusNotFound},
		{shotlist.ErrAttachmentExists, http.StatusConflict},
		{ordering.ErrIndexOutOfRange, http.StatusBadRequest},
		{numbering.ErrInvalidNumber, http.StatusBadRequest},
		{shotlist.ErrNotPinned, http.StatusBadRequest},
		{shotlist.ErrInvalidStatus, http.StatusBadRequest},
		{board.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestWriteHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Write(c, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, w.Body.String())
	assert.Len(t, c.Errors, 1)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Write(c, access.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, access.ErrForbidden.Error()), w.Body.String())
	assert.True(t, c.IsAborted())
}
