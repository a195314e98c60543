package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brickshot/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JWT_SECRET))
	require.NoError(t, err)
	return s
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/who", AuthMiddleware(), func(c *gin.Context) {
		caller := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": caller.UserID, "role": caller.Role})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	config.JWT_SECRET = "middleware-secret"
	r := authRouter()
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwt.MapClaims{"user_id": 3, "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"no user id", "Bearer " + signed(t, jwt.MapClaims{"role": "user", "exp": exp}), http.StatusUnauthorized},
		{"valid", "Bearer " + signed(t, jwt.MapClaims{"user_id": 3, "role": "user", "exp": exp}), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id": 3, "role": "user"}`, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareWithoutSecret(t *testing.T) {
	config.JWT_SECRET = ""
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer x")
	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCallerFromAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	caller := CallerFrom(c)
	assert.Zero(t, caller.UserID)
	assert.Empty(t, caller.Role)
}

func echoRouter() *gin.Engine {
	r := gin.New()
	r.POST("/echo", SanitizeAndCleanInputMiddleware("password"), func(c *gin.Context) {
		body, _ := c.GetRawData()
		c.Data(http.StatusOK, "application/json", body)
	})
	return r
}

func TestSanitizeStripsMarkup(t *testing.T) {
	body := `{"name": "<b>Ana</b>", "password": "<x>pw1</x>", "tags": ["<i>a</i>", 2], "nested": {"note": "<script>alert(1)</script>ok"}}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	w := httptest.NewRecorder()
	echoRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name": "Ana", "password": "<x>pw1</x>", "tags": ["a", 2], "nested": {"note": "ok"}}`, w.Body.String())
}

func TestSanitizeRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":`))
	w := httptest.NewRecorder()
	echoRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitizePassesEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/echo", nil)
	w := httptest.NewRecorder()
	echoRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRateLimitPerClient(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(rate.Limit(0.001), 2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2"))
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	for _, p := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["path"])
	assert.Contains(t, entries[2].ContextMap()["errors"], assert.AnError.Error())
}
