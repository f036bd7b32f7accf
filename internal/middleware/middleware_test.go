package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popupcity/portal_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupJWTRouter(t *testing.T, limit int) (*gin.Engine, *utils.JWTManager) {
	t.Helper()
	manager := utils.NewJWTManager("test-secret", time.Hour)
	rl := NewInvalidAuthRateLimiter(limit, time.Minute)
	t.Cleanup(rl.Stop)

	r := gin.New()
	r.Use(NewJWTMiddleware(manager, rl).Handle())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"citizen_id": CitizenID(c), "email": c.GetString(EmailKey)})
	})
	return r, manager
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTMiddleware_Valid(t *testing.T) {
	r, manager := setupJWTRouter(t, 5)
	token, err := manager.GenerateJWT(7, "alice@example.com")
	require.NoError(t, err)

	w := get(r, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"citizen_id":7,"email":"alice@example.com"}`, w.Body.String())
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	r, _ := setupJWTRouter(t, 10)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.Claims{
		CitizenID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing", "", "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", "UNAUTHORIZED"},
		{"garbage", "Bearer abc.def.ghi", "INVALID_TOKEN"},
		{"expired", "Bearer " + expired, "TOKEN_EXPIRED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTMiddleware_RateLimitsFailures(t *testing.T) {
	r, _ := setupJWTRouter(t, 2)

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer x").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer x").Code)
	w := get(r, "Bearer x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(t, w))
}

func TestInvalidAuthRateLimiter_PerIP(t *testing.T) {
	rl := NewInvalidAuthRateLimiter(1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"portal.example.org", "localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		method string
		origin string
		want   string
		status int
	}{
		{"allowed", http.MethodGet, "https://portal.example.org", "https://portal.example.org", http.StatusOK},
		{"default port stripped", http.MethodGet, "https://portal.example.org:443", "https://portal.example.org:443", http.StatusOK},
		{"dev origin", http.MethodGet, "http://localhost:3000/", "http://localhost:3000", http.StatusOK},
		{"foreign origin", http.MethodGet, "https://evil.example.com", "", http.StatusOK},
		{"preflight", http.MethodOptions, "https://portal.example.org", "https://portal.example.org", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestLoggingMiddleware_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, w.Body.String(), 8)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-Id"))
}
