package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestContext(), Recovery(), RateLimit(rl))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ctxKeyClientIP)) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:5000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestContext(t *testing.T) {
	r := newRouter(nil)

	t.Run("generates request id", func(t *testing.T) {
		w := get(r, "/ok", nil)
		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
		assert.Equal(t, "10.0.0.1", w.Body.String())
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		id := uuid.New().String()
		w := get(r, "/ok", map[string]string{RequestIDHeader: id, "X-Forwarded-For": "203.0.113.7, 10.0.0.2"})
		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
		assert.Equal(t, "203.0.113.7", w.Body.String())
	})
}

func TestRecovery(t *testing.T) {
	w := get(newRouter(nil), "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_INTERNAL_ERROR")
}

func TestRateLimit(t *testing.T) {
	r := newRouter(NewRateLimiter(0.001, 2))

	assert.Equal(t, http.StatusOK, get(r, "/ok", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "/ok", nil).Code)

	w := get(r, "/ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// IP khác có bucket riêng
	assert.Equal(t, http.StatusOK, get(r, "/ok", map[string]string{"X-Real-IP": "198.51.100.4"}).Code)
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	r := newRouter(NewRateLimiter(0, 1))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ok", nil).Code)
	}
}
