package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLimiter struct {
	lastLimit int
	allow     bool
	err       error
}

func (l *recordingLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.lastLimit = limit
	return l.allow, l.err
}

func performRateLimited(t *testing.T, cfg RateLimitConfig, limiter RateLimiter) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimit(cfg, limiter))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BurstRaisesWindowLimit(t *testing.T) {
	limiter := &recordingLimiter{allow: true}
	w := performRateLimited(t, RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 10,
		Burst:             25,
	}, limiter)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 25, limiter.lastLimit)
}

func TestRateLimit_BurstBelowRateIgnored(t *testing.T) {
	limiter := &recordingLimiter{allow: true}
	w := performRateLimited(t, RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 10,
		Burst:             5,
	}, limiter)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, limiter.lastLimit)
}

func TestRateLimit_RejectedRequest(t *testing.T) {
	limiter := &recordingLimiter{allow: false}
	w := performRateLimited(t, RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
	}, limiter)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	limiter := &recordingLimiter{}
	w := performRateLimited(t, RateLimitConfig{Enabled: false}, limiter)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, limiter.lastLimit, "limiter is never consulted when disabled")
}
