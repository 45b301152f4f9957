package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-blog-writer-api/internal/interfaces/http/dto"
)

func performHealthRequest(t *testing.T, register func(*gin.Engine), path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	register(engine)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealth_ResponseEnvelope(t *testing.T) {
	h := NewHealthHandler("v1.2.3", nil)
	w := performHealthRequest(t, func(e *gin.Engine) { e.GET("/health", h.Health) }, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response[HealthResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, "ok", resp.Data.Status)
	assert.Equal(t, "v1.2.3", resp.Data.Version)
}

func TestLive_ResponseEnvelope(t *testing.T) {
	h := NewHealthHandler("v1.2.3", nil)
	w := performHealthRequest(t, func(e *gin.Engine) { e.GET("/live", h.Live) }, "/live")

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response[HealthResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Data.Status)
}

func TestReady_NoRedisBackend(t *testing.T) {
	h := NewHealthHandler("v1.2.3", nil)
	w := performHealthRequest(t, func(e *gin.Engine) { e.GET("/ready", h.Ready) }, "/ready")

	// 内存会话后端没有外部依赖，直接就绪
	require.Equal(t, http.StatusOK, w.Code)
	var resp readinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Empty(t, resp.Checks)
}
