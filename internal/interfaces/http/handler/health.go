package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ai-blog-writer-api/internal/infrastructure/persistence/redis"
	"ai-blog-writer-api/internal/interfaces/http/dto"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version string
	redis   *redis.Client
}

// NewHealthHandler 创建健康检查处理器；redisClient 可为 nil（内存会话后端）
func NewHealthHandler(version string, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		version: version,
		redis:   redisClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Root 根端点，仅作服务标识
func (h *HealthHandler) Root(c *gin.Context) {
	dto.Success(c, gin.H{
		"service": "ai-blog-writer-api",
		"version": h.version,
	})
}

// Health 健康检查接口
func (h *HealthHandler) Health(c *gin.Context) {
	dto.Success(c, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{}
	ready := true

	// Redis 仅在配置了 redis 会话后端时存在
	if h.redis != nil {
		check := &readinessCheck{Status: "unknown"}
		checks["redis"] = check

		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		check.LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			check.Status = "error"
			check.Error = err.Error()
			ready = false
		} else {
			check.Status = "ok"
		}
	}

	status := "ready"
	httpStatus := http.StatusOK
	if !ready {
		status = "not ready"
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, readinessResponse{Status: status, Checks: checks})
}

// Live 存活检查接口
func (h *HealthHandler) Live(c *gin.Context) {
	dto.Success(c, HealthResponse{Status: "alive"})
}
