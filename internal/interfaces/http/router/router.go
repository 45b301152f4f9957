// Package router 提供 HTTP 路由配置
package router

import (
	"ai-blog-writer-api/internal/config"
	"ai-blog-writer-api/internal/infrastructure/persistence/redis"
	"ai-blog-writer-api/internal/interfaces/http/dto"
	"ai-blog-writer-api/internal/interfaces/http/handler"
	"ai-blog-writer-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由所需的全部处理器
type Handlers struct {
	Health  *handler.HealthHandler
	Blog    *handler.BlogHandler
	Session *handler.SessionHandler
}

// Router HTTP 路由器
type Router struct {
	engine      *gin.Engine
	cfg         *config.Config
	handlers    Handlers
	rateLimiter middleware.RateLimiter
}

// New 创建新的路由器；rateLimiter 可为 nil（限流未启用或无 Redis）
func New(cfg *config.Config, handlers Handlers, redisClient *redis.Client) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
	}
	if redisClient != nil {
		r.rateLimiter = redis.NewRateLimiter(redisClient)
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
		Burst:             r.cfg.Security.RateLimit.Burst,
	}, r.rateLimiter))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.NoRoute(func(c *gin.Context) {
		dto.NotFound(c, "route not found")
	})

	// 系统端点
	r.engine.GET("/", r.handlers.Health.Root)
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// API v1 路由组
	v1 := r.engine.Group("/v1")
	{
		blogGroup := v1.Group("/blog")
		{
			blogGroup.POST("/generate", r.handlers.Blog.Generate)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.DELETE("/:id", r.handlers.Session.Clear)
		}
	}
}
