// Package wire 负责组件装配
package wire

import (
	"context"
	"strings"

	"ai-blog-writer-api/internal/application/blog"
	"ai-blog-writer-api/internal/config"
	"ai-blog-writer-api/internal/infrastructure/llm"
	"ai-blog-writer-api/internal/infrastructure/persistence/redis"
	"ai-blog-writer-api/internal/infrastructure/session"
	"ai-blog-writer-api/internal/infrastructure/trends"
	"ai-blog-writer-api/internal/interfaces/http/handler"
	"ai-blog-writer-api/internal/interfaces/http/router"
	"ai-blog-writer-api/internal/workflow/chain"
	"ai-blog-writer-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// App 装配完成的应用
type App struct {
	Router       *router.Router
	Orchestrator *blog.Orchestrator
	SessionStore session.Store
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.Router.Engine()
}

// InitializeApp 装配整个应用，返回清理函数
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Redis 仅在会话后端为 redis 或启用限流时连接
	var redisClient *redis.Client
	if strings.EqualFold(cfg.Session.Backend, "redis") || cfg.Security.RateLimit.Enabled {
		client, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			return nil, nil, err
		}
		redisClient = client
		cleanups = append(cleanups, func() {
			if err := client.Close(); err != nil {
				logger.Warn(ctx, "failed to close redis client", "error", err.Error())
			}
		})
	}

	var store session.Store
	if strings.EqualFold(cfg.Session.Backend, "redis") {
		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		memStore := session.NewMemoryStore(cfg.Session.TTL, cfg.Session.MaxSessions)
		cleanups = append(cleanups, memStore.Close)
		store = memStore
	}

	factory := llm.NewEinoFactory(cfg)
	trendClient := trends.NewClient(cfg.Trends.SerpAPI)

	orchestrator := blog.NewOrchestrator(
		store,
		trendClient,
		chain.NewSectionChain(factory),
		chain.NewOutlineChain(factory),
		chain.NewResearchChain(factory),
		chain.NewTrendAnalysisChain(factory),
		chain.NewLLMTrendsChain(factory),
	)

	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(cfg.App.Version, redisClient),
		Blog:    handler.NewBlogHandler(cfg, orchestrator),
		Session: handler.NewSessionHandler(store),
	}

	app := &App{
		Router:       router.New(cfg, handlers, redisClient),
		Orchestrator: orchestrator,
		SessionStore: store,
	}
	return app, cleanup, nil
}
