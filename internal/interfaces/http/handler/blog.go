package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-blog-writer-api/internal/application/blog"
	"ai-blog-writer-api/internal/config"
	"ai-blog-writer-api/internal/domain/entity"
	"ai-blog-writer-api/internal/interfaces/http/dto"
	wfmodel "ai-blog-writer-api/internal/workflow/model"
	apperrors "ai-blog-writer-api/pkg/errors"
	"ai-blog-writer-api/pkg/logger"
)

// BlogHandler 博客生成处理器
type BlogHandler struct {
	cfg          *config.Config
	orchestrator *blog.Orchestrator
}

// NewBlogHandler 创建博客生成处理器
func NewBlogHandler(cfg *config.Config, orchestrator *blog.Orchestrator) *BlogHandler {
	return &BlogHandler{cfg: cfg, orchestrator: orchestrator}
}

// Generate 执行一个流水线阶段并返回产物
// POST /v1/blog/generate
func (h *BlogHandler) Generate(c *gin.Context) {
	var req dto.BlogGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Provider, req.Model)
	if err != nil {
		dto.ErrorWithDetail(c, http.StatusBadRequest, err.Error(), &dto.ErrorDetail{
			ErrorCode:   string(apperrors.CodeInvalidParam),
			Suggestions: configuredProviders(h.cfg),
		})
		return
	}

	ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, req.SessionID)
	ctx = logger.WithContext(ctx, logger.StageKey, req.Step)

	outcome := h.orchestrator.Run(ctx, blog.GenerateInput{
		Brief: entity.ContentBrief{
			Topic:     req.Blog.Topic,
			Goal:      req.Blog.Goal,
			Structure: req.Blog.Structure,
			Persona:   req.Blog.Persona,
			Tone:      req.Blog.Tone,
			Keyword:   req.Blog.Keyword,
		},
		SessionID:   req.SessionID,
		ClearMemory: req.ClearMemory,
		UserInput:   req.UserInput,
		Stage:       req.Step,
		TrendSource: req.FindTrendsType,
		Options: wfmodel.GenerateOptions{
			Provider:    provider,
			Model:       model,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		},
	})

	resp := dto.BlogGenerateResponse{
		Content: outcome.Content,
		Type:    outcome.ContentType,
		Success: outcome.Success,
	}
	if !outcome.Success {
		resp.Message = outcome.Content
	}
	c.JSON(http.StatusOK, resp)
}
