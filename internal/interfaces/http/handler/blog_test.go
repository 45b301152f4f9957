package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-blog-writer-api/internal/application/blog"
	"ai-blog-writer-api/internal/config"
	"ai-blog-writer-api/internal/infrastructure/session"
	"ai-blog-writer-api/internal/infrastructure/trends"
	"ai-blog-writer-api/internal/interfaces/http/dto"
	"ai-blog-writer-api/internal/workflow/chain"
)

type stubChatModel struct{}

func (stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage("stub reply", nil), nil
}

func (stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stream not supported")
}

type stubFactory struct{}

func (stubFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return stubChatModel{}, nil
}

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, topic string) *trends.Payload {
	return &trends.Payload{Query: topic}
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "gemini",
			Providers: map[string]config.ProviderConfig{
				"gemini": {Model: "gemini-2.0-flash"},
			},
		},
	}
}

func newTestHandler(t *testing.T) (*BlogHandler, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(0, 0)
	t.Cleanup(store.Close)

	factory := stubFactory{}
	orch := blog.NewOrchestrator(
		store,
		stubFetcher{},
		chain.NewSectionChain(factory),
		chain.NewOutlineChain(factory),
		chain.NewResearchChain(factory),
		chain.NewTrendAnalysisChain(factory),
		chain.NewLLMTrendsChain(factory),
	)
	return NewBlogHandler(testConfig(), orch), store
}

func performGenerate(t *testing.T, h *BlogHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/v1/blog/generate", h.Generate)

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/blog/generate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBlogGenerate_OutlineStep(t *testing.T) {
	h, store := newTestHandler(t)

	w := performGenerate(t, h, dto.BlogGenerateRequest{
		Blog:      dto.BlogBrief{Topic: "Remote Work", Goal: "inform"},
		SessionID: "sess-http",
		Step:      "outline",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.BlogGenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "outline", resp.Type)
	assert.Equal(t, "stub reply", resp.Content)
	assert.Empty(t, resp.Message)

	outline, err := store.Get(context.Background(), "sess-http", session.FieldOutline)
	require.NoError(t, err)
	assert.Equal(t, "stub reply", outline)
}

func TestBlogGenerate_MissingTopicRejected(t *testing.T) {
	h, _ := newTestHandler(t)

	w := performGenerate(t, h, map[string]any{
		"blog":       map[string]any{"goal": "inform"},
		"session_id": "sess-http",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlogGenerate_UnknownProviderRejected(t *testing.T) {
	h, _ := newTestHandler(t)

	w := performGenerate(t, h, dto.BlogGenerateRequest{
		Blog:      dto.BlogBrief{Topic: "Remote Work", Goal: "inform"},
		SessionID: "sess-http",
		Provider:  "bedrock",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 错误详情附带可用提供商列表
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, []string{"gemini"}, resp.Error.Suggestions)
}

func TestBlogGenerate_UnknownStepReturnsFailedOutcome(t *testing.T) {
	h, _ := newTestHandler(t)

	w := performGenerate(t, h, dto.BlogGenerateRequest{
		Blog:      dto.BlogBrief{Topic: "Remote Work", Goal: "inform"},
		SessionID: "sess-http",
		Step:      "publish",
	})

	// 流水线内部错误收敛为 200 + success=false
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.BlogGenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Type)
	assert.NotEmpty(t, resp.Message)
}

func TestSessionClear(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	t.Cleanup(store.Close)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "sess-1", session.FieldOutline, "cached"))

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.DELETE("/v1/sessions/:id", NewSessionHandler(store).Clear)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/sess-1", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	got, err := store.Get(ctx, "sess-1", session.FieldOutline)
	require.NoError(t, err)
	assert.Empty(t, got)
}
