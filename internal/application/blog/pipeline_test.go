package blog

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-blog-writer-api/internal/domain/entity"
	"ai-blog-writer-api/internal/infrastructure/session"
	"ai-blog-writer-api/internal/infrastructure/trends"
	"ai-blog-writer-api/internal/workflow/chain"
	wfmodel "ai-blog-writer-api/internal/workflow/model"
)

// countingChatModel 以调用序号作为回复内容，失败注入按序号触发
type countingChatModel struct {
	calls  int
	failAt int
}

func (f *countingChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return nil, fmt.Errorf("provider quota exceeded")
	}
	return schema.AssistantMessage(fmt.Sprintf("generated text %d", f.calls), nil), nil
}

func (f *countingChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stream not supported")
}

type staticFactory struct {
	chatModel model.BaseChatModel
}

func (f *staticFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return f.chatModel, nil
}

// degradedFetcher 模拟外部趋势源不可用：始终返回仅含 query 的降级载荷
type degradedFetcher struct {
	calls int
}

func (f *degradedFetcher) Fetch(ctx context.Context, topic string) *trends.Payload {
	f.calls++
	return &trends.Payload{Query: topic}
}

func newTestOrchestrator(chatModel model.BaseChatModel, store session.Store, fetcher TrendFetcher) *Orchestrator {
	factory := &staticFactory{chatModel: chatModel}
	return NewOrchestrator(
		store,
		fetcher,
		chain.NewSectionChain(factory),
		chain.NewOutlineChain(factory),
		chain.NewResearchChain(factory),
		chain.NewTrendAnalysisChain(factory),
		chain.NewLLMTrendsChain(factory),
	)
}

func testInput(stage string) GenerateInput {
	return GenerateInput{
		Brief: entity.ContentBrief{
			Topic:     "Remote Work",
			Goal:      "inform",
			Structure: "blog",
		},
		SessionID: "sess-1",
		Stage:     stage,
		Options:   wfmodel.GenerateOptions{Provider: "gemini"},
	}
}

func TestRun_OutlineStage_FreshSession(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	outcome := orch.Run(context.Background(), testInput(StageOutline))

	require.True(t, outcome.Success)
	assert.Equal(t, ContentTypeOutline, outcome.ContentType)
	// 降级的趋势源不耗模型调用：调研一次 + 大纲一次
	assert.Equal(t, 2, chatModel.calls)

	ctx := context.Background()
	for _, field := range []string{session.FieldTrendsSummary, session.FieldResearchSummary, session.FieldOutline} {
		got, err := store.Get(ctx, "sess-1", field)
		require.NoError(t, err)
		assert.NotEmpty(t, got, field)
	}
}

func TestRun_FullDocument_ReusesCachedContext(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	// 先走大纲阶段填充会话
	outcome := orch.Run(context.Background(), testInput(StageOutline))
	require.True(t, outcome.Success)
	callsAfterOutline := chatModel.calls

	outcome = orch.Run(context.Background(), testInput(StageFullDocument))
	require.True(t, outcome.Success)
	assert.Equal(t, ContentTypeMarkdown, outcome.ContentType)

	// 上下文全部命中缓存：新增调用数恰好等于章节数
	sectionCount := len(SectionsFor("blog").Sections)
	assert.Equal(t, sectionCount, chatModel.calls-callsAfterOutline)

	// 成稿按章节顺序以空行拼接
	expected := ""
	for i := 0; i < sectionCount; i++ {
		if i > 0 {
			expected += "\n\n"
		}
		expected += fmt.Sprintf("generated text %d", callsAfterOutline+i+1)
	}
	assert.Equal(t, expected, outcome.Content)
}

func TestRun_FullDocument_SectionFailureDiscardsPartial(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	ctx := context.Background()

	// 预置上下文，使正文阶段只做章节调用
	require.NoError(t, store.Set(ctx, "sess-1", session.FieldTrendsSummary, "cached trends"))
	require.NoError(t, store.Set(ctx, "sess-1", session.FieldResearchSummary, "cached research"))
	require.NoError(t, store.Set(ctx, "sess-1", session.FieldOutline, "cached outline"))

	chatModel := &countingChatModel{failAt: 3}
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	outcome := orch.Run(ctx, testInput(StageFullDocument))

	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.ContentType)
	// 前两节已生成，但不得泄漏进结果
	assert.NotContains(t, outcome.Content, "generated text 1")
	assert.NotContains(t, outcome.Content, "generated text 2")
	assert.Contains(t, outcome.Content, "Error during blog generation")
	assert.Equal(t, 3, chatModel.calls, "generation stops at the failing section")
}

func TestRun_OutlineTwice_Idempotent(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})
	ctx := context.Background()

	first := orch.Run(ctx, testInput(StageOutline))
	require.True(t, first.Success)
	callsAfterFirst := chatModel.calls

	second := orch.Run(ctx, testInput(StageOutline))
	require.True(t, second.Success)
	// 上下文已缓存：第二次只新增一次大纲调用
	assert.Equal(t, 1, chatModel.calls-callsAfterFirst)

	got, err := store.Get(ctx, "sess-1", session.FieldOutline)
	require.NoError(t, err)
	assert.Equal(t, second.Content, got, "cached outline is overwritten by the latest run")
}

func TestRun_ClearMemoryForcesRegeneration(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})
	ctx := context.Background()

	first := orch.Run(ctx, testInput(StageOutline))
	require.True(t, first.Success)
	callsAfterFirst := chatModel.calls

	in := testInput(StageOutline)
	in.ClearMemory = true
	second := orch.Run(ctx, in)
	require.True(t, second.Success)

	// 清除会话后趋势/调研上下文全部重采
	assert.Equal(t, 2, chatModel.calls-callsAfterFirst)
}

func TestRun_EmptyProviderUsesFactoryDefault(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	in := testInput(StageOutline)
	in.Options = wfmodel.GenerateOptions{}

	outcome := orch.Run(context.Background(), in)
	require.True(t, outcome.Success, outcome.Content)
	assert.Equal(t, ContentTypeOutline, outcome.ContentType)
	// provider 留空时由工厂按默认配置解析，不在链路里拒绝
	assert.Equal(t, 2, chatModel.calls)
}

func TestRun_TrendAndResearchStage(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	outcome := orch.Run(context.Background(), testInput(StageTrendAndResearch))

	require.True(t, outcome.Success)
	assert.Equal(t, ContentTypeTrendAnalysis, outcome.ContentType)
	assert.Contains(t, outcome.Content, "## Trend Insights")
	assert.Contains(t, outcome.Content, "## Background Research")
	assert.Contains(t, outcome.Content, trendsUnavailableNote)
}

func TestRun_LLMTrendSource(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	fetcher := &degradedFetcher{}
	orch := newTestOrchestrator(chatModel, store, fetcher)

	in := testInput(StageOutline)
	in.TrendSource = TrendSourceLLM

	outcome := orch.Run(context.Background(), in)
	require.True(t, outcome.Success)
	// 纯 LLM 趋势估计 + 调研 + 大纲
	assert.Equal(t, 3, chatModel.calls)
	assert.Equal(t, 0, fetcher.calls, "external trend source is not touched")
}

func TestRun_InvalidBriefFailsFast(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	fetcher := &degradedFetcher{}
	orch := newTestOrchestrator(chatModel, store, fetcher)

	in := testInput(StageOutline)
	in.Brief.Topic = ""

	outcome := orch.Run(context.Background(), in)
	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.ContentType)
	assert.Equal(t, 0, chatModel.calls, "no external call before brief validation")
	assert.Equal(t, 0, fetcher.calls)
}

func TestRun_UnknownStage(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	outcome := orch.Run(context.Background(), testInput("publish"))
	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.ContentType)
	assert.Equal(t, 0, chatModel.calls)
}

func TestRun_MissingSessionID(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	in := testInput(StageOutline)
	in.SessionID = ""

	outcome := orch.Run(context.Background(), in)
	assert.False(t, outcome.Success)
	assert.Equal(t, 0, chatModel.calls)
}

func TestRun_LegacyStepAliases(t *testing.T) {
	chatModel := &countingChatModel{}
	store := session.NewMemoryStore(0, 0)
	defer store.Close()
	orch := newTestOrchestrator(chatModel, store, &degradedFetcher{})

	outcome := orch.Run(context.Background(), testInput("blog_outline"))
	require.True(t, outcome.Success)
	assert.Equal(t, ContentTypeOutline, outcome.ContentType)

	outcome = orch.Run(context.Background(), testInput("generate_blog"))
	require.True(t, outcome.Success)
	assert.Equal(t, ContentTypeMarkdown, outcome.ContentType)
}
