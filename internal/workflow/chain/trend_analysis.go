package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	llmctx "ai-blog-writer-api/internal/domain/service"
	wfmodel "ai-blog-writer-api/internal/workflow/model"
	"ai-blog-writer-api/internal/workflow/node"
	workflowport "ai-blog-writer-api/internal/workflow/port"
	workflowprompt "ai-blog-writer-api/internal/workflow/prompt"
)

// maxTrendsPayloadRunes 限制注入提示词的趋势数据长度，防止超大 SerpAPI 载荷撑爆上下文窗口
const maxTrendsPayloadRunes = 12000

// TrendAnalysisChain 将格式化后的趋势数据交给模型解读
type TrendAnalysisChain struct {
	factory workflowport.ChatModelFactory
}

func NewTrendAnalysisChain(factory workflowport.ChatModelFactory) *TrendAnalysisChain {
	return &TrendAnalysisChain{factory: factory}
}

func (c *TrendAnalysisChain) Invoke(ctx context.Context, in *wfmodel.TrendAnalysisInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Payload) == "" {
		return nil, fmt.Errorf("trends payload is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "trend_analysis", strings.TrimSpace(in.Options.Provider))
	// provider 为空时由工厂回落到默认提供商
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Options.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatTrendAnalysisMessages(ctx, in)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(in.Options)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

var trendAnalysisPromptRegistry = workflowprompt.NewRegistry()

func formatTrendAnalysisMessages(ctx context.Context, in *wfmodel.TrendAnalysisInput) ([]*schema.Message, error) {
	tpl, err := trendAnalysisPromptRegistry.ChatTemplate(workflowprompt.PromptTrendAnalysisV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic":          strings.TrimSpace(in.Brief.Topic),
		"trends_payload": node.TruncateByRunes(strings.TrimSpace(in.Payload), maxTrendsPayloadRunes),
	}
	return tpl.Format(ctx, vars)
}
