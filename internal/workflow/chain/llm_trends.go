package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	llmctx "ai-blog-writer-api/internal/domain/service"
	wfmodel "ai-blog-writer-api/internal/workflow/model"
	workflowport "ai-blog-writer-api/internal/workflow/port"
	workflowprompt "ai-blog-writer-api/internal/workflow/prompt"
)

// LLMTrendsChain 在没有外部趋势数据时，由模型给出定性趋势概览
type LLMTrendsChain struct {
	factory workflowport.ChatModelFactory
}

func NewLLMTrendsChain(factory workflowport.ChatModelFactory) *LLMTrendsChain {
	return &LLMTrendsChain{factory: factory}
}

func (c *LLMTrendsChain) Invoke(ctx context.Context, in *wfmodel.LLMTrendsInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Brief.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "llm_trends", strings.TrimSpace(in.Options.Provider))
	// provider 为空时由工厂回落到默认提供商
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Options.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatLLMTrendsMessages(ctx, in)
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

var llmTrendsPromptRegistry = workflowprompt.NewRegistry()

func formatLLMTrendsMessages(ctx context.Context, in *wfmodel.LLMTrendsInput) ([]*schema.Message, error) {
	tpl, err := llmTrendsPromptRegistry.ChatTemplate(workflowprompt.PromptLLMTrendsV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic": strings.TrimSpace(in.Brief.Topic),
	}
	return tpl.Format(ctx, vars)
}
