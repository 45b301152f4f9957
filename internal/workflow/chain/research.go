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

// ResearchChain 围绕写作目标产出背景调研摘要
type ResearchChain struct {
	factory workflowport.ChatModelFactory
}

func NewResearchChain(factory workflowport.ChatModelFactory) *ResearchChain {
	return &ResearchChain{factory: factory}
}

func (c *ResearchChain) Invoke(ctx context.Context, in *wfmodel.ResearchGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Brief.Goal) == "" {
		return nil, fmt.Errorf("goal is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "research_generate", strings.TrimSpace(in.Options.Provider))
	// provider 为空时由工厂回落到默认提供商
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Options.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatResearchMessages(ctx, in)
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

var researchPromptRegistry = workflowprompt.NewRegistry()

func formatResearchMessages(ctx context.Context, in *wfmodel.ResearchGenerateInput) ([]*schema.Message, error) {
	tpl, err := researchPromptRegistry.ChatTemplate(workflowprompt.PromptResearchV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic": strings.TrimSpace(in.Brief.Topic),
		"goal":  strings.TrimSpace(in.Brief.Goal),
	}
	return tpl.Format(ctx, vars)
}
