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

// OutlineChain 依据结构目录生成全文大纲
type OutlineChain struct {
	factory workflowport.ChatModelFactory
}

func NewOutlineChain(factory workflowport.ChatModelFactory) *OutlineChain {
	return &OutlineChain{factory: factory}
}

func (c *OutlineChain) Invoke(ctx context.Context, in *wfmodel.OutlineGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Brief.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if len(in.Sections) == 0 {
		return nil, fmt.Errorf("sections are required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "outline_generate", strings.TrimSpace(in.Options.Provider))
	// provider 为空时由工厂回落到默认提供商
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Options.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatOutlineMessages(ctx, in)
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

var outlinePromptRegistry = workflowprompt.NewRegistry()

func formatOutlineMessages(ctx context.Context, in *wfmodel.OutlineGenerateInput) ([]*schema.Message, error) {
	tpl, err := outlinePromptRegistry.ChatTemplate(workflowprompt.PromptOutlineV1)
	if err != nil {
		return nil, err
	}
	// 章节列表先在 Go 侧拼成编号串，模板只做占位插值
	numbered := make([]string, 0, len(in.Sections))
	for i, name := range in.Sections {
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(name)))
	}
	vars := map[string]any{
		"topic":            strings.TrimSpace(in.Brief.Topic),
		"goal":             strings.TrimSpace(in.Brief.Goal),
		"structure":        strings.TrimSpace(in.Brief.Structure),
		"persona":          strings.TrimSpace(in.Brief.Persona),
		"tone":             strings.TrimSpace(in.Brief.Tone),
		"keyword":          strings.TrimSpace(in.Brief.Keyword),
		"min_words":        in.Brief.MinWords,
		"max_words":        in.Brief.MaxWords,
		"sections":         strings.Join(numbered, "\n"),
		"trends_block":     in.TrendsBlock,
		"research_block":   in.ResearchBlock,
		"user_input_block": in.UserInputBlock,
	}
	return tpl.Format(ctx, vars)
}
