package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "ai-blog-writer-api/internal/domain/service"
	wfmodel "ai-blog-writer-api/internal/workflow/model"
	workflowport "ai-blog-writer-api/internal/workflow/port"
	workflowprompt "ai-blog-writer-api/internal/workflow/prompt"
)

// SectionChain 按大纲逐节生成正文，一次调用产出一个章节
type SectionChain struct {
	factory workflowport.ChatModelFactory
}

func NewSectionChain(factory workflowport.ChatModelFactory) *SectionChain {
	return &SectionChain{factory: factory}
}

func (c *SectionChain) Invoke(ctx context.Context, in *wfmodel.SectionGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.SectionName) == "" {
		return nil, fmt.Errorf("section name is required")
	}
	if strings.TrimSpace(in.Brief.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "section_generate", strings.TrimSpace(in.Options.Provider))
	// provider 为空时由工厂回落到默认提供商
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Options.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatSectionMessages(ctx, in)
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

var sectionPromptRegistry = workflowprompt.NewRegistry()

func formatSectionMessages(ctx context.Context, in *wfmodel.SectionGenerateInput) ([]*schema.Message, error) {
	tpl, err := sectionPromptRegistry.ChatTemplate(workflowprompt.PromptSectionV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic":          strings.TrimSpace(in.Brief.Topic),
		"goal":           strings.TrimSpace(in.Brief.Goal),
		"structure":      strings.TrimSpace(in.Brief.Structure),
		"persona":        strings.TrimSpace(in.Brief.Persona),
		"tone":           strings.TrimSpace(in.Brief.Tone),
		"keyword":        strings.TrimSpace(in.Brief.Keyword),
		"section":        strings.TrimSpace(in.SectionName),
		"guidelines":     strings.TrimSpace(in.Guidelines),
		"outline_block":  in.OutlineBlock,
		"trends_block":   in.TrendsBlock,
		"research_block": in.ResearchBlock,
	}
	return tpl.Format(ctx, vars)
}

func buildModelOptions(opts wfmodel.GenerateOptions) []model.Option {
	out := make([]model.Option, 0, 3)
	if opts.Temperature != nil {
		out = append(out, model.WithTemperature(*opts.Temperature))
	}
	if opts.MaxTokens != nil {
		out = append(out, model.WithMaxTokens(*opts.MaxTokens))
	}
	if strings.TrimSpace(opts.Model) != "" {
		out = append(out, model.WithModel(strings.TrimSpace(opts.Model)))
	}
	return out
}
