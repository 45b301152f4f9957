package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/singleflight"

	"ai-blog-writer-api/internal/domain/entity"
	"ai-blog-writer-api/internal/infrastructure/session"
	"ai-blog-writer-api/internal/infrastructure/trends"
	wfmodel "ai-blog-writer-api/internal/workflow/model"
	"ai-blog-writer-api/internal/workflow/node"
	"ai-blog-writer-api/pkg/errors"
	"ai-blog-writer-api/pkg/logger"
	"ai-blog-writer-api/pkg/metrics"
)

// 流水线阶段；blog_outline 与 generate_blog 为旧接口保留的别名
const (
	StageTrendAndResearch = "trend_and_research"
	StageOutline          = "outline"
	StageFullDocument     = "full_document"
)

// 趋势数据来源
const (
	TrendSourceGoogleTrends = "google_trends"
	TrendSourceLLM          = "llm"
)

// 产物类型
const (
	ContentTypeTrendAnalysis = "trend_analysis"
	ContentTypeOutline       = "outline"
	ContentTypeMarkdown      = "markdown"
)

// 外部趋势不可用时写入会话的兜底摘要
const trendsUnavailableNote = "No trends data available for the given topic."

// PipelineOutcome 每个编排入口的统一返回；失败时 Content 为诊断文本，ContentType 为空
type PipelineOutcome struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Success     bool   `json:"success"`
}

// GenerateInput 一次流水线调用的全部输入
type GenerateInput struct {
	Brief       entity.ContentBrief
	SessionID   string
	ClearMemory bool
	UserInput   string
	Stage       string
	TrendSource string

	Options wfmodel.GenerateOptions
}

// TrendFetcher 外部搜索趋势数据源；查询失败时降级为仅含 query 的载荷
type TrendFetcher interface {
	Fetch(ctx context.Context, topic string) *trends.Payload
}

type sectionInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.SectionGenerateInput) (*schema.Message, error)
}

type outlineInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.OutlineGenerateInput) (*schema.Message, error)
}

type researchInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.ResearchGenerateInput) (*schema.Message, error)
}

type trendAnalysisInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.TrendAnalysisInput) (*schema.Message, error)
}

type llmTrendsInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.LLMTrendsInput) (*schema.Message, error)
}

// Orchestrator 博客生成流水线编排器：按阶段决定所需产物，
// 优先读会话缓存，缺失时再生成并立即回写
type Orchestrator struct {
	store         session.Store
	trendFetcher  TrendFetcher
	sectionChain  sectionInvoker
	outlineChain  outlineInvoker
	researchChain researchInvoker
	trendAnalysis trendAnalysisInvoker
	llmTrends     llmTrendsInvoker

	// 同一会话的并发上下文采集合并为一次
	acquireGroup singleflight.Group
}

// NewOrchestrator 创建流水线编排器
func NewOrchestrator(
	store session.Store,
	trendFetcher TrendFetcher,
	sectionChain sectionInvoker,
	outlineChain outlineInvoker,
	researchChain researchInvoker,
	trendAnalysis trendAnalysisInvoker,
	llmTrends llmTrendsInvoker,
) *Orchestrator {
	return &Orchestrator{
		store:         store,
		trendFetcher:  trendFetcher,
		sectionChain:  sectionChain,
		outlineChain:  outlineChain,
		researchChain: researchChain,
		trendAnalysis: trendAnalysis,
		llmTrends:     llmTrends,
	}
}

// Run 执行一个流水线阶段。所有内部错误在此边界收敛为失败的
// PipelineOutcome，不向 HTTP/CLI 层抛出
func (o *Orchestrator) Run(ctx context.Context, in GenerateInput) PipelineOutcome {
	stage := normalizeStage(in.Stage)
	start := time.Now()

	outcome, err := o.run(ctx, stage, in)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PipelineRunsTotal.WithLabelValues(stage, status).Inc()
	metrics.PipelineRunDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Error(ctx, "pipeline stage failed", err,
			"stage", stage, "session_id", in.SessionID)
		return PipelineOutcome{
			Content:     fmt.Sprintf("Error during blog generation: %s", errors.AsAppError(err).Message),
			ContentType: "",
			Success:     false,
		}
	}
	return outcome
}

func (o *Orchestrator) run(ctx context.Context, stage string, in GenerateInput) (PipelineOutcome, error) {
	brief := in.Brief.Normalized()
	if err := brief.Validate(); err != nil {
		return PipelineOutcome{}, err
	}

	if strings.TrimSpace(in.SessionID) == "" {
		return PipelineOutcome{}, errors.New(errors.CodeSessionState, "session id is required")
	}

	def := SectionsFor(brief.Structure)
	brief.MinWords = def.MinWords
	brief.MaxWords = def.MaxWords

	switch stage {
	case StageTrendAndResearch, StageOutline, StageFullDocument:
	default:
		return PipelineOutcome{}, errors.New(errors.CodeUnknownStage,
			fmt.Sprintf("unknown pipeline stage %q", in.Stage))
	}

	if in.ClearMemory {
		if err := o.store.Clear(ctx, in.SessionID); err != nil {
			// 会话状态问题按宽松策略处理：当作空会话继续
			logger.Warn(ctx, "session clear failed, continuing with empty context",
				"session_id", in.SessionID, "error", err.Error())
		}
	}

	trendsSummary, researchSummary, err := o.ensureContext(ctx, brief, in)
	if err != nil {
		return PipelineOutcome{}, err
	}

	fields := briefFields(brief)

	switch stage {
	case StageTrendAndResearch:
		content := fmt.Sprintf("## Trend Insights\n\n%s\n\n## Background Research\n\n%s",
			trendsSummary, researchSummary)
		return PipelineOutcome{Content: content, ContentType: ContentTypeTrendAnalysis, Success: true}, nil

	case StageOutline:
		outMsg, err := o.outlineChain.Invoke(ctx, &wfmodel.OutlineGenerateInput{
			Brief:          fields,
			Sections:       def.Sections,
			TrendsBlock:    node.BuildTrendsBlock(trendsSummary),
			ResearchBlock:  node.BuildResearchBlock(researchSummary),
			UserInputBlock: node.BuildUserInputBlock(in.UserInput),
			Options:        in.Options,
		})
		if err != nil {
			return PipelineOutcome{}, errors.Wrap(err, errors.CodeGenerationFailed, "outline generation failed")
		}
		outline := strings.TrimSpace(outMsg.Content)
		o.persist(ctx, in.SessionID, session.FieldOutline, outline)
		return PipelineOutcome{Content: outline, ContentType: ContentTypeOutline, Success: true}, nil

	case StageFullDocument:
		doc, err := o.generateDocument(ctx, fields, def, trendsSummary, researchSummary, in)
		if err != nil {
			return PipelineOutcome{}, err
		}
		return PipelineOutcome{Content: doc, ContentType: ContentTypeMarkdown, Success: true}, nil
	}

	return PipelineOutcome{}, errors.ErrUnknownStage
}

// ensureContext 读取会话中的趋势与调研摘要；任一缺失则同步采集两者并立即回写。
// 同一会话的并发采集通过 singleflight 合并
func (o *Orchestrator) ensureContext(ctx context.Context, brief entity.ContentBrief, in GenerateInput) (string, string, error) {
	trendsSummary := o.read(ctx, in.SessionID, session.FieldTrendsSummary)
	researchSummary := o.read(ctx, in.SessionID, session.FieldResearchSummary)
	if trendsSummary != "" && researchSummary != "" {
		return trendsSummary, researchSummary, nil
	}

	type contextPair struct {
		trends   string
		research string
	}

	v, err, _ := o.acquireGroup.Do("context:"+in.SessionID, func() (any, error) {
		acquiredTrends, err := o.acquireTrends(ctx, brief, in)
		if err != nil {
			return nil, err
		}
		acquiredResearch, err := o.acquireResearch(ctx, brief, in)
		if err != nil {
			return nil, err
		}

		o.persist(ctx, in.SessionID, session.FieldTrendsSummary, acquiredTrends)
		o.persist(ctx, in.SessionID, session.FieldResearchSummary, acquiredResearch)
		return contextPair{trends: acquiredTrends, research: acquiredResearch}, nil
	})
	if err != nil {
		return "", "", err
	}

	pair := v.(contextPair)
	return pair.trends, pair.research, nil
}

// acquireTrends 按来源采集趋势摘要。外部来源拿到有效数据时追加一次模型分析；
// 降级载荷直接落兜底文案，不再消耗模型调用
func (o *Orchestrator) acquireTrends(ctx context.Context, brief entity.ContentBrief, in GenerateInput) (string, error) {
	source := strings.ToLower(strings.TrimSpace(in.TrendSource))
	if source == "" {
		source = TrendSourceGoogleTrends
	}

	switch source {
	case TrendSourceLLM:
		outMsg, err := o.llmTrends.Invoke(ctx, &wfmodel.LLMTrendsInput{
			Brief:   briefFields(brief),
			Options: in.Options,
		})
		if err != nil {
			return "", errors.Wrap(err, errors.CodeGenerationFailed, "llm trend estimate failed")
		}
		return strings.TrimSpace(outMsg.Content), nil

	case TrendSourceGoogleTrends:
		payload := o.trendFetcher.Fetch(ctx, brief.Topic)
		if !payload.HasData() {
			return trendsUnavailableNote, nil
		}

		rendered, err := trends.FormatForLLM(payload).Render()
		if err != nil {
			return "", errors.Wrap(err, errors.CodeTrendSourceError, "trend payload formatting failed")
		}
		outMsg, err := o.trendAnalysis.Invoke(ctx, &wfmodel.TrendAnalysisInput{
			Brief:   briefFields(brief),
			Payload: rendered,
			Options: in.Options,
		})
		if err != nil {
			return "", errors.Wrap(err, errors.CodeGenerationFailed, "trend analysis failed")
		}
		return strings.TrimSpace(outMsg.Content), nil

	default:
		return "", errors.New(errors.CodeTrendSourceError,
			fmt.Sprintf("unknown trend source %q", in.TrendSource))
	}
}

func (o *Orchestrator) acquireResearch(ctx context.Context, brief entity.ContentBrief, in GenerateInput) (string, error) {
	outMsg, err := o.researchChain.Invoke(ctx, &wfmodel.ResearchGenerateInput{
		Brief:   briefFields(brief),
		Options: in.Options,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeGenerationFailed, "research generation failed")
	}
	return strings.TrimSpace(outMsg.Content), nil
}

// generateDocument 逐节顺序生成正文。任一章节失败即整体失败，
// 已生成的章节全部丢弃，不返回半成品
func (o *Orchestrator) generateDocument(
	ctx context.Context,
	fields wfmodel.BriefFields,
	def StructureDefinition,
	trendsSummary, researchSummary string,
	in GenerateInput,
) (string, error) {
	// 大纲缺失按空上下文处理，不视为失败
	outline := o.read(ctx, in.SessionID, session.FieldOutline)

	plans := node.BuildSectionPlans(def.Sections)
	sections := make([]string, 0, len(plans))

	for _, plan := range plans {
		sectionIn := &wfmodel.SectionGenerateInput{
			Brief:       fields,
			SectionName: plan.Name,
			Guidelines:  plan.Guidelines,
			Options:     in.Options,
		}
		if plan.UsesContext {
			sectionIn.OutlineBlock = node.BuildOutlineBlock(outline)
			sectionIn.TrendsBlock = node.BuildTrendsBlock(trendsSummary)
			sectionIn.ResearchBlock = node.BuildResearchBlock(researchSummary)
		}

		outMsg, err := o.sectionChain.Invoke(ctx, sectionIn)
		if err != nil {
			metrics.SectionGenerationsTotal.WithLabelValues(fields.Structure, "error").Inc()
			return "", errors.Wrap(err, errors.CodeGenerationFailed,
				fmt.Sprintf("section %q generation failed", plan.Name))
		}
		metrics.SectionGenerationsTotal.WithLabelValues(fields.Structure, "success").Inc()
		sections = append(sections, strings.TrimSpace(outMsg.Content))
	}

	doc := strings.Join(sections, "\n\n")
	metrics.DocumentWordCount.Observe(float64(node.CountWords(doc)))
	return doc, nil
}

// read 读取会话字段；会话状态错误按宽松策略降级为空值
func (o *Orchestrator) read(ctx context.Context, sessionID, field string) string {
	value, err := o.store.Get(ctx, sessionID, field)
	if err != nil {
		logger.Warn(ctx, "session read degraded to empty value",
			"session_id", sessionID, "field", field, "error", err.Error())
		return ""
	}
	return value
}

func (o *Orchestrator) persist(ctx context.Context, sessionID, field, value string) {
	if err := o.store.Set(ctx, sessionID, field, value); err != nil {
		logger.Warn(ctx, "session write failed, artifact not cached",
			"session_id", sessionID, "field", field, "error", err.Error())
	}
}

func briefFields(brief entity.ContentBrief) wfmodel.BriefFields {
	return wfmodel.BriefFields{
		Topic:     brief.Topic,
		Goal:      brief.Goal,
		Structure: brief.Structure,
		Persona:   brief.Persona,
		Tone:      brief.Tone,
		Keyword:   brief.Keyword,
		MinWords:  brief.MinWords,
		MaxWords:  brief.MaxWords,
	}
}

// normalizeStage 归一阶段名；空值默认生成大纲，旧接口的步骤名映射到新阶段
func normalizeStage(stage string) string {
	switch strings.ToLower(strings.TrimSpace(stage)) {
	case "", "blog_outline":
		return StageOutline
	case "generate_blog":
		return StageFullDocument
	case StageTrendAndResearch:
		return StageTrendAndResearch
	case StageOutline:
		return StageOutline
	case StageFullDocument:
		return StageFullDocument
	default:
		return strings.ToLower(strings.TrimSpace(stage))
	}
}
