package model

import "time"

// BriefFields 画像在工作流层的扁平表示，模板插值直接使用
type BriefFields struct {
	Topic     string
	Goal      string
	Structure string
	Persona   string
	Tone      string
	Keyword   string
	MinWords  int
	MaxWords  int
}

// GenerateOptions 单次生成调用的采样参数
type GenerateOptions struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// SectionGenerateInput 单个章节生成输入
type SectionGenerateInput struct {
	Brief       BriefFields
	SectionName string
	Guidelines  string

	// 上下文块：为空时整块省略，不渲染空头
	OutlineBlock  string
	TrendsBlock   string
	ResearchBlock string

	Options GenerateOptions
}

// OutlineGenerateInput 大纲生成输入
type OutlineGenerateInput struct {
	Brief    BriefFields
	Sections []string

	TrendsBlock    string
	ResearchBlock  string
	UserInputBlock string

	Options GenerateOptions
}

// ResearchGenerateInput 背景调研生成输入
type ResearchGenerateInput struct {
	Brief   BriefFields
	Options GenerateOptions
}

// TrendAnalysisInput 趋势数据分析输入；Payload 为原样嵌入的趋势数据
type TrendAnalysisInput struct {
	Brief   BriefFields
	Payload string
	Options GenerateOptions
}

// LLMTrendsInput 纯 LLM 趋势估计输入（无外部趋势数据时的替代路径）
type LLMTrendsInput struct {
	Brief   BriefFields
	Options GenerateOptions
}

// LLMUsageMeta 一次生成调用的用量元数据
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Temperature      float64
	GeneratedAt      time.Time
}
