// Package entity 定义领域实体
package entity

import (
	"strings"

	"ai-blog-writer-api/pkg/errors"
)

// 内容画像默认值
const (
	DefaultStructure = "blog"
	DefaultPersona   = "professional"
	DefaultTone      = "informative"
)

// ContentBrief 内容画像，描述一篇待生成博客的主题、目标与风格。
// 进入流水线后不可变；MinWords/MaxWords 由结构目录派生，仅用于模板插值。
type ContentBrief struct {
	Topic     string `json:"topic"`
	Goal      string `json:"goal"`
	Structure string `json:"structure"`
	Persona   string `json:"persona"`
	Tone      string `json:"tone"`
	Keyword   string `json:"keyword,omitempty"`

	// 派生字段：由 Structure 经结构目录计算一次后附加
	MinWords int `json:"min_words,omitempty"`
	MaxWords int `json:"max_words,omitempty"`
}

// Normalized 返回填充了默认值的画像副本
func (b ContentBrief) Normalized() ContentBrief {
	out := b
	out.Topic = strings.TrimSpace(b.Topic)
	out.Goal = strings.TrimSpace(b.Goal)
	out.Structure = strings.ToLower(strings.TrimSpace(b.Structure))
	out.Persona = strings.TrimSpace(b.Persona)
	out.Tone = strings.TrimSpace(b.Tone)
	out.Keyword = strings.TrimSpace(b.Keyword)

	if out.Structure == "" {
		out.Structure = DefaultStructure
	}
	if out.Persona == "" {
		out.Persona = DefaultPersona
	}
	if out.Tone == "" {
		out.Tone = DefaultTone
	}
	if out.Keyword == "" {
		out.Keyword = out.Topic
	}
	return out
}

// Validate 校验必填字段；缺失 topic 或 goal 时立即失败
func (b ContentBrief) Validate() error {
	if strings.TrimSpace(b.Topic) == "" {
		return errors.New(errors.CodeInvalidBrief, "brief topic is required")
	}
	if strings.TrimSpace(b.Goal) == "" {
		return errors.New(errors.CodeInvalidBrief, "brief goal is required")
	}
	return nil
}
