package node

import "strings"

// SectionPlan 单个章节的生成计划：是否注入趋势/调研上下文，以及写作指引
type SectionPlan struct {
	Name        string
	UsesContext bool
	Guidelines  string
}

// contextSections 允许注入趋势与调研上下文的章节；
// 标题、结论等短章节不注入，避免模型把数据塞进不合适的位置。
var contextSections = map[string]struct{}{
	"introduction":       {},
	"main content":       {},
	"guide body":         {},
	"step-by-step guide": {},
	"meta description":   {},
	"faqs":               {},
}

// BuildSectionPlans 按目录顺序展开章节计划，顺序与输入严格一致
func BuildSectionPlans(sections []string) []SectionPlan {
	plans := make([]SectionPlan, 0, len(sections))
	for _, name := range sections {
		key := strings.ToLower(strings.TrimSpace(name))
		_, usesContext := contextSections[key]
		plans = append(plans, SectionPlan{
			Name:        name,
			UsesContext: usesContext,
			Guidelines:  guidelinesFor(key),
		})
	}
	return plans
}

func guidelinesFor(sectionKey string) string {
	switch sectionKey {
	case "meta description":
		return "Write a single compelling meta description of 150-160 characters that summarizes the article and includes the primary keyword naturally. Output only the meta description text, with no heading and no quotation marks."
	case "faqs":
		return "Write 3-5 unique and practical frequently asked questions with concise, direct answers. Phrase each question the way a real searcher would. Format each as a bolded question followed by a short answer paragraph."
	default:
		return "Write this section in full prose, staying consistent with the sections that come before it in the outline. Do not repeat content covered elsewhere, do not write a heading for a different section, and do not add concluding remarks unless this is the concluding section."
	}
}
