package node

import "strings"

// 上下文块构造：为空输入直接返回空串，模板侧整块省略，不渲染孤立的标题。

func BuildTrendsBlock(summary string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ""
	}
	return "**Trend Insights (Summary):**\n" + summary
}

func BuildResearchBlock(summary string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ""
	}
	return "**Background Research (Summary):**\n" + summary
}

func BuildOutlineBlock(outline string) string {
	outline = strings.TrimSpace(outline)
	if outline == "" {
		return ""
	}
	return "**Approved Outline:**\n" + outline
}

func BuildUserInputBlock(userInput string) string {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return ""
	}
	return "**Additional Instructions from the User:**\n" + userInput
}
