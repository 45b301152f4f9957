package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptSectionV1       PromptID = "section_v1"
	PromptOutlineV1       PromptID = "outline_v1"
	PromptResearchV1      PromptID = "research_v1"
	PromptTrendAnalysisV1 PromptID = "trend_analysis_v1"
	PromptLLMTrendsV1     PromptID = "llm_trends_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptSectionV1:
		return "templates/section_v1.system.txt", "templates/section_v1.user.txt", nil
	case PromptOutlineV1:
		return "templates/outline_v1.system.txt", "templates/outline_v1.user.txt", nil
	case PromptResearchV1:
		return "templates/research_v1.system.txt", "templates/research_v1.user.txt", nil
	case PromptTrendAnalysisV1:
		return "templates/trend_analysis_v1.system.txt", "templates/trend_analysis_v1.user.txt", nil
	case PromptLLMTrendsV1:
		return "templates/llm_trends_v1.system.txt", "templates/llm_trends_v1.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
