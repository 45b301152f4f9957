// Package export 提供成稿的 Markdown 渲染与纯文本导出
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// MarkdownToHTML 将 Markdown 文档渲染为 HTML
func MarkdownToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	blankPattern  = regexp.MustCompile(`\n{3,}`)
	entityReplace = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// MarkdownToText 将 Markdown 文档转为纯文本，剥离全部标记
func MarkdownToText(markdown string) (string, error) {
	rendered, err := MarkdownToHTML(markdown)
	if err != nil {
		return "", err
	}
	text := tagPattern.ReplaceAllString(rendered, "")
	text = entityReplace.Replace(text)
	text = blankPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
