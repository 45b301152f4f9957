package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	got, err := MarkdownToHTML("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, got, "<h1>Title</h1>")
	assert.Contains(t, got, "<strong>bold</strong>")
}

func TestMarkdownToText_StripsMarkup(t *testing.T) {
	got, err := MarkdownToText("# Title\n\nSome **bold** text with a [link](https://example.com).")
	require.NoError(t, err)
	assert.Contains(t, got, "Title")
	assert.Contains(t, got, "Some bold text with a link.")
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, "**")
}

func TestMarkdownToText_Entities(t *testing.T) {
	got, err := MarkdownToText("Fish &amp; Chips")
	require.NoError(t, err)
	assert.Contains(t, got, "Fish & Chips")
}
