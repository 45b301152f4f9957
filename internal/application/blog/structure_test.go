package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsFor_KnownStructures(t *testing.T) {
	for _, tag := range KnownStructures() {
		def := SectionsFor(tag)
		assert.NotEmpty(t, def.Sections, tag)
		assert.LessOrEqual(t, def.MinWords, def.MaxWords, tag)
		assert.Positive(t, def.MinWords, tag)

		// 章节名在单个结构内唯一
		seen := make(map[string]bool, len(def.Sections))
		for _, s := range def.Sections {
			assert.False(t, seen[s], "duplicate section %q in %q", s, tag)
			seen[s] = true
		}
	}
}

func TestSectionsFor_UnknownTagFallsBack(t *testing.T) {
	def := SectionsFor("press-release")
	require.Equal(t, defaultStructure.Sections, def.Sections)
	assert.Equal(t, defaultStructure.MinWords, def.MinWords)
	assert.Equal(t, defaultStructure.MaxWords, def.MaxWords)
}

func TestSectionsFor_GuideWordRange(t *testing.T) {
	def := SectionsFor("guide")
	assert.Equal(t, 1800, def.MinWords)
	assert.Equal(t, 2500, def.MaxWords)
}
