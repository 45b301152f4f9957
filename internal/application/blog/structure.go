// Package blog 实现博客内容生成流水线
package blog

// StructureDefinition 内容结构定义：有序章节列表与目标字数区间
type StructureDefinition struct {
	Sections []string
	MinWords int
	MaxWords int
}

// defaultStructure 未知结构标签的兜底定义
var defaultStructure = StructureDefinition{
	Sections: []string{"Introduction", "Main Content", "Conclusion", "FAQs", "Meta Description"},
	MinWords: 1000,
	MaxWords: 1600,
}

// structureCatalog 结构标签到定义的静态映射
var structureCatalog = map[string]StructureDefinition{
	"blog": {
		Sections: []string{"Introduction", "Main Content", "Conclusion", "FAQs", "Meta Description", "References"},
		MinWords: 1000,
		MaxWords: 1600,
	},
	"how-to": {
		Sections: []string{"Introduction", "Step-by-Step Guide", "Tips & Best Practices", "Conclusion", "FAQs", "Meta Description", "References"},
		MinWords: 1200,
		MaxWords: 1800,
	},
	"listicle": {
		Sections: []string{"Introduction", "List Items with Details", "Conclusion", "FAQs", "Meta Description", "References"},
		MinWords: 1000,
		MaxWords: 1500,
	},
	"comparison": {
		Sections: []string{"Introduction", "Criteria for Comparison", "Detailed Comparison", "Pros & Cons", "Conclusion", "FAQs", "Meta Description", "References"},
		MinWords: 1300,
		MaxWords: 1800,
	},
	"guide": {
		Sections: []string{"Introduction", "Detailed Guide Sections", "Expert Tips", "Conclusion", "FAQs", "Meta Description", "References"},
		MinWords: 1800,
		MaxWords: 2500,
	},
	"faq": {
		Sections: []string{"Introduction", "Comprehensive FAQ Section", "Conclusion", "Meta Description", "References"},
		MinWords: 1000,
		MaxWords: 1400,
	},
}

// SectionsFor 返回结构标签对应的定义；未知标签返回兜底定义，永不失败
func SectionsFor(structureTag string) StructureDefinition {
	if def, ok := structureCatalog[structureTag]; ok {
		return def
	}
	return defaultStructure
}

// KnownStructures 返回目录中全部已知结构标签
func KnownStructures() []string {
	out := make([]string, 0, len(structureCatalog))
	for tag := range structureCatalog {
		out = append(out, tag)
	}
	return out
}
