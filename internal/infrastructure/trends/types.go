// Package trends 对接 SerpAPI Google Trends 数据源
package trends

// Payload 一次趋势查询的完整结果；降级时只保留 Query
type Payload struct {
	Query           string                `json:"query"`
	TimePeriods     map[string]TimePeriod `json:"time_periods,omitempty"`
	RelatedQueries  *RelatedQueries       `json:"related_queries,omitempty"`
	RelatedKeywords *RelatedKeywords      `json:"related_keywords,omitempty"`
	Meta            *Meta                 `json:"meta,omitempty"`
}

// HasData 是否包含任何可用的时间线数据；降级结果返回 false
func (p *Payload) HasData() bool {
	if p == nil {
		return false
	}
	for _, period := range p.TimePeriods {
		if period.Available && len(period.Data.TimelineData) > 0 {
			return true
		}
	}
	return false
}

// TimePeriod 单个观察窗口的时间线数据
type TimePeriod struct {
	Period    string   `json:"period"`
	Available bool     `json:"available"`
	Data      Timeline `json:"data"`
}

// Timeline SerpAPI interest_over_time 的时间线
type Timeline struct {
	TimelineData []TimelinePoint `json:"timeline_data"`
}

// TimelinePoint 单个时间点的关注度取样
type TimelinePoint struct {
	Date   string       `json:"date"`
	Values []PointValue `json:"values"`
}

// PointValue 某查询词在该时间点的关注度
type PointValue struct {
	Query          string `json:"query"`
	ExtractedValue int    `json:"extracted_value"`
}

// RelatedQueries SerpAPI related_queries 结果
type RelatedQueries struct {
	Top    []RelatedQueryEntry `json:"top,omitempty"`
	Rising []RelatedQueryEntry `json:"rising,omitempty"`
}

// RelatedQueryEntry 单条相关查询
type RelatedQueryEntry struct {
	Query          string `json:"query"`
	ExtractedValue int    `json:"extracted_value"`
}

// RelatedKeywords 派生关键词的各自时间线
type RelatedKeywords struct {
	Keywords map[string]Timeline `json:"keywords"`
	Count    int                 `json:"count"`
}

// Meta 查询元信息
type Meta struct {
	LastUpdated             string `json:"last_updated"`
	QueryVariationsAnalyzed int    `json:"query_variations_analyzed"`
}
