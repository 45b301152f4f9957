package trends

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// 峰值判定阈值：Google Trends 关注度为 0-100 的相对值
const peakThreshold = 50

// PeriodSummary 单个观察窗口的峰值概览
type PeriodSummary struct {
	Period                 string `json:"period"`
	HasSignificantInterest bool   `json:"has_significant_interest"`
	PeakCount              int    `json:"peak_count"`
	DataPoints             int    `json:"data_points"`
}

// Peak 一次显著的关注度峰值
type Peak struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// RelatedTopic 派生关键词的峰值表现
type RelatedTopic struct {
	Keyword      string `json:"keyword"`
	PeakInterest int    `json:"peak_interest"`
	PeakDate     string `json:"peak_date"`
}

// FormattedTrends 提炼后、适合嵌入提示词的趋势摘要
type FormattedTrends struct {
	Query         string                   `json:"query"`
	TrendSummary  map[string]PeriodSummary `json:"trend_summary"`
	InterestPeaks []Peak                   `json:"interest_peaks"`
	RelatedTopics []RelatedTopic           `json:"related_topics"`
	Insights      []string                 `json:"insights"`
}

// FormatForLLM 把原始趋势载荷压缩为峰值与洞察摘要
func FormatForLLM(p *Payload) *FormattedTrends {
	out := &FormattedTrends{
		Query:        p.Query,
		TrendSummary: make(map[string]PeriodSummary),
	}

	for periodKey, period := range p.TimePeriods {
		if !period.Available {
			continue
		}
		timeline := period.Data.TimelineData
		if len(timeline) == 0 {
			continue
		}

		var peaks []Peak
		for _, point := range timeline {
			for _, value := range point.Values {
				if value.Query == p.Query && value.ExtractedValue > peakThreshold {
					peaks = append(peaks, Peak{Date: point.Date, Value: value.ExtractedValue})
				}
			}
		}

		out.TrendSummary[periodKey] = PeriodSummary{
			Period:                 period.Period,
			HasSignificantInterest: len(peaks) > 0,
			PeakCount:              len(peaks),
			DataPoints:             len(timeline),
		}
		out.InterestPeaks = append(out.InterestPeaks, peaks...)
	}

	if p.RelatedKeywords != nil {
		for keyword, timeline := range p.RelatedKeywords.Keywords {
			peakValue := 0
			peakDate := ""
			for _, point := range timeline.TimelineData {
				for _, value := range point.Values {
					if value.ExtractedValue > peakValue {
						peakValue = value.ExtractedValue
						peakDate = point.Date
					}
				}
			}
			if peakValue > 0 {
				out.RelatedTopics = append(out.RelatedTopics, RelatedTopic{
					Keyword:      keyword,
					PeakInterest: peakValue,
					PeakDate:     peakDate,
				})
			}
		}
		// map 遍历无序，排序保证输出可复现
		sort.Slice(out.RelatedTopics, func(i, j int) bool {
			if out.RelatedTopics[i].PeakInterest != out.RelatedTopics[j].PeakInterest {
				return out.RelatedTopics[i].PeakInterest > out.RelatedTopics[j].PeakInterest
			}
			return out.RelatedTopics[i].Keyword < out.RelatedTopics[j].Keyword
		})
	}

	out.Insights = buildInsights(out)
	return out
}

// Render 序列化为缩进 JSON，作为分析提示词的数据体
func (f *FormattedTrends) Render() (string, error) {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render trends data: %w", err)
	}
	return string(b), nil
}

func buildInsights(f *FormattedTrends) []string {
	var insights []string

	if len(f.InterestPeaks) > 0 {
		sorted := make([]Peak, len(f.InterestPeaks))
		copy(sorted, f.InterestPeaks)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

		insights = append(insights,
			fmt.Sprintf("Peak interest in '%s' occurred on %s", f.Query, sorted[0].Date))
		if len(sorted) > 1 {
			insights = append(insights,
				fmt.Sprintf("There were %d significant spikes in interest over the analyzed periods", len(sorted)))
		}
	} else {
		insights = append(insights,
			fmt.Sprintf("Interest in '%s' has been relatively steady with no major spikes", f.Query))
	}

	if len(f.RelatedTopics) > 0 {
		insights = append(insights,
			fmt.Sprintf("'%s' is a highly related topic with significant interest", f.RelatedTopics[0].Keyword))
		if len(f.RelatedTopics) > 1 {
			limit := len(f.RelatedTopics)
			if limit > 4 {
				limit = 4
			}
			others := make([]string, 0, limit-1)
			for _, topic := range f.RelatedTopics[1:limit] {
				others = append(others, topic.Keyword)
			}
			insights = append(insights,
				fmt.Sprintf("Other related topics of interest include: %s", strings.Join(others, ", ")))
		}
	}
	return insights
}
