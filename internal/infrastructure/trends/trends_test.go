package trends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-blog-writer-api/internal/config"
)

func timelineResponse(query string, values ...int) map[string]any {
	points := make([]map[string]any, 0, len(values))
	for i, v := range values {
		points = append(points, map[string]any{
			"date": time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("Jan 2, 2006"),
			"values": []map[string]any{
				{"query": query, "extracted_value": v},
			},
		})
	}
	return map[string]any{
		"interest_over_time": map[string]any{"timeline_data": points},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SerpAPIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestClientFetch_FullPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_trends", q.Get("engine"))
		assert.Equal(t, "test-key", q.Get("api_key"))

		var resp map[string]any
		switch q.Get("data_type") {
		case "RELATED_QUERIES":
			resp = map[string]any{
				"related_queries": map[string]any{
					"top": []map[string]any{
						{"query": "online mba cost", "extracted_value": 80},
					},
				},
			}
		default:
			resp = timelineResponse(q.Get("q"), 30, 60, 90)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	payload := client.Fetch(context.Background(), "online mba")
	require.NotNil(t, payload)
	assert.Equal(t, "online mba", payload.Query)
	assert.True(t, payload.HasData())

	shortTerm, ok := payload.TimePeriods["short_term"]
	require.True(t, ok)
	assert.True(t, shortTerm.Available)
	assert.Len(t, shortTerm.Data.TimelineData, 3)

	require.NotNil(t, payload.RelatedKeywords)
	assert.Equal(t, len(RelatedKeywordVariations("online mba")), payload.RelatedKeywords.Count)
	require.NotNil(t, payload.Meta)
	assert.Equal(t, 6, payload.Meta.QueryVariationsAnalyzed)
}

func TestClientFetch_DegradesToQueryOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	payload := client.Fetch(context.Background(), "online mba")
	require.NotNil(t, payload)
	assert.Equal(t, "online mba", payload.Query)
	assert.False(t, payload.HasData())
	assert.Empty(t, payload.TimePeriods)
}

func TestClientFetch_MissingAPIKeyDegrades(t *testing.T) {
	client := NewClient(config.SerpAPIConfig{BaseURL: "http://unused.invalid"})

	payload := client.Fetch(context.Background(), "remote work")
	require.NotNil(t, payload)
	assert.Equal(t, "remote work", payload.Query)
	assert.False(t, payload.HasData())
}

func TestFormatForLLM_PeaksAndInsights(t *testing.T) {
	payload := &Payload{
		Query: "online mba",
		TimePeriods: map[string]TimePeriod{
			"short_term": {
				Period:    "Last 1 month",
				Available: true,
				Data: Timeline{TimelineData: []TimelinePoint{
					{Date: "Jan 1, 2026", Values: []PointValue{{Query: "online mba", ExtractedValue: 30}}},
					{Date: "Jan 2, 2026", Values: []PointValue{{Query: "online mba", ExtractedValue: 75}}},
					{Date: "Jan 3, 2026", Values: []PointValue{{Query: "online mba", ExtractedValue: 95}}},
				}},
			},
		},
		RelatedKeywords: &RelatedKeywords{
			Keywords: map[string]Timeline{
				"online mba cost": {TimelineData: []TimelinePoint{
					{Date: "Jan 5, 2026", Values: []PointValue{{Query: "online mba cost", ExtractedValue: 60}}},
				}},
				"online mba rankings": {TimelineData: []TimelinePoint{
					{Date: "Jan 6, 2026", Values: []PointValue{{Query: "online mba rankings", ExtractedValue: 85}}},
				}},
			},
			Count: 2,
		},
	}

	got := FormatForLLM(payload)

	summary := got.TrendSummary["short_term"]
	assert.True(t, summary.HasSignificantInterest)
	assert.Equal(t, 2, summary.PeakCount)
	assert.Equal(t, 3, summary.DataPoints)
	assert.Len(t, got.InterestPeaks, 2)

	// 按峰值降序
	require.Len(t, got.RelatedTopics, 2)
	assert.Equal(t, "online mba rankings", got.RelatedTopics[0].Keyword)
	assert.Equal(t, 85, got.RelatedTopics[0].PeakInterest)

	require.NotEmpty(t, got.Insights)
	assert.Contains(t, got.Insights[0], "Peak interest in 'online mba'")
}

func TestFormatForLLM_NoPeaks(t *testing.T) {
	payload := &Payload{
		Query: "niche topic",
		TimePeriods: map[string]TimePeriod{
			"short_term": {
				Period:    "Last 1 month",
				Available: true,
				Data: Timeline{TimelineData: []TimelinePoint{
					{Date: "Jan 1, 2026", Values: []PointValue{{Query: "niche topic", ExtractedValue: 10}}},
				}},
			},
		},
	}

	got := FormatForLLM(payload)
	assert.Empty(t, got.InterestPeaks)
	assert.False(t, got.TrendSummary["short_term"].HasSignificantInterest)
	require.NotEmpty(t, got.Insights)
	assert.Contains(t, got.Insights[0], "relatively steady")
}

func TestFormattedTrendsRender(t *testing.T) {
	got, err := FormatForLLM(&Payload{Query: "x"}).Render()
	require.NoError(t, err)
	assert.Contains(t, got, `"query": "x"`)
}
