package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-blog-writer-api/internal/config"
	"ai-blog-writer-api/pkg/logger"
	"ai-blog-writer-api/pkg/metrics"
)

const sourceName = "serpapi"

// Client SerpAPI Google Trends 客户端。
// 任何查询失败都降级为 {query} 载荷，不向上传播错误。
type Client struct {
	cfg        config.SerpAPIConfig
	httpClient *http.Client
}

// NewClient 创建 SerpAPI 客户端
func NewClient(cfg config.SerpAPIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch 拉取主题的趋势数据：近一月时间线、相关查询、派生关键词各自的近三月时间线
func (c *Client) Fetch(ctx context.Context, topic string) *Payload {
	start := time.Now()
	payload, err := c.fetch(ctx, topic)
	metrics.TrendsFetchDuration.WithLabelValues(sourceName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TrendsFetchTotal.WithLabelValues(sourceName, "degraded").Inc()
		logger.Warn(ctx, "trends lookup degraded to query-only payload",
			"topic", topic, "error", err.Error())
		return &Payload{Query: topic}
	}
	metrics.TrendsFetchTotal.WithLabelValues(sourceName, "success").Inc()
	return payload
}

func (c *Client) fetch(ctx context.Context, topic string) (*Payload, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("serpapi api key not configured")
	}

	shortTerm, err := c.interestOverTime(ctx, topic, "today 1-m")
	if err != nil {
		return nil, err
	}
	relatedQueries, err := c.relatedQueries(ctx, topic)
	if err != nil {
		return nil, err
	}

	// 派生关键词查询失败不致命，跳过该词即可
	variations := RelatedKeywordVariations(topic)
	keywordTimelines := make(map[string]Timeline, len(variations))
	for _, kw := range variations {
		timeline, err := c.interestOverTime(ctx, kw, "today 3-m")
		if err != nil {
			logger.Debug(ctx, "related keyword lookup skipped", "keyword", kw, "error", err.Error())
			continue
		}
		keywordTimelines[kw] = timeline
	}

	return &Payload{
		Query: topic,
		TimePeriods: map[string]TimePeriod{
			"short_term": {
				Period:    "Last 1 month",
				Available: len(shortTerm.TimelineData) > 0,
				Data:      shortTerm,
			},
		},
		RelatedQueries: relatedQueries,
		RelatedKeywords: &RelatedKeywords{
			Keywords: keywordTimelines,
			Count:    len(keywordTimelines),
		},
		Meta: &Meta{
			LastUpdated:             time.Now().UTC().Format(time.RFC3339),
			QueryVariationsAnalyzed: len(variations) + 1,
		},
	}, nil
}

func (c *Client) interestOverTime(ctx context.Context, query, period string) (Timeline, error) {
	var out struct {
		InterestOverTime Timeline `json:"interest_over_time"`
	}
	if err := c.search(ctx, query, "TIMESERIES", period, &out); err != nil {
		return Timeline{}, err
	}
	return out.InterestOverTime, nil
}

func (c *Client) relatedQueries(ctx context.Context, query string) (*RelatedQueries, error) {
	var out struct {
		RelatedQueries RelatedQueries `json:"related_queries"`
	}
	if err := c.search(ctx, query, "RELATED_QUERIES", "today 3-m", &out); err != nil {
		return nil, err
	}
	return &out.RelatedQueries, nil
}

func (c *Client) search(ctx context.Context, query, dataType, period string, out any) error {
	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("engine", "google_trends")
	params.Set("q", query)
	params.Set("data_type", dataType)
	params.Set("date", period)
	if c.cfg.Language != "" {
		params.Set("hl", c.cfg.Language)
	}
	if c.cfg.GeoLocation != "" {
		params.Set("geo", c.cfg.GeoLocation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build serpapi request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read serpapi response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("serpapi returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode serpapi response: %w", err)
	}
	return nil
}

// RelatedKeywordVariations 围绕主题派生的常见搜索意图变体
func RelatedKeywordVariations(topic string) []string {
	base := strings.ToLower(strings.TrimSpace(topic))
	return []string{
		base + " requirements",
		base + " cost",
		base + " scholarships",
		"Best " + base + " programs",
		base + " rankings",
	}
}
