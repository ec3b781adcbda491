package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"contentradar/internal/config"
	"contentradar/internal/model"
)

const (
	batchSize = 5 // the trends API compares at most 5 keywords per request
	timeframe = "now 7-d"
)

// Client samples search interest for a curated keyword watchlist via the
// unofficial Google Trends widget API.
type Client struct {
	cfg    config.TrendsConfig
	client *http.Client
}

func NewClient(cfg config.TrendsConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

// Available reports whether a keyword watchlist is configured.
func (c *Client) Available() bool {
	return len(c.cfg.Keywords) > 0
}

// TrendingTopics returns the watchlist keywords ranked by average search
// interest (0-100) over the last 7 days, highest first.
func (c *Client) TrendingTopics(ctx context.Context) ([]model.TrendTopic, error) {
	scores := make(map[string]float64, len(c.cfg.Keywords))

	for i := 0; i < len(c.cfg.Keywords); i += batchSize {
		end := i + batchSize
		if end > len(c.cfg.Keywords) {
			end = len(c.cfg.Keywords)
		}
		batch := c.cfg.Keywords[i:end]

		batchScores, err := c.fetchBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// One failed batch zeroes its keywords, the rest still rank.
			for _, kw := range batch {
				scores[kw] = 0
			}
			continue
		}
		for kw, v := range batchScores {
			scores[kw] = v
		}
	}

	keywords := make([]string, 0, len(scores))
	for kw := range scores {
		keywords = append(keywords, kw)
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		if scores[keywords[i]] != scores[keywords[j]] {
			return scores[keywords[i]] > scores[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	limit := c.cfg.Limit
	if limit > len(keywords) {
		limit = len(keywords)
	}
	topics := make([]model.TrendTopic, 0, limit)
	for rank, kw := range keywords[:limit] {
		topics = append(topics, model.TrendTopic{
			Keyword: kw,
			Value:   int(scores[kw] + 0.5),
			Rank:    rank + 1,
		})
	}
	return topics, nil
}

type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Value []int `json:"value"`
		} `json:"timelineData"`
	} `json:"default"`
}

// fetchBatch runs the two-step widget flow for one keyword batch: explore
// issues the interest-over-time token, widgetdata/multiline delivers the
// timeline. The per-keyword score is the timeline mean.
func (c *Client) fetchBatch(ctx context.Context, keywords []string) (map[string]float64, error) {
	type comparisonItem struct {
		Keyword string `json:"keyword"`
		Geo     string `json:"geo"`
		Time    string `json:"time"`
	}
	items := make([]comparisonItem, len(keywords))
	for i, kw := range keywords {
		items[i] = comparisonItem{Keyword: kw, Geo: c.cfg.Geo, Time: timeframe}
	}
	exploreReq, err := json.Marshal(map[string]any{
		"comparisonItem": items,
		"category":       0,
		"property":       "",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal explore request failed: %w", err)
	}

	exploreURL := fmt.Sprintf("%s/trends/api/explore?hl=de-CH&tz=60&req=%s",
		c.cfg.BaseURL, url.QueryEscape(string(exploreReq)))
	body, err := c.get(ctx, exploreURL)
	if err != nil {
		return nil, fmt.Errorf("explore: %w", err)
	}

	var explore exploreResponse
	if err := json.Unmarshal(body, &explore); err != nil {
		return nil, fmt.Errorf("unmarshal explore response failed: %w", err)
	}

	var token string
	var widgetReq json.RawMessage
	for _, w := range explore.Widgets {
		if w.ID == "TIMESERIES" {
			token = w.Token
			widgetReq = w.Request
			break
		}
	}
	if token == "" {
		return nil, fmt.Errorf("explore response has no timeseries widget")
	}

	dataURL := fmt.Sprintf("%s/trends/api/widgetdata/multiline?hl=de-CH&tz=60&req=%s&token=%s",
		c.cfg.BaseURL, url.QueryEscape(string(widgetReq)), url.QueryEscape(token))
	body, err = c.get(ctx, dataURL)
	if err != nil {
		return nil, fmt.Errorf("widgetdata: %w", err)
	}

	var multiline multilineResponse
	if err := json.Unmarshal(body, &multiline); err != nil {
		return nil, fmt.Errorf("unmarshal widgetdata response failed: %w", err)
	}

	sums := make([]float64, len(keywords))
	points := 0
	for _, row := range multiline.Default.TimelineData {
		for i := range keywords {
			if i < len(row.Value) {
				sums[i] += float64(row.Value[i])
			}
		}
		points++
	}

	scores := make(map[string]float64, len(keywords))
	for i, kw := range keywords {
		if points == 0 {
			scores[kw] = 0
			continue
		}
		scores[kw] = sums[i] / float64(points)
	}
	return scores, nil
}

// get issues a GET and strips the XSSI guard prefix the trends API prepends
// to every JSON body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ContentRadar/1.0)")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends api error (status %d)", res.StatusCode)
	}

	text := string(body)
	if idx := strings.Index(text, "\n"); idx >= 0 && strings.HasPrefix(text, ")]}'") {
		text = text[idx+1:]
	}
	return []byte(text), nil
}
