package searchconsole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"contentradar/internal/config"
	"contentradar/internal/model"
)

// Client talks to the Search Console search-analytics API.
type Client struct {
	cfg    config.SearchConsoleConfig
	client *http.Client
}

func NewClient(cfg config.SearchConsoleConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: http.DefaultClient,
	}
}

// Available reports whether the client has complete credentials.
func (c *Client) Available() bool {
	return c.cfg.SiteURL != "" && c.cfg.Token != ""
}

type queryRequest struct {
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Dimensions []string  `json:"dimensions"`
	RowLimit   int       `json:"rowLimit"`
	OrderBy    []orderBy `json:"orderBy,omitempty"`
}

type orderBy struct {
	FieldName string `json:"fieldName"`
	SortOrder string `json:"sortOrder"`
}

type queryResponse struct {
	Rows []struct {
		Keys        []string `json:"keys"`
		Clicks      float64  `json:"clicks"`
		Impressions float64  `json:"impressions"`
		CTR         float64  `json:"ctr"`      // fraction
		Position    float64  `json:"position"` // average rank
	} `json:"rows"`
}

// TopQueries returns the search queries with the most impressions over the
// last daysBack days.
func (c *Client) TopQueries(ctx context.Context, daysBack, limit int) ([]model.QueryStat, error) {
	resp, err := c.query(ctx, daysBack, "query", limit)
	if err != nil {
		return nil, err
	}

	queries := make([]model.QueryStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.Keys) == 0 {
			continue
		}
		queries = append(queries, model.QueryStat{
			Query:       row.Keys[0],
			Impressions: int(row.Impressions),
			Clicks:      int(row.Clicks),
			CTR:         round2(row.CTR * 100),
			Position:    round1(row.Position),
		})
	}
	return queries, nil
}

// TopPages returns page-level ranking rows, the raw material for fast-ranker
// detection and the traffic-potential estimate.
func (c *Client) TopPages(ctx context.Context, daysBack, limit int) ([]model.PageRank, error) {
	resp, err := c.query(ctx, daysBack, "page", limit)
	if err != nil {
		return nil, err
	}

	pages := make([]model.PageRank, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.Keys) == 0 {
			continue
		}
		pages = append(pages, model.PageRank{
			Page:        row.Keys[0],
			Impressions: int(row.Impressions),
			Clicks:      int(row.Clicks),
			CTR:         round2(row.CTR * 100),
			Position:    round1(row.Position),
		})
	}
	return pages, nil
}

func (c *Client) query(ctx context.Context, daysBack int, dimension string, limit int) (*queryResponse, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -daysBack)

	req := queryRequest{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Dimensions: []string{dimension},
		RowLimit:   limit,
		OrderBy:    []orderBy{{FieldName: "impressions", SortOrder: "DESCENDING"}},
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/searchAnalytics/query",
		c.cfg.BaseURL, url.PathEscape(c.cfg.SiteURL))
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Add("Authorization", "Bearer "+c.cfg.Token)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gsc api error (status %d): %s", res.StatusCode, string(body))
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return &qr, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
