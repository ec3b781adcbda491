package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"contentradar/internal/config"
	"contentradar/internal/model"
)

// Client talks to the GA4 Data API (runReport).
type Client struct {
	cfg    config.AnalyticsConfig
	client *http.Client
}

func NewClient(cfg config.AnalyticsConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: http.DefaultClient,
	}
}

// Available reports whether the client has complete credentials. An
// unconfigured client is skipped by the scheduler, not treated as failed.
func (c *Client) Available() bool {
	return c.cfg.PropertyID != "" && c.cfg.Token != ""
}

type runReportRequest struct {
	DateRanges []dateRange `json:"dateRanges"`
	Dimensions []named     `json:"dimensions"`
	Metrics    []named     `json:"metrics"`
	OrderBys   []orderBy   `json:"orderBys"`
	Limit      int         `json:"limit"`
}

type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type named struct {
	Name string `json:"name"`
}

type orderBy struct {
	Metric named `json:"metric"`
	Desc   bool  `json:"desc"`
}

type runReportResponse struct {
	Rows []struct {
		DimensionValues []struct {
			Value string `json:"value"`
		} `json:"dimensionValues"`
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
}

// TopPages returns the most-viewed pages with engagement rate over the last
// daysBack days, sorted by views descending.
func (c *Client) TopPages(ctx context.Context, daysBack, limit int) ([]model.PageStat, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -daysBack)

	req := runReportRequest{
		DateRanges: []dateRange{{StartDate: start.Format("2006-01-02"), EndDate: end.Format("2006-01-02")}},
		Dimensions: []named{{Name: "pageTitle"}, {Name: "pagePath"}},
		Metrics:    []named{{Name: "screenPageViews"}, {Name: "engagementRate"}},
		OrderBys:   []orderBy{{Metric: named{Name: "screenPageViews"}, Desc: true}},
		Limit:      limit,
	}

	resp, err := c.runReport(ctx, req)
	if err != nil {
		return nil, err
	}

	pages := make([]model.PageStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) < 2 || len(row.MetricValues) < 2 {
			continue
		}
		views, _ := strconv.Atoi(row.MetricValues[0].Value)
		engagement, _ := strconv.ParseFloat(row.MetricValues[1].Value, 64)
		pages = append(pages, model.PageStat{
			Title:          row.DimensionValues[0].Value,
			Path:           row.DimensionValues[1].Value,
			Views:          views,
			EngagementRate: roundPct(engagement * 100),
		})
	}
	return pages, nil
}

func (c *Client) runReport(ctx context.Context, req runReportRequest) (*runReportResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	url := fmt.Sprintf("%s/properties/%s:runReport", c.cfg.BaseURL, c.cfg.PropertyID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
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
		return nil, fmt.Errorf("ga4 api error (status %d): %s", res.StatusCode, string(body))
	}

	var report runReportResponse
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return &report, nil
}

func roundPct(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
