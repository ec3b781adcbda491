package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"contentradar/internal/config"
	"contentradar/internal/model"
)

var htmlTags = regexp.MustCompile(`<[^>]+>`)

// Client fetches configured RSS feeds and ad-hoc Google News queries.
type Client struct {
	cfg    []config.FeedConfig
	maxPer int
	client *http.Client
	parser *gofeed.Parser
}

func NewClient(feeds []config.FeedConfig, maxPerFeed int) *Client {
	return &Client{
		cfg:    feeds,
		maxPer: maxPerFeed,
		client: &http.Client{Timeout: 15 * time.Second},
		parser: gofeed.NewParser(),
	}
}

// Available reports whether at least one feed is configured.
func (c *Client) Available() bool {
	return len(c.cfg) > 0
}

// FetchAll pulls every configured feed and returns the merged article list,
// newest first. A single broken feed does not fail the fetch; its error is
// returned only if every feed failed.
func (c *Client) FetchAll(ctx context.Context) ([]model.FeedArticle, error) {
	var articles []model.FeedArticle
	var lastErr error
	failed := 0

	for _, fc := range c.cfg {
		feed, err := c.fetch(ctx, fc.URL)
		if err != nil {
			lastErr = fmt.Errorf("feed %s: %w", fc.Name, err)
			failed++
			continue
		}
		articles = append(articles, c.convert(fc.Name, feed)...)
	}

	if len(c.cfg) > 0 && failed == len(c.cfg) {
		return nil, lastErr
	}
	sortNewestFirst(articles)
	return articles, nil
}

// GoogleNews runs a Google News RSS search for the given query.
func (c *Client) GoogleNews(ctx context.Context, query, lang, country string) ([]model.FeedArticle, error) {
	u := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		url.QueryEscape(query), lang, country, country, lang)
	feed, err := c.fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("google news: %w", err)
	}
	articles := c.convert("Google News", feed)
	sortNewestFirst(articles)
	return articles, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ContentRadar/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed failed: %w", err)
	}
	return feed, nil
}

func (c *Client) convert(source string, feed *gofeed.Feed) []model.FeedArticle {
	var articles []model.FeedArticle
	for i, item := range feed.Items {
		if i >= c.maxPer {
			break
		}
		var published time.Time
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}
		articles = append(articles, model.FeedArticle{
			Source:    source,
			Title:     strings.TrimSpace(item.Title),
			Summary:   cleanSummary(item.Description),
			URL:       item.Link,
			Published: published,
		})
	}
	return articles
}

// cleanSummary strips HTML tags and caps the length so feed noise never
// floods the prompts.
func cleanSummary(text string) string {
	clean := strings.TrimSpace(htmlTags.ReplaceAllString(text, ""))
	runes := []rune(clean)
	if len(runes) > 500 {
		return string(runes[:500])
	}
	return clean
}

func sortNewestFirst(articles []model.FeedArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
}
