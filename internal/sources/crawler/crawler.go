package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"contentradar/internal/model"
)

const pageTimeout = 8 * time.Second

// Crawler extracts readable summaries of the site's own top pages, so the
// strategist can avoid proposing content that already exists.
type Crawler struct {
	baseURL string
	limit   int

	mu    sync.Mutex
	cache map[string]model.CrawledPage
}

func New(baseURL string, limit int) *Crawler {
	return &Crawler{
		baseURL: baseURL,
		limit:   limit,
		cache:   make(map[string]model.CrawledPage),
	}
}

// Available reports whether a site base URL is configured.
func (c *Crawler) Available() bool {
	return c.baseURL != ""
}

// TopPages crawls up to the configured limit of GA4 top pages. Pages that
// fail to extract are skipped; an error is returned only if the base URL
// cannot be parsed.
func (c *Crawler) TopPages(ctx context.Context, pages []model.PageStat) ([]model.CrawledPage, error) {
	root, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var crawled []model.CrawledPage
	for _, page := range pages {
		if len(crawled) >= c.limit {
			break
		}
		if page.Path == "" || page.Path == "/" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return crawled, err
		}
		ref, err := url.Parse(page.Path)
		if err != nil {
			continue
		}
		target := root.ResolveReference(ref).String()
		result, ok := c.fetch(target)
		if !ok {
			continue
		}
		crawled = append(crawled, result)
	}
	return crawled, nil
}

func (c *Crawler) fetch(pageURL string) (model.CrawledPage, bool) {
	c.mu.Lock()
	if cached, ok := c.cache[pageURL]; ok {
		c.mu.Unlock()
		return cached, cached.Title != "" || cached.Excerpt != ""
	}
	c.mu.Unlock()

	result := model.CrawledPage{URL: pageURL}
	article, err := readability.FromURL(pageURL, pageTimeout)
	if err == nil {
		result.Title = strings.TrimSpace(article.Title)
		result.Excerpt = excerpt(article.TextContent, 4)
	}

	c.mu.Lock()
	c.cache[pageURL] = result
	c.mu.Unlock()

	return result, err == nil
}

// FormatSummaries renders crawled pages as a prompt block.
func FormatSummaries(pages []model.CrawledPage) string {
	if len(pages) == 0 {
		return ""
	}
	var lines []string
	for _, p := range pages {
		title := p.Title
		if title == "" {
			title = p.URL
		}
		lines = append(lines, fmt.Sprintf("- **%s** (%s)\n  %s", title, p.URL, p.Excerpt))
	}
	return strings.Join(lines, "\n")
}

// excerpt returns the first n sentences of the text.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return text[:i+1]
			}
		}
	}
	return text
}
