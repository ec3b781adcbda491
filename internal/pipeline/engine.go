package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"contentradar/internal/acquisition"
	"contentradar/internal/agents"
	"contentradar/internal/config"
	"contentradar/internal/history"
	"contentradar/internal/model"
)

// AnalyticsProvider delivers GA4 page statistics.
type AnalyticsProvider interface {
	Available() bool
	TopPages(ctx context.Context, daysBack, limit int) ([]model.PageStat, error)
}

// SearchConsoleProvider delivers GSC query and page rows.
type SearchConsoleProvider interface {
	Available() bool
	TopQueries(ctx context.Context, daysBack, limit int) ([]model.QueryStat, error)
	TopPages(ctx context.Context, daysBack, limit int) ([]model.PageRank, error)
}

// FeedProvider delivers RSS and Google News articles.
type FeedProvider interface {
	Available() bool
	FetchAll(ctx context.Context) ([]model.FeedArticle, error)
	GoogleNews(ctx context.Context, query, lang, country string) ([]model.FeedArticle, error)
}

// TrendsProvider delivers search-interest rankings.
type TrendsProvider interface {
	Available() bool
	TrendingTopics(ctx context.Context) ([]model.TrendTopic, error)
}

// CrawlProvider extracts summaries of the site's own pages.
type CrawlProvider interface {
	Available() bool
	TopPages(ctx context.Context, pages []model.PageStat) ([]model.CrawledPage, error)
}

// HistoryStore is the bounded local run history.
type HistoryStore interface {
	Append(e history.Entry) history.AppendResult
	Load() []history.Entry
}

// Archiver persists finished runs to a database, best-effort.
type Archiver interface {
	Enabled() bool
	SaveIdeaRun(ctx context.Context, run model.IdeaRunResult) error
	SaveContentRun(ctx context.Context, run model.ContentRunResult) error
}

// Deps bundles everything an Engine needs. Providers may be nil; a nil or
// unavailable provider is treated as an absent capability, never scheduled
// and never warned about.
type Deps struct {
	Config        config.Config
	Generator     agents.Generator
	Analytics     AnalyticsProvider
	SearchConsole SearchConsoleProvider
	Feeds         FeedProvider
	Trends        TrendsProvider
	Crawler       CrawlProvider
	History       HistoryStore
	Archive       Archiver
	Log           *logrus.Logger
}

// Engine runs the three pipelines over a fixed set of providers.
type Engine struct {
	cfg           config.Config
	gen           agents.Generator
	analytics     AnalyticsProvider
	searchConsole SearchConsoleProvider
	feeds         FeedProvider
	trends        TrendsProvider
	crawler       CrawlProvider
	history       HistoryStore
	archive       Archiver
	log           *logrus.Logger
	sched         *acquisition.Scheduler
}

func NewEngine(d Deps) *Engine {
	return &Engine{
		cfg:           d.Config,
		gen:           d.Generator,
		analytics:     d.Analytics,
		searchConsole: d.SearchConsole,
		feeds:         d.Feeds,
		trends:        d.Trends,
		crawler:       d.Crawler,
		history:       d.History,
		archive:       d.Archive,
		log:           d.Log,
		sched:         acquisition.NewScheduler(d.Config.Pipeline.FetchDeadline.Std(), d.Log),
	}
}

func (e *Engine) status(observer StatusObserver, msg string) {
	if observer != nil {
		observer(msg)
	}
	if e.log != nil {
		e.log.Info(msg)
	}
}

func (e *Engine) hasAnalytics() bool {
	return e.analytics != nil && e.analytics.Available()
}

func (e *Engine) hasSearchConsole() bool {
	return e.searchConsole != nil && e.searchConsole.Available()
}

func (e *Engine) hasFeeds() bool {
	return e.feeds != nil && e.feeds.Available()
}

func (e *Engine) hasTrends() bool {
	return e.trends != nil && e.trends.Available()
}

func (e *Engine) hasCrawler() bool {
	return e.crawler != nil && e.crawler.Available()
}
