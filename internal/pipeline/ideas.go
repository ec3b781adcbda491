package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"contentradar/internal/acquisition"
	"contentradar/internal/agents"
	"contentradar/internal/history"
	"contentradar/internal/model"
	"contentradar/internal/seo"
	"contentradar/internal/sources/crawler"
)

// Acquisition task names. They double as the keys of the payload map and the
// prefixes of source warnings.
const (
	taskGA4      = "ga4"
	taskGA4Long  = "ga4-90d"
	taskGSC      = "gsc"
	taskGSCLong  = "gsc-90d"
	taskGSCPages = "gsc-pages"
	taskRSS      = "rss"
	taskTrends   = "trends"
)

const (
	ga4RowLimit      = 20
	gscQueryRowLimit = 25
	gscPageRowLimit  = 50
)

// RunIdeas executes the full idea pipeline: concurrent acquisition, the
// analysis stage chain, structured idea extraction, deterministic tiering
// and history persistence. The returned result always carries the collected
// warnings, even when the pipeline fails before producing ideas.
func (e *Engine) RunIdeas(ctx context.Context, status StatusObserver, stream StreamObserver) (*model.IdeaRunResult, error) {
	result := &model.IdeaRunResult{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
	}

	e.status(status, "Sammle Daten aus allen Quellen...")
	tasks := e.acquisitionTasks()
	acq := e.sched.Fetch(ctx, tasks)
	result.Warnings = append(result.Warnings, acq.Warnings...)
	result.Snapshot = e.buildSnapshot(acq)

	if missing := acquisition.MissingRequired(tasks, acq); len(missing) > 0 {
		return result, fmt.Errorf("required sources unavailable: %s", strings.Join(missing, ", "))
	}

	if len(result.Snapshot.GSCPages) > 0 || len(result.Snapshot.GSCQueries) > 0 {
		e.status(status, "Berechne SEO-Potenzial...")
		result.Snapshot.SEOPotential = seo.CalculatePotential(result.Snapshot.GSCPages, result.Snapshot.GSCQueries)
	}

	crawlSummaries := ""
	if e.hasCrawler() && len(result.Snapshot.GA4Pages) > 0 {
		e.status(status, "Analysiere bestehende Top-Seiten...")
		crawled, err := e.crawler.TopPages(ctx, result.Snapshot.GA4Pages)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("crawl: %v", err))
		}
		result.Snapshot.CrawledPages = crawled
		crawlSummaries = crawler.FormatSummaries(crawled)
	}

	e.status(status, "Analysiere Performance und Trends...")
	chain := NewChain(stream, e.log)
	stages := []Stage{
		{
			Name:     "analyst",
			Fallback: "Keine Analyse verfügbar.",
			Run: func(ctx context.Context, c *Chain) (string, error) {
				return agents.Analyst(ctx, e.gen, agents.AnalystInput{
					GA4Pages:     result.Snapshot.GA4Pages,
					GA4PagesLong: result.Snapshot.GA4PagesLong,
					GSCQueries:   result.Snapshot.GSCQueries,
					GSCQueryLong: result.Snapshot.GSCQueryLong,
					GSCPages:     result.Snapshot.GSCPages,
					Trends:       result.Snapshot.Trends,
				}, c.Observe)
			},
		},
		{
			Name:     "trendscout",
			Fallback: "Keine Trend-Analyse verfügbar.",
			Run: func(ctx context.Context, c *Chain) (string, error) {
				return agents.TrendScout(ctx, e.gen, result.Snapshot.FeedArticles, c.Observe)
			},
		},
		{
			Name:     "strategist",
			Fallback: "Keine Strategie verfügbar.",
			Run: func(ctx context.Context, c *Chain) (string, error) {
				return agents.Strategist(ctx, e.gen,
					c.Output("analyst"), c.Output("trendscout"), crawlSummaries,
					e.cfg.Pipeline.IdeasCount, c.Observe)
			},
		},
	}
	if err := chain.Run(ctx, stages); err != nil {
		result.Warnings = append(result.Warnings, chain.Warnings()...)
		return result, err
	}
	result.Warnings = append(result.Warnings, chain.Warnings()...)
	result.AnalystOutput = chain.Output("analyst")
	result.TrendScoutOutput = chain.Output("trendscout")
	result.StrategistOutput = chain.Output("strategist")

	e.status(status, "Formuliere Content-Ideen aus...")
	ideas, err := agents.Editor(ctx, e.gen, result.StrategistOutput, result.Snapshot.FeedArticles, e.cfg.Pipeline.IdeasCount)
	if err != nil {
		return result, err
	}

	ScoreIdeas(ideas)
	result.Ideas = ideas

	if e.history != nil {
		if res := e.history.Append(history.Entry{Timestamp: result.Timestamp, Ideas: ideas}); !res.Persisted {
			if e.log != nil {
				e.log.Warnf("history append failed: %v", res.Err)
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("history: %v", res.Err))
		}
	}

	if e.archive != nil && e.archive.Enabled() {
		if err := e.archive.SaveIdeaRun(ctx, *result); err != nil {
			if e.log != nil {
				e.log.Warnf("archive idea run failed: %v", err)
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("archive: %v", err))
		}
	}

	e.status(status, "Fertig.")
	return result, nil
}

// acquisitionTasks builds the fetch set from the configured capabilities.
// A provider without credentials is absent: never scheduled, no warning.
func (e *Engine) acquisitionTasks() []acquisition.Task {
	var tasks []acquisition.Task

	if e.hasAnalytics() {
		daysBack := e.cfg.Sources.Analytics.DaysBack
		daysLong := e.cfg.Sources.Analytics.DaysLong
		tasks = append(tasks,
			acquisition.Task{Name: taskGA4, Run: func(ctx context.Context) (any, error) {
				return e.analytics.TopPages(ctx, daysBack, ga4RowLimit)
			}},
			acquisition.Task{Name: taskGA4Long, Run: func(ctx context.Context) (any, error) {
				return e.analytics.TopPages(ctx, daysLong, ga4RowLimit)
			}},
		)
	}
	if e.hasSearchConsole() {
		daysBack := e.cfg.Sources.Analytics.DaysBack
		daysLong := e.cfg.Sources.Analytics.DaysLong
		tasks = append(tasks,
			acquisition.Task{Name: taskGSC, Run: func(ctx context.Context) (any, error) {
				return e.searchConsole.TopQueries(ctx, daysBack, gscQueryRowLimit)
			}},
			acquisition.Task{Name: taskGSCLong, Run: func(ctx context.Context) (any, error) {
				return e.searchConsole.TopQueries(ctx, daysLong, gscQueryRowLimit)
			}},
			acquisition.Task{Name: taskGSCPages, Run: func(ctx context.Context) (any, error) {
				return e.searchConsole.TopPages(ctx, daysBack, gscPageRowLimit)
			}},
		)
	}
	if e.hasFeeds() {
		tasks = append(tasks, acquisition.Task{Name: taskRSS, Run: func(ctx context.Context) (any, error) {
			return e.feeds.FetchAll(ctx)
		}})
	}
	if e.hasTrends() {
		tasks = append(tasks, acquisition.Task{Name: taskTrends, Run: func(ctx context.Context) (any, error) {
			return e.trends.TrendingTopics(ctx)
		}})
	}
	return tasks
}

func (e *Engine) buildSnapshot(acq *acquisition.Result) model.Snapshot {
	return model.Snapshot{
		GA4Pages:     acquisition.Payload[[]model.PageStat](acq, taskGA4),
		GA4PagesLong: acquisition.Payload[[]model.PageStat](acq, taskGA4Long),
		GSCQueries:   acquisition.Payload[[]model.QueryStat](acq, taskGSC),
		GSCQueryLong: acquisition.Payload[[]model.QueryStat](acq, taskGSCLong),
		GSCPages:     acquisition.Payload[[]model.PageRank](acq, taskGSCPages),
		FeedArticles: acquisition.Payload[[]model.FeedArticle](acq, taskRSS),
		Trends:       acquisition.Payload[[]model.TrendTopic](acq, taskTrends),
		FetchedAt:    acq.FetchedAt,
	}
}
