package pipeline

import (
	"context"
	"fmt"
	"strings"

	"contentradar/internal/agents"
	"contentradar/internal/model"
)

// EvaluateInput configures one evaluation-pipeline run for a user-supplied
// idea. Cached slices reuse data from a previous idea run. Nil articles are
// fetched fresh where a feed provider is configured; nil pages and queries
// stay empty, the evaluation needs no analytics credentials.
type EvaluateInput struct {
	Title          string
	Description    string
	CachedArticles []model.FeedArticle
	CachedPages    []model.PageStat
	CachedQueries  []model.QueryStat
}

// RunEvaluation judges a single idea against search demand and the current
// news situation, including a targeted Google News lookup.
func (e *Engine) RunEvaluation(ctx context.Context, in EvaluateInput, status StatusObserver) (*model.IdeaVerdict, error) {
	var warnings []string

	idea := strings.TrimSpace(in.Title)
	if in.Description != "" {
		idea = fmt.Sprintf("%s – %s", idea, strings.TrimSpace(in.Description))
	}

	articles := in.CachedArticles
	if articles == nil && e.hasFeeds() {
		e.status(status, "Lade aktuelle Artikel...")
		fetched, err := e.feeds.FetchAll(ctx)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("rss: %v", err))
		}
		articles = fetched
	}

	if e.hasFeeds() && in.Title != "" {
		e.status(status, "Suche gezielt in Google News...")
		news, err := e.feeds.GoogleNews(ctx, in.Title, "de", "CH")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("google-news: %v", err))
		} else {
			articles = mergeArticles(articles, news)
		}
	}

	e.status(status, "Suche relevante Signale...")
	notes, err := agents.IdeaContext(ctx, e.gen, idea, articles, in.CachedPages, in.CachedQueries)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("context: %v", err))
		notes = "Keine Kontextdaten verfügbar."
	}

	e.status(status, "Bewerte die Idee...")
	verdict, err := agents.JudgeIdea(ctx, e.gen, idea, notes)
	if err != nil {
		return &model.IdeaVerdict{Warnings: warnings}, err
	}

	verdict.ContextNotes = notes
	verdict.Warnings = warnings
	e.status(status, "Fertig.")
	return &verdict, nil
}

// mergeArticles appends fresh articles to a copy of the cached set,
// dropping URL duplicates. The caller's slice is never written to.
func mergeArticles(cached, fresh []model.FeedArticle) []model.FeedArticle {
	seen := make(map[string]bool, len(cached)+len(fresh))
	merged := make([]model.FeedArticle, 0, len(cached)+len(fresh))
	for _, a := range cached {
		if a.URL != "" {
			seen[a.URL] = true
		}
		merged = append(merged, a)
	}
	for _, a := range fresh {
		if a.URL != "" {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
		}
		merged = append(merged, a)
	}
	return merged
}
