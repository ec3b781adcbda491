package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"contentradar/internal/agents"
	"contentradar/internal/model"
)

// ContentInput configures one content-pipeline run. CachedArticles lets the
// caller reuse the feed articles of a previous idea run instead of fetching
// again; leave it nil to fetch fresh when a feed provider is configured.
// CachedQueries carries the Search Console queries of a previous run into
// the research stage; nil leaves that input empty.
type ContentInput struct {
	Idea           model.Idea
	CachedArticles []model.FeedArticle
	CachedQueries  []model.QueryStat
	TargetWords    int // 0 = configured default
	OnState        func(state LoopState, attempt int)
}

// RunContent drives research, the revision loop and social derivation for
// one idea. The returned result always carries the collected warnings; the
// article is absent only when the producer stage itself failed.
func (e *Engine) RunContent(ctx context.Context, in ContentInput, status StatusObserver) (*model.ContentRunResult, error) {
	result := &model.ContentRunResult{RunID: uuid.NewString()}

	targetWords := in.TargetWords
	if targetWords == 0 {
		targetWords = e.cfg.Pipeline.TargetWords
	}

	articles := in.CachedArticles
	if articles == nil && e.hasFeeds() {
		e.status(status, "Lade aktuelle Artikel...")
		fetched, err := e.feeds.FetchAll(ctx)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("rss: %v", err))
		}
		articles = fetched
	}

	e.status(status, "Recherchiere Hintergründe...")
	notes, err := agents.Researcher(ctx, e.gen, in.Idea, articles, in.CachedQueries)
	if err != nil {
		// Research is recoverable; the writer works from the idea alone.
		result.Warnings = append(result.Warnings, fmt.Sprintf("research: %v", err))
		notes = "Keine Recherche-Notizen verfügbar."
	}
	result.ResearchNotes = notes

	e.status(status, "Schreibe und prüfe den Artikel...")
	loop := &RevisionLoop{
		MaxRevisions: e.cfg.Pipeline.MaxRevisions,
		Produce: func(ctx context.Context, feedback string) (model.Article, error) {
			return agents.Writer(ctx, e.gen, agents.WriterInput{
				Idea:             in.Idea,
				ResearchNotes:    notes,
				BrandVoice:       e.cfg.Pipeline.BrandVoice,
				ForbiddenPhrases: e.cfg.Pipeline.ForbiddenPhrases,
				TargetWords:      targetWords,
				RevisionFeedback: feedback,
			})
		},
		Correct: func(ctx context.Context, draft model.Article) (model.Article, error) {
			return agents.FactCheck(ctx, e.gen, draft, notes)
		},
		Evaluate: func(ctx context.Context, article model.Article) (model.Evaluation, error) {
			return agents.Evaluate(ctx, e.gen, article, e.cfg.Pipeline.BrandVoice, e.cfg.Pipeline.MinScore)
		},
		OnState: in.OnState,
		Log:     e.log,
	}

	loopRes, err := loop.Run(ctx)
	if err != nil {
		return result, err
	}
	result.Warnings = append(result.Warnings, loopRes.Warnings...)
	result.Article = loopRes.Article
	result.Evaluation = loopRes.Evaluation
	result.RevisionCount = loopRes.Revisions

	// Social texts only follow a genuine pass; a forced acceptance keeps the
	// article but skips enrichment.
	if loopRes.Evaluation.Passed {
		e.status(status, "Erstelle Social-Media-Texte...")
		social, err := agents.SocialWriter(ctx, e.gen, loopRes.Article)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("social: %v", err))
		} else {
			result.Social = social
		}
	}

	if e.archive != nil && e.archive.Enabled() {
		if err := e.archive.SaveContentRun(ctx, *result); err != nil {
			if e.log != nil {
				e.log.Warnf("archive content run failed: %v", err)
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("archive: %v", err))
		}
	}

	e.status(status, "Fertig.")
	return result, nil
}
