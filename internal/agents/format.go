package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"contentradar/internal/model"
)

// Shared prompt table formatting. Every agent feeds the model the same
// compact Markdown-ish tables so findings stay comparable between stages.

func formatGA4(pages []model.PageStat, limit int) string {
	if len(pages) == 0 {
		return "Keine GA4-Daten verfügbar."
	}
	lines := []string{
		"Titel | Aufrufe | Engagement-Rate",
		"------|---------|----------------",
	}
	for _, p := range capPages(pages, limit) {
		lines = append(lines, fmt.Sprintf("%s | %d | %.1f%%", truncate(p.Title, 80), p.Views, p.EngagementRate))
	}
	return strings.Join(lines, "\n")
}

func formatGSC(queries []model.QueryStat, limit int) string {
	if len(queries) == 0 {
		return "Keine GSC-Daten verfügbar."
	}
	lines := []string{
		"Suchanfrage | Impressionen | Klicks | CTR | Position",
		"-----------|--------------|--------|-----|----------",
	}
	for _, q := range capQueries(queries, limit) {
		lines = append(lines, fmt.Sprintf("%s | %d | %d | %.1f%% | %.1f",
			truncate(q.Query, 60), q.Impressions, q.Clicks, q.CTR, q.Position))
	}
	return strings.Join(lines, "\n")
}

func formatGSCPages(pages []model.PageRank, limit int) string {
	if len(pages) == 0 {
		return "Keine seitenspezifischen GSC-Daten verfügbar."
	}
	lines := []string{
		"URL | Impressionen | Klicks | CTR | Position | Status",
		"----|--------------|--------|-----|----------|-------",
	}
	for i, p := range pages {
		if i >= limit {
			break
		}
		status := "Weit hinten"
		switch {
		case p.Position < 4:
			status = "Top 3"
		case p.Position <= 15:
			status = "Fast-Ranker"
		}
		lines = append(lines, fmt.Sprintf("%s | %d | %d | %.1f%% | %.1f | %s",
			truncate(p.Page, 70), p.Impressions, p.Clicks, p.CTR, p.Position, status))
	}
	return strings.Join(lines, "\n")
}

func formatTrends(trends []model.TrendTopic) string {
	if len(trends) == 0 {
		return "Keine Google-Trends-Daten verfügbar."
	}
	lines := []string{
		"Trend-Index (0-100) | Keyword",
		"--------------------|--------",
	}
	for _, t := range trends {
		lines = append(lines, fmt.Sprintf("%-20d| %s", t.Value, t.Keyword))
	}
	return strings.Join(lines, "\n")
}

func formatFeedArticles(articles []model.FeedArticle, limit int) string {
	if len(articles) == 0 {
		return "Keine RSS-Artikel verfügbar."
	}
	var lines []string
	for i, a := range articles {
		if i >= limit {
			break
		}
		dateStr := "unbekannt"
		if !a.Published.IsZero() {
			dateStr = a.Published.Format("02.01.2006 15:04")
		}
		summary := ""
		if a.Summary != "" {
			summary = " – " + truncate(a.Summary, 200)
		}
		lines = append(lines, fmt.Sprintf("%d. [%s] %s (%s)%s", i+1, a.Source, a.Title, dateStr, summary))
	}
	return strings.Join(lines, "\n")
}

func capPages(pages []model.PageStat, limit int) []model.PageStat {
	if len(pages) > limit {
		return pages[:limit]
	}
	return pages
}

func capQueries(queries []model.QueryStat, limit int) []model.QueryStat {
	if len(queries) > limit {
		return queries[:limit]
	}
	return queries
}

func mustArticleJSON(a model.Article) string {
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return a.Title
	}
	return string(b)
}

// articleText renders an article as plain Markdown for review prompts.
func articleText(a model.Article) string {
	var sb strings.Builder
	sb.WriteString("# " + a.Title + "\n\n")
	if a.Lead != "" {
		sb.WriteString(a.Lead + "\n\n")
	}
	for _, s := range a.Sections {
		sb.WriteString("## " + s.Heading + "\n" + s.Content + "\n\n")
	}
	return sb.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
