package agents

import (
	"context"
	"fmt"
	"strings"

	"contentradar/internal/model"
)

// AnalystInput bundles the performance data the analyst stage works on.
type AnalystInput struct {
	GA4Pages     []model.PageStat
	GSCQueries   []model.QueryStat
	GSCPages     []model.PageRank
	GA4PagesLong []model.PageStat
	GSCQueryLong []model.QueryStat
	Trends       []model.TrendTopic
}

// Analyst evaluates GA4/GSC performance data: well-performing topics, content
// gaps (high impressions, low CTR), fast-rankers and evergreen topics.
// Streams via onText when non-nil.
func Analyst(ctx context.Context, g Generator, in AnalystInput, onText func(string)) (string, error) {
	prompt := fmt.Sprintf(`Du bist ein datengetriebener Content-Analyst für ein deutschsprachiges Wirtschaftsmedium.

Analysiere die folgenden Daten aus Google Analytics 4 (GA4) und Google Search Console (GSC).

**GA4 – Top-Seiten nach Seitenaufrufen (letzte 7 Tage):**
%s

**GSC – Top-Suchanfragen nach Impressionen (letzte 7 Tage):**
%s

**GSC – Seitenränge nach Position (letzte 7 Tage):**
%s

**Langzeit-Vergleich (letzte 90 Tage):**
%s

**Google Trends – Trendende Suchen (heute):**
%s

Deine Aufgabe:
1. Identifiziere 3-5 Themenfelder, die aktuell sehr gut performen (hohe Views + gutes Engagement).
2. Identifiziere 3-5 Content-Lücken: Keywords mit vielen Impressionen, aber niedriger CTR (< 3%%).
3. Identifiziere "Fast-Ranker": Seiten auf Position 4-15, die mit einem Content-Update auf Platz 1-3 klettern könnten.
4. Erkenne Evergreen-Themen (konstant gut über 90 Tage) vs. Kurzfrist-Trends (nur letzte 7 Tage stark).
5. Gleiche trendende Keywords mit den GSC-Daten ab: Wo gibt es Momentum-Themen mit bestehendem Ranking oder einer Content-Lücke?
6. Fasse deine Erkenntnisse klar und strukturiert zusammen – sie werden direkt an den nächsten Agenten weitergegeben.

Antworte auf Deutsch. Strukturiere deine Antwort mit klaren Abschnitten.`,
		formatGA4(in.GA4Pages, 15),
		formatGSC(in.GSCQueries, 20),
		formatGSCPages(in.GSCPages, 20),
		formatLongPeriod(in.GA4PagesLong, in.GSCQueryLong),
		formatTrends(in.Trends),
	)

	return g.Stream(ctx, "", prompt, 0.3, onText)
}

func formatLongPeriod(ga4Long []model.PageStat, gscLong []model.QueryStat) string {
	if len(ga4Long) == 0 && len(gscLong) == 0 {
		return "Keine Langzeit-Daten verfügbar."
	}
	var parts []string
	if len(ga4Long) > 0 {
		lines := []string{"Top-Seiten (90 Tage) | Aufrufe", "---------------------|--------"}
		for _, p := range capPages(ga4Long, 10) {
			lines = append(lines, fmt.Sprintf("%s | %d", truncate(p.Title, 60), p.Views))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if len(gscLong) > 0 {
		lines := []string{"Top-Suchanfragen (90 Tage) | Impressionen | Position", "--------------------------|--------------|----------"}
		for _, q := range capQueries(gscLong, 10) {
			lines = append(lines, fmt.Sprintf("%s | %d | %.1f", truncate(q.Query, 50), q.Impressions, q.Position))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}
