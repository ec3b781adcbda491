package agents

import (
	"context"
	"fmt"

	"contentradar/internal/model"
)

// IdeaContext searches the acquired feed, analytics and search-query data
// for signals related to a user-supplied idea and returns a structured
// German report.
func IdeaContext(ctx context.Context, g Generator, idea string, articles []model.FeedArticle, pages []model.PageStat, queries []model.QueryStat) (string, error) {
	prompt := fmt.Sprintf(`Du bist ein Daten-Rechercheur für ein deutschsprachiges Wirtschaftsmedium.

Ein Redakteur hat folgende Artikel-Idee eingereicht:
"%s"

Deine Aufgabe: Durchsuche die folgenden Datenpunkte und identifiziere, welche davon zur Idee passen.

Aktuelle Artikel aus Wirtschaftsmedien und Google News:
%s

Top-Seiten der eigenen Website (letzte 7 Tage):
%s

Top-Suchanfragen (Search Console, letzte 7 Tage):
%s

Erstelle einen strukturierten Bericht mit diesen Abschnitten:

## Relevante Artikel
Liste max. 5 passende Artikel auf (Quelle, Titel, kurze Relevanz-Erklärung).
Falls keine Artikel relevant sind, schreibe "Kein direkter Nachrichtenanlass gefunden."

## Website-Signale
Welche bestehenden Seiten/Themen performen gut und überschneiden sich mit der Idee?
Falls keine Überschneidung, schreibe "Kein direktes Website-Signal."

## Such-Signale
Welche Suchanfragen deuten auf Leser-Interesse an diesem Thema hin?
Falls keine Überschneidung, schreibe "Kein direktes Such-Signal."

## Fazit
2-3 Sätze: Wie gut ist die Datenlage für diese Idee?

Antworte auf Deutsch. Sei präzise und faktenbasiert.`,
		idea, formatFeedArticles(articles, 25), formatGA4(pages, 15), formatGSC(queries, 20))

	notes, err := g.Generate(ctx, "", prompt, 0.3)
	if err != nil {
		return "", fmt.Errorf("idea context: %w", err)
	}
	return notes, nil
}
