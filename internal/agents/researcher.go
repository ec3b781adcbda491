package agents

import (
	"context"
	"fmt"

	"contentradar/internal/model"
)

// Researcher compiles structured background notes for one idea from the
// already-fetched articles and reader search queries. The notes feed the
// writer verbatim, so the prompt enforces a fixed section layout.
func Researcher(ctx context.Context, g Generator, idea model.Idea, articles []model.FeedArticle, queries []model.QueryStat) (string, error) {
	sources := "Keine Quell-Artikel verfügbar."
	if len(idea.References) > 0 {
		var refs []model.FeedArticle
		for _, r := range idea.References {
			refs = append(refs, model.FeedArticle{Source: r.Source, Title: r.Title, URL: r.URL})
		}
		sources = formatFeedArticles(refs, 10)
	} else if len(articles) > 0 {
		sources = formatFeedArticles(articles, 10)
	}

	prompt := fmt.Sprintf(`Du bist Rechercheur für ein deutschsprachiges Wirtschaftsmedium.

Artikel-Idee:
Titel: %s
Warum jetzt: %s
Kategorie: %s

Verfügbare Quell-Artikel:
%s

Suchanfragen der Leser (Search Console):
%s

Erstelle strukturierte Recherche-Notizen für die Autorin. Gliedere exakt so:

## Faktenlage
(belegbare Fakten, Zahlen und Daten zum Thema; bei jedem Fakt die Quelle nennen)

## Kontext
(Hintergrund und Einordnung: warum ist das Thema relevant, was ist die Vorgeschichte?)

## Leserfragen
(welche Fragen stellen die Leser laut den Suchanfragen? Nur als inhaltliche
Fragen formuliert; die Metriken selbst gehören nicht in den Artikel)

## Offene Fragen
(was ist unklar oder umstritten und sollte im Artikel transparent benannt werden?)

## Zahlen und Daten
(konkrete Kennzahlen, die der Artikel verwenden kann; keine erfundenen Werte)

Wichtig:
- Erfinde keine Fakten. Wenn zu einem Punkt keine Quelle vorliegt, schreib das explizit.
- Antworte auf Deutsch.`, idea.Title, idea.WhyNow, idea.Category, sources, formatGSC(queries, 25))

	notes, err := g.Generate(ctx, "", prompt, 0.2)
	if err != nil {
		return "", fmt.Errorf("researcher: %w", err)
	}
	return notes, nil
}
