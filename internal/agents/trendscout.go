package agents

import (
	"context"
	"fmt"

	"contentradar/internal/model"
)

// TrendScout filters the fetched feed articles down to the ten most relevant
// business topics, grouping related coverage. Streams via onText.
func TrendScout(ctx context.Context, g Generator, articles []model.FeedArticle, onText func(string)) (string, error) {
	prompt := fmt.Sprintf(`Du bist ein erfahrener Wirtschaftsjournalist und Trend-Scout.

Hier sind aktuelle Artikel aus deutschsprachigen Wirtschaftsmedien:

%s

Deine Aufgabe:
1. Filtere die wichtigsten 10 Themen heraus – fokussiere auf aktuelle, relevante Wirtschaftsthemen.
2. Gruppiere ähnliche Themen (z.B. mehrere EZB-Artikel = ein Thema "EZB-Zinsentscheid").
3. Schreibe für jedes Thema:
   - **Thema:** (kurzer, prägnanter Titel)
   - **Warum relevant:** (1-2 Sätze: was passiert gerade, warum ist es wichtig)
   - **Quelle:** (welches Medium hat darüber berichtet)

Antworte auf Deutsch. Strukturiere deine Antwort klar.`,
		formatFeedArticles(articles, 40))

	return g.Stream(ctx, "", prompt, 0.3, onText)
}
