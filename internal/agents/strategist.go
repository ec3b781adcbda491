package agents

import (
	"context"
	"fmt"
)

// Strategist combines analyst and trend-scout findings into raw content
// ideas. crawlSummaries carries the existing-content overview so duplicates
// get avoided and update candidates surface; pass "" when unavailable.
func Strategist(ctx context.Context, g Generator, analystOutput, trendScoutOutput, crawlSummaries string, ideasCount int, onText func(string)) (string, error) {
	existingSection := ""
	if crawlSummaries != "" {
		existingSection = fmt.Sprintf(`
**BESTEHENDER CONTENT (Top-Seiten der eigenen Website):**
%s

Wichtig für die Ideen-Entwicklung:
- Schlage KEINE Themen vor, die auf diesen Seiten bereits umfassend behandelt werden
- Wenn ein Thema bereits vorhanden ist, entwickle einen neuen Blickwinkel oder schlage ein Update vor
- Markiere Update-Ideen explizit mit [UPDATE] vor der Idee-Nummer
`, crawlSummaries)
	}

	prompt := fmt.Sprintf(`Du bist ein erfahrener Content-Stratege für ein deutschsprachiges Wirtschaftsmedium.

Du bekommst zwei Analysen und optional eine Übersicht der bestehenden Top-Artikel der eigenen Website:

**ANALYSE 1 – Performance-Erkenntnisse (Google Analytics + Search Console):**
%s

**ANALYSE 2 – Aktuelle Trends (Wirtschaftsmedien RSS):**
%s
%s
Deine Aufgabe:
Identifiziere Schnittmengen zwischen den Performance-Daten und den aktuellen Trends.
Entwickle daraus genau %d spezifische Content-Ideen.

Für jede Idee:
- **Idee [Nummer]:** (noch kein fertiger Titel – nur das Thema/Konzept)
- **Kernbotschaft:** (was ist der zentrale Inhalt des Artikels?)
- **Daten-Basis:** (welche Signale aus Analytics/GSC/RSS stützen diese Idee?)
- **Typ:** Neuer Artikel oder [UPDATE] eines bestehenden Artikels?

Wichtig:
- Sei spezifisch. Nicht "Zinsen" sondern "Wie sich der neue EZB-Leitzins auf Festgeld-Angebote auswirkt"
- Vermeide offensichtliche oder generische Themen
- Priorisiere Themen, die sowohl aktuell (RSS) als auch gesucht (GSC) sind

Antworte auf Deutsch.`, analystOutput, trendScoutOutput, existingSection, ideasCount)

	return g.Stream(ctx, "", prompt, 0.5, onText)
}
