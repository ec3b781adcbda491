package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contentradar/internal/model"
)

type editorIdea struct {
	Title      string            `json:"title"`
	WhyNow     string            `json:"why_now"`
	Category   string            `json:"category"`
	Signals    model.Signals     `json:"signals"`
	References []model.Reference `json:"rss_links"`
}

// Editor turns the strategist's free-form ideas into structured entries.
// The fetched articles render into the prompt so rss_links reference real
// URLs. Tiers are assigned later from the signal slots, never by the model.
func Editor(ctx context.Context, g Generator, strategistOutput string, articles []model.FeedArticle, ideasCount int) ([]model.Idea, error) {
	prompt := fmt.Sprintf(`Du bist Redaktionsleiter eines deutschsprachigen Wirtschaftsmediums.

Hier sind die Content-Ideen deines Strategen:

%s%s

Wähle die %d stärksten Ideen aus und formuliere sie redaktionell aus.

Antworte AUSSCHLIESSLICH mit validem JSON in genau diesem Format:
{
  "ideas": [
    {
      "title": "Klickstarker, konkreter Artikel-Titel",
      "why_now": "Ein Satz: warum dieses Thema genau jetzt",
      "category": "Ratgeber|News-Analyse|Vergleich|Erklärstück",
      "signals": {
        "ga4": "Performance-Signal aus Analytics, oder leer",
        "gsc": "Such-Signal aus der Search Console, oder leer",
        "rss": "Trend-Signal aus den Feeds, oder leer"
      },
      "rss_links": [
        {"title": "Schlagzeile des Quell-Artikels", "url": "https://...", "source": "Medium"}
      ]
    }
  ]
}

Regeln:
- Titel maximal 70 Zeichen, aktiv formuliert, ohne Clickbait-Floskeln
- In "signals" nur Felder füllen, für die es tatsächlich ein Signal gibt
- "rss_links" nur mit Artikeln aus der obigen RSS-Liste füllen, die URL exakt
  wie angegeben übernehmen; leere Liste wenn kein Artikel passt`,
		strategistOutput, editorRSSContext(articles), ideasCount)

	var raw map[string]json.RawMessage
	if err := g.GenerateJSON(ctx, "", prompt, 0.6, &raw); err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}

	list, err := extractIdeaList(raw)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}

	ideas := make([]model.Idea, 0, len(list))
	for _, ei := range list {
		if strings.TrimSpace(ei.Title) == "" {
			continue
		}
		ideas = append(ideas, model.Idea{
			Title:      strings.TrimSpace(ei.Title),
			WhyNow:     strings.TrimSpace(ei.WhyNow),
			Category:   strings.TrimSpace(ei.Category),
			Signals:    ei.Signals,
			References: ei.References,
		})
	}
	if len(ideas) == 0 {
		return nil, fmt.Errorf("editor: no usable ideas in response")
	}
	return ideas, nil
}

// editorRSSContext lists the fetched articles the model may pick rss_links
// from. Empty when nothing was fetched, so the prompt stays unchanged.
func editorRSSContext(articles []model.FeedArticle) string {
	var lines []string
	for i, a := range articles {
		if i >= 30 {
			break
		}
		if a.Title == "" || a.URL == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %q (%s) → %s", a.Title, a.Source, a.URL))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\nVerfügbare RSS-Artikel (Titel, Quelle, URL):\n" + strings.Join(lines, "\n")
}

// extractIdeaList tolerates the wrapper keys models actually emit.
func extractIdeaList(raw map[string]json.RawMessage) ([]editorIdea, error) {
	for _, key := range []string{"ideas", "items", "results", "content_ideas"} {
		payload, ok := raw[key]
		if !ok {
			continue
		}
		var list []editorIdea
		if err := json.Unmarshal(payload, &list); err != nil {
			return nil, fmt.Errorf("parse %q list: %w", key, err)
		}
		return list, nil
	}
	return nil, fmt.Errorf("response lacks an ideas list")
}
