package agents

import (
	"context"
	"fmt"
	"strings"

	"contentradar/internal/model"
)

// WriterInput carries everything the writer needs for one draft.
type WriterInput struct {
	Idea             model.Idea
	ResearchNotes    string
	BrandVoice       string
	ForbiddenPhrases []string
	TargetWords      int
	RevisionFeedback string // empty on the first draft
}

// Writer produces a full article draft as structured JSON.
func Writer(ctx context.Context, g Generator, in WriterInput) (model.Article, error) {
	voice := in.BrandVoice
	if voice == "" {
		voice = "sachlich, zugänglich, ohne Fachjargon"
	}

	feedbackSection := ""
	if in.RevisionFeedback != "" {
		feedbackSection = fmt.Sprintf(`
**ÜBERARBEITUNG – Feedback der Qualitätsprüfung zum letzten Entwurf:**
%s

Arbeite jedes Feedback-Item konkret ein. Behalte, was bereits gut war.
`, in.RevisionFeedback)
	}

	forbidden := "keine"
	if len(in.ForbiddenPhrases) > 0 {
		forbidden = strings.Join(in.ForbiddenPhrases, ", ")
	}

	prompt := fmt.Sprintf(`Du bist Autorin für ein deutschsprachiges Wirtschaftsmedium.

Schreibe einen vollständigen Artikel zu dieser Idee:
Titel: %s
Warum jetzt: %s
Kategorie: %s

Recherche-Notizen:
%s
%s
Stil-Vorgaben:
- Tonalität: %s
- Umfang: etwa %d Wörter
- Verbotene Floskeln: %s
- Kurze Absätze, konkrete Beispiele, keine Füllwörter

Antworte AUSSCHLIESSLICH mit validem JSON in genau diesem Format:
{
  "title": "Finaler Artikel-Titel",
  "lead": "2-3 Sätze Einstieg, der das Kernversprechen des Artikels formuliert",
  "sections": [
    {"heading": "Zwischenüberschrift", "content": "Fließtext des Abschnitts"}
  ],
  "meta_description": "SEO-Beschreibung, maximal 155 Zeichen"
}`, in.Idea.Title, in.Idea.WhyNow, in.Idea.Category, in.ResearchNotes, feedbackSection, voice, in.TargetWords, forbidden)

	var article model.Article
	if err := g.GenerateJSON(ctx, "", prompt, 0.7, &article); err != nil {
		return model.Article{}, fmt.Errorf("writer: %w", err)
	}
	if article.Empty() {
		return model.Article{}, fmt.Errorf("writer: empty article in response")
	}
	if article.Title == "" {
		article.Title = in.Idea.Title
	}
	return article, nil
}
