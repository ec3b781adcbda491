package agents

import (
	"context"
	"fmt"

	"contentradar/internal/model"
)

// FactCheck rewrites a draft with unverifiable claims softened or removed.
// Fields the model leaves out are backfilled from the input draft, so a
// sloppy response can never shrink the article to nothing.
func FactCheck(ctx context.Context, g Generator, draft model.Article, researchNotes string) (model.Article, error) {
	prompt := fmt.Sprintf(`Du bist Faktenprüfer eines deutschsprachigen Wirtschaftsmediums.

Prüfe diesen Artikel-Entwurf gegen die Recherche-Notizen:

**ENTWURF (JSON):**
%s

**RECHERCHE-NOTIZEN:**
%s

Aufgaben:
1. Entferne oder entschärfe Behauptungen, die die Notizen nicht decken
2. Korrigiere Zahlen, die von den Notizen abweichen
3. Formuliere absolute Aussagen ohne Beleg vorsichtiger ("laut ...", "Stand ...")
4. Ändere NICHTS am Stil und an der Struktur, nur an der faktischen Substanz

Antworte AUSSCHLIESSLICH mit dem vollständigen korrigierten Artikel als JSON
im selben Format wie der Entwurf (title, lead, sections, meta_description).`, mustArticleJSON(draft), researchNotes)

	var corrected model.Article
	if err := g.GenerateJSON(ctx, "", prompt, 0.1, &corrected); err != nil {
		return model.Article{}, fmt.Errorf("fact-check: %w", err)
	}

	if corrected.Title == "" {
		corrected.Title = draft.Title
	}
	if corrected.Lead == "" {
		corrected.Lead = draft.Lead
	}
	if len(corrected.Sections) == 0 {
		corrected.Sections = draft.Sections
	}
	if corrected.MetaDescription == "" {
		corrected.MetaDescription = draft.MetaDescription
	}
	return corrected, nil
}
