package agents

import (
	"context"
	"fmt"

	"contentradar/internal/model"
)

// SocialWriter derives channel snippets from a finished article.
func SocialWriter(ctx context.Context, g Generator, article model.Article) (model.SocialTexts, error) {
	prompt := fmt.Sprintf(`Du bist Social-Media-Redakteurin eines deutschsprachigen Wirtschaftsmediums.

Erstelle aus diesem Artikel drei Kanal-Texte:

**ARTIKEL:**
%s

Antworte AUSSCHLIESSLICH mit validem JSON:
{
  "linkedin": "LinkedIn-Post, 600-900 Zeichen, mit Hook im ersten Satz und 2-3 Hashtags am Ende",
  "twitter": "X-Post, maximal 280 Zeichen, zugespitzt auf die stärkste Erkenntnis",
  "newsletter_teaser": "Newsletter-Anreißer, 2-3 Sätze, endet mit einem Grund weiterzulesen"
}

Regeln:
- Kein Clickbait, keine Emojis im Newsletter-Teaser
- Jeder Text muss ohne den Artikel verständlich sein`, articleText(article))

	var social model.SocialTexts
	if err := g.GenerateJSON(ctx, "", prompt, 0.7, &social); err != nil {
		return model.SocialTexts{}, fmt.Errorf("social writer: %w", err)
	}
	return social, nil
}
