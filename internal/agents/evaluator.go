package agents

import (
	"context"
	"fmt"
	"math"

	"contentradar/internal/model"
)

// Evaluate reviews an article on four quality dimensions. The overall score
// and the pass flag are recomputed here from the dimension scores; whatever
// the model claims for them is discarded.
func Evaluate(ctx context.Context, g Generator, article model.Article, brandVoice string, minScore int) (model.Evaluation, error) {
	voice := brandVoice
	if voice == "" {
		voice = "sachlich, zugänglich, ohne Fachjargon"
	}

	prompt := fmt.Sprintf(`Du bist Qualitätsprüfer eines deutschsprachigen Wirtschaftsmediums.
Die gewünschte Tonalität ist: %s

Bewerte diesen Artikel streng auf vier Dimensionen (jeweils 0-100):
- authentizitaet: Klingt der Text menschlich und nach unserer Tonalität, frei von KI-Floskeln?
- tiefe: Geht der Artikel über Offensichtliches hinaus, liefert er konkrete Zahlen und Beispiele?
- klarheit: Ist der Text verständlich strukturiert, sind die Absätze fokussiert?
- relevanz: Beantwortet der Artikel die Frage des Titels, ist er für Leser nützlich?

**ARTIKEL:**
%s

Antworte AUSSCHLIESSLICH mit validem JSON:
{
  "scores": {"authentizitaet": 0, "tiefe": 0, "klarheit": 0, "relevanz": 0},
  "feedback": "Konkrete, umsetzbare Verbesserungspunkte als nummerierte Liste. Benenne Textstellen."
}`, voice, articleText(article))

	var eval model.Evaluation
	if err := g.GenerateJSON(ctx, "", prompt, 0.3, &eval); err != nil {
		return model.Evaluation{}, fmt.Errorf("evaluator: %w", err)
	}

	s := eval.Scores
	mean := float64(s.Authentizitaet+s.Tiefe+s.Klarheit+s.Relevanz) / 4.0
	eval.Overall = int(math.Round(mean))
	eval.Passed = eval.Overall >= minScore
	if eval.Passed {
		eval.Feedback = ""
	}
	return eval, nil
}
