package agents

import (
	"context"
	"fmt"
	"math"

	"contentradar/internal/model"
)

type judgeResponse struct {
	Scores struct {
		Aktualitaet     int `json:"aktualitaet"`
		Nachfrage       int `json:"nachfrage"`
		Einzigartigkeit int `json:"einzigartigkeit"`
		Relevanz        int `json:"relevanz"`
	} `json:"scores"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Recommendation string   `json:"recommendation"`
}

// JudgeIdea rates a user-supplied idea against the context report. Score
// and verdict are derived here from the dimension scores, not taken from
// the model.
func JudgeIdea(ctx context.Context, g Generator, idea, contextNotes string) (model.IdeaVerdict, error) {
	prompt := fmt.Sprintf(`Du bist Redaktionsleiter eines deutschsprachigen Wirtschaftsmediums.

Bewerte diese Artikel-Idee:
"%s"

Datenlage laut Recherche:
%s

Bewerte die Idee auf vier Dimensionen (jeweils 0-100):
- aktualitaet: Passt die Idee zur aktuellen Nachrichtenlage?
- nachfrage: Gibt es erkennbare Suchnachfrage zu dem Thema?
- einzigartigkeit: Bietet die Idee einen Blickwinkel, den die Konkurrenz nicht schon abdeckt?
- relevanz: Passt die Idee zu einem Wirtschaftsmedium und seiner Zielgruppe?

Antworte AUSSCHLIESSLICH mit validem JSON:
{
  "scores": {"aktualitaet": 0, "nachfrage": 0, "einzigartigkeit": 0, "relevanz": 0},
  "pros": ["konkretes Argument für die Idee"],
  "cons": ["konkretes Argument gegen die Idee"],
  "recommendation": "2-3 Sätze: wie sollte die Redaktion mit der Idee umgehen?"
}`, idea, contextNotes)

	var resp judgeResponse
	if err := g.GenerateJSON(ctx, "", prompt, 0.3, &resp); err != nil {
		return model.IdeaVerdict{}, fmt.Errorf("idea judge: %w", err)
	}

	s := resp.Scores
	mean := float64(s.Aktualitaet+s.Nachfrage+s.Einzigartigkeit+s.Relevanz) / 4.0
	score := int(math.Round(mean))

	verdict := "Nicht empfohlen"
	switch {
	case score >= 70:
		verdict = "Empfohlen"
	case score >= 45:
		verdict = "Mit Vorbehalt"
	}

	return model.IdeaVerdict{
		Verdict:        verdict,
		Score:          score,
		Pros:           resp.Pros,
		Cons:           resp.Cons,
		Recommendation: resp.Recommendation,
	}, nil
}
