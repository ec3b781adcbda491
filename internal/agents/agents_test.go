package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"contentradar/internal/model"
)

// fakeGenerator returns canned responses and records the prompts it saw.
type fakeGenerator struct {
	response string
	err      error

	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, system, user string, temperature float32) (string, error) {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, system, user string, temperature float32, out any) error {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func (f *fakeGenerator) Stream(ctx context.Context, system, user string, temperature float32, onText func(string)) (string, error) {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	if onText != nil {
		// Two growing prefixes, the way a streaming model reports progress.
		half := len(f.response) / 2
		onText(f.response[:half])
		onText(f.response)
	}
	return f.response, nil
}

func (f *fakeGenerator) lastPrompt() string {
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func TestEvaluateRecomputesOverall(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"scores": {"authentizitaet": 90, "tiefe": 85, "klarheit": 70, "relevanz": 60},
		"overall": 99,
		"passed": true,
		"feedback": "1. Mehr Zahlen im zweiten Abschnitt."
	}`}

	eval, err := Evaluate(context.Background(), gen, model.Article{Title: "Test"}, "", 80)
	if err != nil {
		t.Fatal(err)
	}

	// Mean of 90/85/70/60 is 76.25, rounded to 76. The model's own claims
	// about overall and passed are discarded.
	if eval.Overall != 76 {
		t.Errorf("overall = %d, want 76", eval.Overall)
	}
	if eval.Passed {
		t.Error("passed = true despite overall below threshold")
	}
	if eval.Feedback == "" {
		t.Error("feedback cleared although the gate did not pass")
	}
}

func TestEvaluatePassClearsFeedback(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"scores": {"authentizitaet": 90, "tiefe": 85, "klarheit": 80, "relevanz": 85},
		"feedback": "Kleinigkeiten."
	}`}

	eval, err := Evaluate(context.Background(), gen, model.Article{Title: "Test"}, "", 80)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Overall != 85 {
		t.Errorf("overall = %d, want 85", eval.Overall)
	}
	if !eval.Passed {
		t.Error("expected a pass at overall 85, threshold 80")
	}
	if eval.Feedback != "" {
		t.Errorf("feedback = %q, want empty on pass", eval.Feedback)
	}
}

func TestEditorWrapperKeys(t *testing.T) {
	for _, key := range []string{"ideas", "items", "results", "content_ideas"} {
		gen := &fakeGenerator{response: `{"` + key + `": [
			{"title": "Hypothek verlängern", "why_now": "Zinsentscheid", "category": "Ratgeber",
			 "signals": {"ga4": "", "gsc": "starke Nachfrage", "rss": "mehrere Artikel"}}
		]}`}

		ideas, err := Editor(context.Background(), gen, "Stratege-Output", nil, 5)
		if err != nil {
			t.Fatalf("key %q: %v", key, err)
		}
		if len(ideas) != 1 || ideas[0].Title != "Hypothek verlängern" {
			t.Fatalf("key %q: unexpected ideas %+v", key, ideas)
		}
		if ideas[0].Tier != "" {
			t.Errorf("key %q: editor must not assign tiers, got %q", key, ideas[0].Tier)
		}
	}
}

func TestEditorRejectsEmptyList(t *testing.T) {
	gen := &fakeGenerator{response: `{"ideas": []}`}
	if _, err := Editor(context.Background(), gen, "x", nil, 5); err == nil {
		t.Fatal("expected an error for an empty ideas list")
	}

	gen = &fakeGenerator{response: `{"something_else": true}`}
	if _, err := Editor(context.Background(), gen, "x", nil, 5); err == nil {
		t.Fatal("expected an error when no known wrapper key is present")
	}
}

func TestEditorListsFetchedArticles(t *testing.T) {
	gen := &fakeGenerator{response: `{"ideas": [{"title": "T"}]}`}
	articles := []model.FeedArticle{
		{Source: "NZZ", Title: "SNB senkt den Leitzins", URL: "https://nzz.ch/snb"},
		{Source: "SRF", Title: "Ohne URL wird ausgelassen"},
	}

	if _, err := Editor(context.Background(), gen, "Stratege-Output", articles, 5); err != nil {
		t.Fatal(err)
	}
	prompt := gen.lastPrompt()
	if !strings.Contains(prompt, "https://nzz.ch/snb") || !strings.Contains(prompt, "SNB senkt den Leitzins") {
		t.Error("fetched articles missing from editor prompt")
	}
	if strings.Contains(prompt, "Ohne URL wird ausgelassen") {
		t.Error("article without URL must not be offered as a link source")
	}
}

func TestFactCheckBackfillsMissingFields(t *testing.T) {
	draft := model.Article{
		Title:           "Original",
		Lead:            "Originaler Lead.",
		Sections:        []model.Section{{Heading: "H", Content: "C"}},
		MetaDescription: "Meta.",
	}
	gen := &fakeGenerator{response: `{"title": "Korrigiert"}`}

	got, err := FactCheck(context.Background(), gen, draft, "Notizen")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Korrigiert" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Lead != draft.Lead || len(got.Sections) != 1 || got.MetaDescription != draft.MetaDescription {
		t.Errorf("missing fields not backfilled from draft: %+v", got)
	}
}

func TestWriterCarriesRevisionFeedback(t *testing.T) {
	gen := &fakeGenerator{response: `{"title": "T", "lead": "L", "sections": [{"heading": "H", "content": "C"}]}`}

	_, err := Writer(context.Background(), gen, WriterInput{
		Idea:             model.Idea{Title: "Thema"},
		RevisionFeedback: "1. Lead zu vage.",
		TargetWords:      1200,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.lastPrompt(), "Lead zu vage") {
		t.Error("revision feedback missing from writer prompt")
	}
}

func TestResearcherSeesSearchQueries(t *testing.T) {
	gen := &fakeGenerator{response: "Notizen."}
	queries := []model.QueryStat{
		{Query: "hypothek verlängern zinsen", Impressions: 1800, Clicks: 25, CTR: 1.4, Position: 8.2},
	}

	_, err := Researcher(context.Background(), gen, model.Idea{Title: "Thema"}, nil, queries)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.lastPrompt(), "hypothek verlängern zinsen") {
		t.Error("search queries missing from researcher prompt")
	}
}

func TestWriterRejectsEmptyArticle(t *testing.T) {
	gen := &fakeGenerator{response: `{}`}
	if _, err := Writer(context.Background(), gen, WriterInput{Idea: model.Idea{Title: "Thema"}}); err == nil {
		t.Fatal("expected an error for an empty article response")
	}
}

func TestJudgeIdeaVerdictMapping(t *testing.T) {
	cases := []struct {
		scores  string
		verdict string
		score   int
	}{
		{`{"aktualitaet": 80, "nachfrage": 75, "einzigartigkeit": 70, "relevanz": 75}`, "Empfohlen", 75},
		{`{"aktualitaet": 50, "nachfrage": 50, "einzigartigkeit": 40, "relevanz": 50}`, "Mit Vorbehalt", 48},
		{`{"aktualitaet": 30, "nachfrage": 20, "einzigartigkeit": 40, "relevanz": 30}`, "Nicht empfohlen", 30},
	}

	for _, tc := range cases {
		gen := &fakeGenerator{response: `{"scores": ` + tc.scores + `, "pros": ["p"], "cons": ["c"], "recommendation": "r"}`}
		v, err := JudgeIdea(context.Background(), gen, "Idee", "Lage")
		if err != nil {
			t.Fatal(err)
		}
		if v.Score != tc.score || v.Verdict != tc.verdict {
			t.Errorf("scores %s: got %d %q, want %d %q", tc.scores, v.Score, v.Verdict, tc.score, tc.verdict)
		}
	}
}

func TestStreamingAgentsForwardAccumulatedText(t *testing.T) {
	gen := &fakeGenerator{response: "Analyse der Performance-Daten."}

	var seen []string
	out, err := Analyst(context.Background(), gen, AnalystInput{}, func(accumulated string) {
		seen = append(seen, accumulated)
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != gen.response {
		t.Errorf("final output %q", out)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 observer calls, got %d", len(seen))
	}
	if !strings.HasPrefix(seen[1], seen[0]) {
		t.Error("observer calls are not growing prefixes")
	}
	if seen[1] != gen.response {
		t.Error("last observed text differs from final output")
	}
}

func TestAgentErrorsWrapStageName(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}

	if _, err := Editor(context.Background(), gen, "x", nil, 5); err == nil || !strings.Contains(err.Error(), "editor") {
		t.Errorf("editor error = %v", err)
	}
	if _, err := Researcher(context.Background(), gen, model.Idea{}, nil, nil); err == nil || !strings.Contains(err.Error(), "researcher") {
		t.Errorf("researcher error = %v", err)
	}
}
