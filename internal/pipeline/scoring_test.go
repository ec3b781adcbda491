package pipeline

import (
	"testing"

	"contentradar/internal/model"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		signals model.Signals
		want    model.Tier
	}{
		{model.Signals{GA4: "a", GSC: "b", RSS: "c"}, model.TierA},
		{model.Signals{GA4: "a", GSC: "b"}, model.TierB},
		{model.Signals{GA4: "", GSC: "b", RSS: "c"}, model.TierB},
		{model.Signals{GSC: "b"}, model.TierC},
		{model.Signals{}, model.TierC},
	}
	for _, tc := range cases {
		if got := TierFor(tc.signals); got != tc.want {
			t.Errorf("TierFor(%+v) = %q, want %q", tc.signals, got, tc.want)
		}
	}
}

func TestScoreIdeasOverridesClaimedTier(t *testing.T) {
	ideas := []model.Idea{
		{Title: "nur ein Signal", Signals: model.Signals{RSS: "x"}, Tier: model.TierA},
	}
	ScoreIdeas(ideas)
	if ideas[0].Tier != model.TierC {
		t.Errorf("tier = %q, want C regardless of the generator's claim", ideas[0].Tier)
	}
}

func TestScoreIdeasStableSort(t *testing.T) {
	full := model.Signals{GA4: "a", GSC: "b", RSS: "c"}
	two := model.Signals{GA4: "a", GSC: "b"}
	one := model.Signals{RSS: "c"}

	ideas := []model.Idea{
		{Title: "c1", Signals: one},
		{Title: "b1", Signals: two},
		{Title: "a1", Signals: full},
		{Title: "b2", Signals: two},
		{Title: "a2", Signals: full},
		{Title: "c2", Signals: one},
	}
	ScoreIdeas(ideas)

	want := []string{"a1", "a2", "b1", "b2", "c1", "c2"}
	for i, title := range want {
		if ideas[i].Title != title {
			t.Fatalf("position %d = %q, want %q (full order %v)", i, ideas[i].Title, title, titles(ideas))
		}
	}
}

func titles(ideas []model.Idea) []string {
	out := make([]string, len(ideas))
	for i, idea := range ideas {
		out[i] = idea.Title
	}
	return out
}
