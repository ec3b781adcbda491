package calendar

import (
	"testing"
	"time"

	"contentradar/internal/model"
)

// Thursday, so next Monday is 2026-03-09.
var testNow = time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC)

func idea(title string, tier model.Tier, rss string) model.Idea {
	return model.Idea{
		Title:   title,
		Tier:    tier,
		Signals: model.Signals{RSS: rss},
	}
}

func TestNextMonday(t *testing.T) {
	got := NextMonday(testNow)
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("next monday = %v, want %v", got, want)
	}

	// A Monday input still advances a full week.
	got = NextMonday(want)
	if !got.Equal(want.AddDate(0, 0, 7)) {
		t.Fatalf("next monday from a monday = %v, want %v", got, want.AddDate(0, 0, 7))
	}
}

func TestPlanUrgencyBuckets(t *testing.T) {
	trends := []model.TrendTopic{{Keyword: "Hypothek", Value: 80, Rank: 1}}
	ideas := []model.Idea{
		idea("Hypothek verlängern: die Optionen", model.TierA, ""),
		idea("Stilles Dauerthema", model.TierA, ""),
		idea("Solides B-Thema", model.TierB, ""),
		idea("Restliste", model.TierC, ""),
	}

	entries := Plan(ideas, trends, testNow)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	byTitle := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byTitle[e.Idea.Title] = e
	}

	cases := []struct {
		title   string
		urgency int
		label   string
	}{
		{"Hypothek verlängern: die Optionen", 1, "Sofort"},
		{"Stilles Dauerthema", 2, "Bald"},
		{"Solides B-Thema", 3, "Geplant"},
		{"Restliste", 4, "Rücklog"},
	}
	for _, tc := range cases {
		e, ok := byTitle[tc.title]
		if !ok {
			t.Fatalf("idea %q missing from calendar", tc.title)
		}
		if e.Urgency != tc.urgency || e.UrgencyLabel != tc.label {
			t.Errorf("%q: urgency=%d label=%q, want %d %q", tc.title, e.Urgency, e.UrgencyLabel, tc.urgency, tc.label)
		}
		if e.Week != tc.urgency {
			t.Errorf("%q: week=%d, want %d", tc.title, e.Week, tc.urgency)
		}
	}
}

func TestPlanStrongRSSSignalPromotes(t *testing.T) {
	ideas := []model.Idea{
		idea("A-Thema mit Nachrichtenlage", model.TierA, "mehrere Leitmedien berichten aktuell darüber"),
	}
	entries := Plan(ideas, nil, testNow)
	if entries[0].Urgency != 1 {
		t.Fatalf("strong RSS signal should give urgency 1, got %d", entries[0].Urgency)
	}
}

func TestPlanWeekOverflow(t *testing.T) {
	// Five urgency-1 ideas exceed the three weekly slots. Two spill to
	// week 2, and the rebalance pass donates one of those to the still
	// empty week 3.
	var ideas []model.Idea
	for i := 0; i < 5; i++ {
		ideas = append(ideas, idea("Hypothek "+string(rune('a'+i)), model.TierA, "starkes Signal aus den Feeds"))
	}

	entries := Plan(ideas, nil, testNow)
	weekCount := make(map[int]int)
	for _, e := range entries {
		weekCount[e.Week]++
	}
	if weekCount[1] != 3 || weekCount[2] != 1 || weekCount[3] != 1 {
		t.Fatalf("expected weeks 3/1/1, got %v", weekCount)
	}
}

func TestPlanRebalanceFillsEmptyWeek(t *testing.T) {
	// Two urgency-1 ideas and nothing for week 2: one moves forward so the
	// calendar has no gap.
	ideas := []model.Idea{
		idea("Erstes Top-Thema", model.TierA, "starkes Signal aus den Feeds"),
		idea("Zweites Top-Thema", model.TierA, "starkes Signal aus den Feeds"),
	}

	entries := Plan(ideas, nil, testNow)
	weekCount := make(map[int]int)
	for _, e := range entries {
		weekCount[e.Week]++
	}
	if weekCount[1] != 1 || weekCount[2] != 1 {
		t.Fatalf("expected rebalance into week 2, got %v", weekCount)
	}
}

func TestPlanPublishDates(t *testing.T) {
	ideas := []model.Idea{
		idea("Montag", model.TierA, "starkes Signal aus den Feeds"),
		idea("Mittwoch", model.TierB, ""),
		idea("Freitag", model.TierC, ""),
	}

	entries := Plan(ideas, nil, testNow)
	monday := NextMonday(testNow)

	for _, e := range entries {
		wantMonday := monday.AddDate(0, 0, (e.Week-1)*7)
		switch e.PublishDate.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		default:
			t.Errorf("%q published on %v, want Mon/Wed/Fri", e.Idea.Title, e.PublishDate.Weekday())
		}
		if e.PublishDate.Before(wantMonday) || e.PublishDate.After(wantMonday.AddDate(0, 0, 4)) {
			t.Errorf("%q published %v, outside week %d", e.Idea.Title, e.PublishDate, e.Week)
		}
	}
}

func TestPlanEmptyIdeas(t *testing.T) {
	if entries := Plan(nil, nil, testNow); entries != nil {
		t.Fatalf("expected nil calendar for no ideas, got %v", entries)
	}
}

func TestWeekLabel(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := WeekLabel(1, monday); got != "09.03-13.03" {
		t.Errorf("week 1 label = %q", got)
	}
	if got := WeekLabel(2, monday); got != "16.03-20.03" {
		t.Errorf("week 2 label = %q", got)
	}
}
