package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"contentradar/internal/model"
)

// weekSlots are the publish weekday offsets per week: Mon, Wed, Fri.
var weekSlots = []int{0, 2, 4}

const weeks = 4

var urgencyLabels = map[int]string{
	1: "Sofort",
	2: "Bald",
	3: "Geplant",
	4: "Rücklog",
}

// Entry is one planned publication.
type Entry struct {
	Idea         model.Idea `json:"idea"`
	PublishDate  time.Time  `json:"publish_date"`
	Week         int        `json:"week"`    // 1-4
	Urgency      int        `json:"urgency"` // 1-4, 1 = most urgent
	UrgencyLabel string     `json:"urgency_label"`
}

// Plan builds a 4-week editorial calendar starting next Monday. Urgency maps
// to the target week; full weeks spill forward, and a lone overfull week
// donates its lowest-priority idea to an empty following week.
func Plan(ideas []model.Idea, trends []model.TrendTopic, now time.Time) []Entry {
	if len(ideas) == 0 {
		return nil
	}

	monday := nextMonday(now)

	sorted := make([]model.Idea, len(ideas))
	copy(sorted, ideas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return urgency(sorted[i], trends) < urgency(sorted[j], trends)
	})

	slotCount := make(map[int]int, weeks)
	entries := make([]Entry, 0, len(sorted))
	for _, idea := range sorted {
		urg := urgency(idea, trends)
		week := urg
		for week <= weeks && slotCount[week] >= len(weekSlots) {
			week++
		}
		if week > weeks {
			week = weeks
		}
		slotCount[week]++

		entries = append(entries, Entry{
			Idea:         idea,
			Week:         week,
			Urgency:      urg,
			UrgencyLabel: urgencyLabels[urg],
		})
	}

	rebalance(entries)
	assignDates(entries, monday)
	return entries
}

// rebalance moves the lowest-priority idea of a week holding two or more
// into an empty following week, cascading until stable.
func rebalance(entries []Entry) {
	for changed := true; changed; {
		changed = false
		for src := 1; src < weeks; src++ {
			dst := src + 1
			var srcIdx []int
			dstCount := 0
			for i, e := range entries {
				switch e.Week {
				case src:
					srcIdx = append(srcIdx, i)
				case dst:
					dstCount++
				}
			}
			if len(srcIdx) >= 2 && dstCount == 0 {
				entries[srcIdx[len(srcIdx)-1]].Week = dst
				changed = true
				break
			}
		}
	}
}

func assignDates(entries []Entry, monday time.Time) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Week != entries[j].Week {
			return entries[i].Week < entries[j].Week
		}
		return entries[i].Urgency < entries[j].Urgency
	})

	slotCount := make(map[int]int, weeks)
	for i := range entries {
		w := entries[i].Week
		slot := slotCount[w]
		if slot >= len(weekSlots) {
			slot = len(weekSlots) - 1
		}
		weekMonday := monday.AddDate(0, 0, (w-1)*7)
		entries[i].PublishDate = weekMonday.AddDate(0, 0, weekSlots[slot])
		slotCount[w]++
	}
}

// urgency buckets an idea into its target week:
// 1 for tier A with a trending or strong RSS signal, 2 for plain tier A,
// 3 for tier B, 4 otherwise.
func urgency(idea model.Idea, trends []model.TrendTopic) int {
	switch {
	case idea.Tier == model.TierA && (isTrending(idea, trends) || hasStrongRSS(idea)):
		return 1
	case idea.Tier == model.TierA:
		return 2
	case idea.Tier == model.TierB:
		return 3
	default:
		return 4
	}
}

func isTrending(idea model.Idea, trends []model.TrendTopic) bool {
	title := strings.ToLower(idea.Title)
	signals := strings.ToLower(idea.Signals.GA4 + " " + idea.Signals.GSC + " " + idea.Signals.RSS)
	for _, t := range trends {
		kw := strings.ToLower(t.Keyword)
		if kw != "" && (strings.Contains(title, kw) || strings.Contains(signals, kw)) {
			return true
		}
	}
	return false
}

func hasStrongRSS(idea model.Idea) bool {
	return len(idea.Signals.RSS) > 20
}

// WeekLabel renders a week as a date-range label like "03.03-07.03".
func WeekLabel(week int, monday time.Time) string {
	weekMonday := monday.AddDate(0, 0, (week-1)*7)
	weekFriday := weekMonday.AddDate(0, 0, 4)
	return fmt.Sprintf("%s-%s", weekMonday.Format("02.01"), weekFriday.Format("02.01"))
}

// NextMonday returns the Monday of the week after now; a Monday input still
// advances a full week.
func NextMonday(now time.Time) time.Time {
	return nextMonday(now)
}

func nextMonday(now time.Time) time.Time {
	offset := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	d := now.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
