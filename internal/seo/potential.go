package seo

import (
	"sort"
	"strings"

	"contentradar/internal/model"
)

// ctrBenchmarks maps SERP position to expected click-through rate.
var ctrBenchmarks = map[int]float64{
	1: 0.278, 2: 0.158, 3: 0.110, 4: 0.079, 5: 0.058,
	6: 0.043, 7: 0.033, 8: 0.026, 9: 0.020, 10: 0.016,
	11: 0.012, 12: 0.010, 15: 0.007, 20: 0.004,
}

const (
	maxTotalPotential = 5000 // plausible monthly upper bound
	targetPosition    = 3
	monthlyScale      = 30.0 / 7.0 // GSC window is 7 days
)

// CalculatePotential estimates the monthly traffic headroom in the GSC data.
// Fast-rankers are pages at position 4-15 that could jump to position 3;
// CTR gaps are queries clicking far below the benchmark for their position.
func CalculatePotential(pages []model.PageRank, queries []model.QueryStat) model.SEOPotential {
	var opportunities []model.SEOOpportunity

	fastRankerTotal := 0
	for _, page := range pages {
		if page.Position < 4 || page.Position > 15 || page.Impressions == 0 {
			continue
		}
		deltaCTR := ctrBenchmarks[targetPosition] - ctrForPosition(page.Position)
		if deltaCTR <= 0 {
			continue
		}
		monthlyDelta := int(float64(page.Impressions) * deltaCTR * monthlyScale)
		if monthlyDelta <= 0 {
			continue
		}
		fastRankerTotal += monthlyDelta
		opportunities = append(opportunities, model.SEOOpportunity{
			Type:            "fast_ranker",
			Label:           pageLabel(page.Page),
			URL:             page.Page,
			CurrentPosition: page.Position,
			TargetPosition:  targetPosition,
			MonthlyDelta:    monthlyDelta,
		})
	}

	ctrGapTotal := 0
	for _, query := range queries {
		if query.Position >= 20 || query.Impressions == 0 || query.CTR >= 3.0 {
			continue
		}
		deltaCTR := ctrForPosition(query.Position) - query.CTR/100
		if deltaCTR <= 0 {
			continue
		}
		monthlyDelta := int(float64(query.Impressions) * deltaCTR * monthlyScale)
		if monthlyDelta <= 0 {
			continue
		}
		ctrGapTotal += monthlyDelta
		opportunities = append(opportunities, model.SEOOpportunity{
			Type:            "ctr_gap",
			Label:           truncateLabel(query.Query),
			Keyword:         query.Query,
			CurrentPosition: query.Position,
			CurrentCTR:      query.CTR,
			MonthlyDelta:    monthlyDelta,
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].MonthlyDelta > opportunities[j].MonthlyDelta
	})
	if len(opportunities) > 5 {
		opportunities = opportunities[:5]
	}

	return model.SEOPotential{
		FastRanker:       capTotal(fastRankerTotal),
		CTRGap:           capTotal(ctrGapTotal),
		Total:            capTotal(fastRankerTotal + ctrGapTotal),
		TopOpportunities: opportunities,
	}
}

// ctrForPosition interpolates the benchmark CTR for a fractional position.
func ctrForPosition(pos float64) float64 {
	positions := make([]int, 0, len(ctrBenchmarks))
	for p := range ctrBenchmarks {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	if pos <= float64(positions[0]) {
		return ctrBenchmarks[positions[0]]
	}
	if pos >= float64(positions[len(positions)-1]) {
		return ctrBenchmarks[positions[len(positions)-1]]
	}

	lower, upper := positions[0], positions[len(positions)-1]
	for _, p := range positions {
		if float64(p) <= pos {
			lower = p
		}
		if float64(p) >= pos && upper == positions[len(positions)-1] {
			upper = p
			break
		}
	}
	if lower == upper {
		return ctrBenchmarks[lower]
	}
	frac := (pos - float64(lower)) / float64(upper-lower)
	return ctrBenchmarks[lower] + frac*(ctrBenchmarks[upper]-ctrBenchmarks[lower])
}

func capTotal(v int) int {
	if v > maxTotalPotential {
		return maxTotalPotential
	}
	return v
}

// pageLabel derives a short label from the last URL path segment.
func pageLabel(pageURL string) string {
	trimmed := strings.TrimRight(pageURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 && idx < len(trimmed)-1 {
		return truncateLabel(trimmed[idx+1:])
	}
	return truncateLabel(pageURL)
}

func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) > 60 {
		return string(runes[:60])
	}
	return s
}
