package pipeline

import (
	"sort"

	"contentradar/internal/model"
)

var tierRank = map[model.Tier]int{
	model.TierA: 0,
	model.TierB: 1,
	model.TierC: 2,
}

// TierFor derives the data-confidence tier from how many signal slots are
// populated: 3 → A, 2 → B, otherwise C. This is the only place a tier is
// ever assigned; whatever the generation stage claims is ignored.
func TierFor(s model.Signals) model.Tier {
	switch s.Populated() {
	case 3:
		return model.TierA
	case 2:
		return model.TierB
	default:
		return model.TierC
	}
}

// ScoreIdeas assigns tiers and orders the slice A-block, B-block, C-block.
// The sort is stable: ideas of equal tier keep their original relative order.
func ScoreIdeas(ideas []model.Idea) {
	for i := range ideas {
		ideas[i].Tier = TierFor(ideas[i].Signals)
	}
	sort.SliceStable(ideas, func(i, j int) bool {
		return tierRank[ideas[i].Tier] < tierRank[ideas[j].Tier]
	})
}
