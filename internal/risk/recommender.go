package risk

import (
	"sort"
	"strings"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// Recommend suggests lower-risk areas once the computed risk crosses the
// threshold. Only areas with a base risk strictly below the current score
// qualify, the resolved area itself is never suggested, and results come
// back ascending by base risk, capped at MaxSuggestions. Table order
// breaks ties.
func Recommend(alternatives []model.Alternative, currentRisk float64, resolvedArea string, w RecommendWeights) []model.Alternative {
	if currentRisk <= w.RiskThreshold {
		return []model.Alternative{}
	}

	candidates := make([]model.Alternative, 0, len(alternatives))
	for _, alt := range alternatives {
		if alt.BaseRisk >= currentRisk {
			continue
		}
		if resolvedArea != "" && strings.EqualFold(alt.Area, resolvedArea) {
			continue
		}
		candidates = append(candidates, alt)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].BaseRisk < candidates[j].BaseRisk
	})
	if len(candidates) > w.MaxSuggestions {
		candidates = candidates[:w.MaxSuggestions]
	}
	return candidates
}
