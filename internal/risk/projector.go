package risk

import (
	"math"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// Project estimates success probability for each year of the projection
// horizon, starting at startYear. Each matched event contributes its signed
// score scaled by the impact weight, decaying exponentially with the years
// elapsed since its impact start. Events that have not started by the
// target year contribute nothing. Risk is the complement of probability.
func Project(matches []model.MatchedEvent, startYear int, w ProjectionWeights) []model.ProjectionPoint {
	points := make([]model.ProjectionPoint, 0, w.HorizonYears+1)
	for year := startYear; year <= startYear+w.HorizonYears; year++ {
		var impact float64
		for _, m := range matches {
			start := m.Timelines.ImpactStart.Year()
			if start > year {
				continue
			}
			age := float64(year - start)
			impact += m.Impact.Signed() * w.ImpactWeight * math.Exp(-w.DecayRate*age)
		}
		probability := round1(clamp(w.BaseRate+impact, w.MinProbability, w.MaxProbability))
		points = append(points, model.ProjectionPoint{
			Year:        year,
			Probability: probability,
			Risk:        round1(100 - probability),
		})
	}
	return points
}
