package risk

import (
	"fmt"
	"math"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// ScoreResult is the headline score with the inputs that shaped it.
type ScoreResult struct {
	Score         float64
	Level         model.RiskLevel
	Formula       string
	PositiveCount int
	NegativeCount int
}

// ComputeScore applies the linear risk formula to the matched events.
// Negative sentiment raises risk, positive sentiment lowers it, each
// weighted by the mean absolute score of its side. The optional location
// factor is a non-negative adjustment computed in LocationFactor.
func ComputeScore(matches []model.MatchedEvent, locationFactor float64, w ScoreWeights) ScoreResult {
	var posSum, negSum float64
	var posN, negN int
	for _, m := range matches {
		switch m.Impact.Sentiment {
		case model.SentimentPositive:
			posSum += math.Abs(m.Impact.Score)
			posN++
		case model.SentimentNegative:
			negSum += math.Abs(m.Impact.Score)
			negN++
		}
	}

	var avgPos, avgNeg float64
	if posN > 0 {
		avgPos = posSum / float64(posN)
	}
	if negN > 0 {
		avgNeg = negSum / float64(negN)
	}

	score := w.Base + avgNeg*w.NegativeWeight - avgPos*w.PositiveWeight + locationFactor
	score = round2(clamp(score, 0, 100))

	formula := fmt.Sprintf("base(%g) + avgNegative*%g - avgPositive*%g",
		w.Base, w.NegativeWeight, w.PositiveWeight)
	if locationFactor > 0 {
		formula += fmt.Sprintf(" + locationFactor(%g)", locationFactor)
	}

	return ScoreResult{
		Score:         score,
		Level:         LevelFor(score),
		Formula:       formula,
		PositiveCount: posN,
		NegativeCount: negN,
	}
}

// LevelFor buckets a score into a risk level. Boundaries are inclusive on
// the high side: exactly 30 is Moderate, 50 is High, 70 is Very High.
func LevelFor(score float64) model.RiskLevel {
	switch {
	case score < 30:
		return model.RiskLow
	case score < 50:
		return model.RiskModerate
	case score < 70:
		return model.RiskHigh
	default:
		return model.RiskVeryHigh
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
