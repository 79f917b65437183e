package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vyapar-labs/siterisk/internal/model"
)

func matchWith(sentiment model.Sentiment, score float64) model.MatchedEvent {
	return model.MatchedEvent{
		Event: model.Event{
			Impact: model.Impact{Sentiment: sentiment, Score: score},
		},
		MatchedBy: model.MatchedByRadius,
	}
}

func TestComputeScore_NoMatches(t *testing.T) {
	got := ComputeScore(nil, 0, DefaultWeights().Score)

	assert.Equal(t, 50.0, got.Score)
	assert.Equal(t, model.RiskModerate, got.Level)
	assert.Equal(t, "base(50) + avgNegative*40 - avgPositive*30", got.Formula)
	assert.Zero(t, got.PositiveCount)
	assert.Zero(t, got.NegativeCount)
}

func TestComputeScore_SingleNegative(t *testing.T) {
	matches := []model.MatchedEvent{matchWith(model.SentimentNegative, 0.8)}

	got := ComputeScore(matches, 0, DefaultWeights().Score)

	assert.Equal(t, 82.0, got.Score, "50 + 0.8*40")
	assert.Equal(t, model.RiskVeryHigh, got.Level)
	assert.Zero(t, got.PositiveCount)
	assert.Equal(t, 1, got.NegativeCount)
}

func TestComputeScore_MixedSentiments(t *testing.T) {
	matches := []model.MatchedEvent{
		matchWith(model.SentimentNegative, 0.6),
		matchWith(model.SentimentNegative, 0.8),
		matchWith(model.SentimentPositive, 0.5),
	}

	got := ComputeScore(matches, 0, DefaultWeights().Score)

	// 50 + avg(0.6,0.8)*40 - 0.5*30 = 50 + 28 - 15
	assert.Equal(t, 63.0, got.Score)
	assert.Equal(t, model.RiskHigh, got.Level)
	assert.Equal(t, 1, got.PositiveCount)
	assert.Equal(t, 2, got.NegativeCount)
}

func TestComputeScore_ClampsToRange(t *testing.T) {
	w := DefaultWeights().Score

	w.Base = 80
	high := ComputeScore([]model.MatchedEvent{matchWith(model.SentimentNegative, 1.0)}, 0, w)
	assert.Equal(t, 100.0, high.Score)
	assert.Equal(t, model.RiskVeryHigh, high.Level)

	w.Base = 20
	low := ComputeScore([]model.MatchedEvent{matchWith(model.SentimentPositive, 1.0)}, 0, w)
	assert.Equal(t, 0.0, low.Score)
	assert.Equal(t, model.RiskLow, low.Level)
}

func TestComputeScore_LocationFactorRaisesScoreAndFormula(t *testing.T) {
	got := ComputeScore(nil, 2.5, DefaultWeights().Score)

	assert.Equal(t, 52.5, got.Score)
	assert.Equal(t, "base(50) + avgNegative*40 - avgPositive*30 + locationFactor(2.5)", got.Formula)
}

func TestComputeScore_CustomWeightsInFormula(t *testing.T) {
	w := ScoreWeights{Base: 55, NegativeWeight: 35, PositiveWeight: 25}

	got := ComputeScore(nil, 0, w)

	assert.Equal(t, 55.0, got.Score)
	assert.Equal(t, "base(55) + avgNegative*35 - avgPositive*25", got.Formula)
}

func TestComputeScore_RoundsToTwoDecimals(t *testing.T) {
	// 50 + avg(0.333)*40 = 63.32
	matches := []model.MatchedEvent{matchWith(model.SentimentNegative, 0.333)}

	got := ComputeScore(matches, 0, DefaultWeights().Score)

	assert.Equal(t, 63.32, got.Score)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  model.RiskLevel
	}{
		{0, model.RiskLow},
		{29.99, model.RiskLow},
		{30, model.RiskModerate},
		{49.99, model.RiskModerate},
		{50, model.RiskHigh},
		{69.99, model.RiskHigh},
		{70, model.RiskVeryHigh},
		{100, model.RiskVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score), "score %.2f", tt.score)
	}
}
