package risk

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vyapar-labs/siterisk/internal/dataset"
	"github.com/vyapar-labs/siterisk/internal/geocode"
	"github.com/vyapar-labs/siterisk/internal/model"
)

// Analyzer runs the full analysis pipeline for one request. All
// collaborators are injected; the analyzer holds no mutable state and is
// safe for concurrent use.
type Analyzer struct {
	provider dataset.Provider
	cascade  *geocode.Cascade
	weights  Weights
	nowFunc  func() time.Time
}

// NewAnalyzer wires the analyzer to its dataset provider, geocode cascade,
// and scoring weights.
func NewAnalyzer(provider dataset.Provider, cascade *geocode.Cascade, weights Weights) *Analyzer {
	return &Analyzer{
		provider: provider,
		cascade:  cascade,
		weights:  weights,
		nowFunc:  time.Now,
	}
}

// Analyze resolves the requested location, matches events against it, and
// assembles the score, projection, proximity report, insights, and
// alternative suggestions into one result.
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loc := a.cascade.Resolve(ctx, geocode.Query{Location: req.Location, Pincode: req.Pincode})
	site := loc.Coordinate()

	events, err := a.provider.Events(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "risk: load events")
	}
	pois, err := a.provider.POIs(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "risk: load pois")
	}
	alternatives, err := a.provider.Alternatives(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "risk: load alternatives")
	}

	matches := Match(events, site, req.BusinessType)
	nearby := Nearby(pois, site)
	locationFactor := LocationFactor(pois, site, a.weights.LocationFactor)
	score := ComputeScore(matches, locationFactor, a.weights.Score)
	now := a.nowFunc()

	analysis := &model.Analysis{
		RiskScore:      score.Score,
		RiskLevel:      score.Level,
		Formula:        score.Formula,
		Location:       loc,
		Events:         matches,
		PositiveCount:  score.PositiveCount,
		NegativeCount:  score.NegativeCount,
		ProjectionData: Project(matches, now.Year(), a.weights.Projection),
		Alternatives:   Recommend(alternatives, score.Score, loc.Area, a.weights.Recommend),
		Nearby:         nearby,
		Proximity:      Proximity(nearby, req.BusinessType),
		Insights:       Insights(matches, nearby, req.BusinessType),
		LocationFactor: locationFactor,
		BusinessType:   req.BusinessType,
		AnalyzedAt:     now,
	}

	zap.L().Info("analysis complete",
		zap.String("business_type", req.BusinessType),
		zap.String("area", loc.Area),
		zap.String("source", loc.Source),
		zap.Float64("risk_score", analysis.RiskScore),
		zap.String("risk_level", string(analysis.RiskLevel)),
		zap.Int("matched_events", len(matches)))

	return analysis, nil
}
