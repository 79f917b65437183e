// Package risk implements the scoring pipeline: event matching, risk
// scoring, multi-year projection, proximity analysis, insights, and
// alternative-area recommendations.
package risk

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ScoreWeights parameterize the headline risk formula.
type ScoreWeights struct {
	Base           float64 `yaml:"base"`
	NegativeWeight float64 `yaml:"negative_weight"`
	PositiveWeight float64 `yaml:"positive_weight"`
}

// ProjectionWeights parameterize the year-by-year success projection.
type ProjectionWeights struct {
	BaseRate       float64 `yaml:"base_rate"`
	ImpactWeight   float64 `yaml:"impact_weight"`
	DecayRate      float64 `yaml:"decay_rate"`
	MinProbability float64 `yaml:"min_probability"`
	MaxProbability float64 `yaml:"max_probability"`
	HorizonYears   int     `yaml:"horizon_years"`
}

// RecommendWeights control when and how many alternative areas are offered.
type RecommendWeights struct {
	RiskThreshold  float64 `yaml:"risk_threshold"`
	MaxSuggestions int     `yaml:"max_suggestions"`
}

// LocationFactorWeights control the optional POI-density score adjustment.
// Disabled by default so the base formula is unaffected.
type LocationFactorWeights struct {
	Enabled      bool    `yaml:"enabled"`
	RadiusMeters float64 `yaml:"radius_meters"`
	PerPoint     float64 `yaml:"per_point"`
	Cap          float64 `yaml:"cap"`
}

// Weights is the full scoring configuration.
type Weights struct {
	Score          ScoreWeights          `yaml:"score"`
	Projection     ProjectionWeights     `yaml:"projection"`
	Recommend      RecommendWeights      `yaml:"recommend"`
	LocationFactor LocationFactorWeights `yaml:"location_factor"`
}

// DefaultWeights returns the built-in scoring parameters.
func DefaultWeights() Weights {
	return Weights{
		Score: ScoreWeights{
			Base:           50,
			NegativeWeight: 40,
			PositiveWeight: 30,
		},
		Projection: ProjectionWeights{
			BaseRate:       60,
			ImpactWeight:   30,
			DecayRate:      0.1,
			MinProbability: 20,
			MaxProbability: 95,
			HorizonYears:   10,
		},
		Recommend: RecommendWeights{
			RiskThreshold:  40,
			MaxSuggestions: 3,
		},
		LocationFactor: LocationFactorWeights{
			Enabled:      false,
			RadiusMeters: 1000,
			PerPoint:     0.5,
			Cap:          10,
		},
	}
}

// LoadWeights reads scoring weights from a YAML file. Fields left unset
// keep their defaults, so a partial file only overrides what it names.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrapf(err, "risk: read weights %s", path)
	}

	// The YAML has a top-level "scoring" key
	var wrapper struct {
		Scoring Weights `yaml:"scoring"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Weights{}, eris.Wrap(err, "risk: parse weights")
	}

	w := wrapper.Scoring
	d := DefaultWeights()
	if w.Score.Base == 0 {
		w.Score.Base = d.Score.Base
	}
	if w.Score.NegativeWeight == 0 {
		w.Score.NegativeWeight = d.Score.NegativeWeight
	}
	if w.Score.PositiveWeight == 0 {
		w.Score.PositiveWeight = d.Score.PositiveWeight
	}
	if w.Projection.BaseRate == 0 {
		w.Projection.BaseRate = d.Projection.BaseRate
	}
	if w.Projection.ImpactWeight == 0 {
		w.Projection.ImpactWeight = d.Projection.ImpactWeight
	}
	if w.Projection.DecayRate == 0 {
		w.Projection.DecayRate = d.Projection.DecayRate
	}
	if w.Projection.MinProbability == 0 {
		w.Projection.MinProbability = d.Projection.MinProbability
	}
	if w.Projection.MaxProbability == 0 {
		w.Projection.MaxProbability = d.Projection.MaxProbability
	}
	if w.Projection.HorizonYears == 0 {
		w.Projection.HorizonYears = d.Projection.HorizonYears
	}
	if w.Recommend.RiskThreshold == 0 {
		w.Recommend.RiskThreshold = d.Recommend.RiskThreshold
	}
	if w.Recommend.MaxSuggestions == 0 {
		w.Recommend.MaxSuggestions = d.Recommend.MaxSuggestions
	}
	if w.LocationFactor.RadiusMeters == 0 {
		w.LocationFactor.RadiusMeters = d.LocationFactor.RadiusMeters
	}
	if w.LocationFactor.PerPoint == 0 {
		w.LocationFactor.PerPoint = d.LocationFactor.PerPoint
	}
	if w.LocationFactor.Cap == 0 {
		w.LocationFactor.Cap = d.LocationFactor.Cap
	}

	return w, nil
}
