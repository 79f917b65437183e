package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// RiskLevel buckets a 0-100 risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// AnalysisRequest is the input to a location risk analysis.
type AnalysisRequest struct {
	BusinessType string `json:"businessType"`
	Location     string `json:"location"`
	Pincode      string `json:"pincode,omitempty"`
}

// Validate checks the required request fields. Messages are user-facing.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.BusinessType) == "" {
		return eris.New("businessType is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		return eris.New("location is required")
	}
	return nil
}

// ProjectionPoint is one year of the success-probability forecast.
type ProjectionPoint struct {
	Year        int     `json:"year"`
	Probability float64 `json:"probability"`
	Risk        float64 `json:"risk"`
}

// InsightType labels the tone of a generated insight.
type InsightType string

const (
	InsightWarning     InsightType = "warning"
	InsightOpportunity InsightType = "opportunity"
	InsightInfo        InsightType = "info"
)

// Insight is a human-readable takeaway derived from the analysis.
type Insight struct {
	Type    InsightType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// ProximityFactor is one contributing component of the proximity score.
type ProximityFactor struct {
	Factor string  `json:"factor"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
}

// ProximityReport summarizes how well nearby infrastructure supports the
// requested business type.
type ProximityReport struct {
	Score    float64           `json:"score"`
	MaxScore float64           `json:"maxScore"`
	Percent  float64           `json:"percent"`
	Factors  []ProximityFactor `json:"factors"`
}

// Analysis is the complete result of a location risk analysis.
type Analysis struct {
	RiskScore      float64              `json:"riskScore"`
	RiskLevel      RiskLevel            `json:"riskLevel"`
	Formula        string               `json:"formula"`
	Location       ResolvedLocation     `json:"location"`
	Events         []MatchedEvent       `json:"events"`
	PositiveCount  int                  `json:"positiveCount"`
	NegativeCount  int                  `json:"negativeCount"`
	ProjectionData []ProjectionPoint    `json:"projectionData"`
	Alternatives   []Alternative        `json:"alternatives"`
	Nearby         NearbyInfrastructure `json:"nearby"`
	Proximity      ProximityReport      `json:"proximity"`
	Insights       []Insight            `json:"insights"`
	LocationFactor float64              `json:"locationFactor"`
	BusinessType   string               `json:"businessType"`
	AnalyzedAt     time.Time            `json:"analyzedAt"`
}

// DatasetStatus reports what a dataset provider loaded and from where.
type DatasetStatus struct {
	Source   string         `json:"source"`
	Counts   map[string]int `json:"datasets"`
	Degraded bool           `json:"degraded"`
	Warnings []string       `json:"warnings,omitempty"`
}
