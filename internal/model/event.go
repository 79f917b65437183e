package model

import "github.com/rotisserie/eris"

// Sentiment classifies the direction of an event's impact on nearby businesses.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
)

// Impact describes how strongly and how widely an event affects its surroundings.
type Impact struct {
	Sentiment       Sentiment `json:"sentiment"`
	Score           float64   `json:"score"`
	RadiusMeters    float64   `json:"radiusMeters"`
	AffectedSectors []string  `json:"affectedSectors"`
}

// Signed returns the impact score with the sentiment's sign applied.
func (i Impact) Signed() float64 {
	if i.Sentiment == SentimentNegative {
		return -i.Score
	}
	return i.Score
}

// Timelines holds the dates that bound an event's effect.
type Timelines struct {
	ImpactStart Date `json:"impactStart"`
}

// Event is a planned or announced development that shifts business risk around it.
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Location    Coordinate `json:"location"`
	Impact      Impact     `json:"impact"`
	Timelines   Timelines  `json:"timelines"`
}

// Validate checks the dataset invariants for a single event record.
func (e Event) Validate() error {
	if e.Name == "" {
		return eris.New("model: event name is empty")
	}
	if e.Impact.Sentiment != SentimentPositive && e.Impact.Sentiment != SentimentNegative {
		return eris.Errorf("model: event %q: unknown sentiment %q", e.Name, e.Impact.Sentiment)
	}
	if e.Impact.Score < 0 || e.Impact.Score > 1 {
		return eris.Errorf("model: event %q: score %.2f outside [0,1]", e.Name, e.Impact.Score)
	}
	if e.Impact.RadiusMeters <= 0 {
		return eris.Errorf("model: event %q: non-positive radius", e.Name)
	}
	if e.Timelines.ImpactStart.IsZero() {
		return eris.Errorf("model: event %q: missing impact start date", e.Name)
	}
	return nil
}

// How a matched event was selected.
const (
	MatchedByRadius = "radius"
	MatchedBySector = "sector"
)

// MatchedEvent is an event that matched an analysis site, annotated with the
// computed great-circle distance and the rule that selected it.
type MatchedEvent struct {
	Event
	DistanceMeters float64 `json:"distanceMeters"`
	MatchedBy      string  `json:"matchedBy"`
}
