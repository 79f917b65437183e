package risk

import (
	"fmt"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// Insights derives advisory notes from the matched events and nearby
// infrastructure. Rules fire in a fixed order so output is deterministic:
// worst negative event, best positive event, transit access, foot traffic,
// student market, and finally a warning when no infrastructure is nearby.
func Insights(matches []model.MatchedEvent, nearby model.NearbyInfrastructure, businessType string) []model.Insight {
	insights := make([]model.Insight, 0, 6)

	if worst := pickBySentiment(matches, model.SentimentNegative); worst != nil {
		insights = append(insights, model.Insight{
			Type:    model.InsightWarning,
			Title:   "Disruption Risk",
			Message: eventMessage(worst, "starting"),
		})
	}
	if best := pickBySentiment(matches, model.SentimentPositive); best != nil {
		insights = append(insights, model.Insight{
			Type:    model.InsightOpportunity,
			Title:   "Growth Opportunity",
			Message: eventMessage(best, "expected by"),
		})
	}

	if n := metrosWithinKm(nearby.Metros, 1.0); n > 0 {
		insights = append(insights, model.Insight{
			Type:    model.InsightInfo,
			Title:   "Strong Transit Access",
			Message: fmt.Sprintf("%d metro station(s) within 1 km. Easy customer access.", n),
		})
	}
	if mallRelevant(businessType) && len(nearby.Malls) >= 2 {
		insights = append(insights, model.Insight{
			Type:    model.InsightOpportunity,
			Title:   "Established Foot Traffic",
			Message: fmt.Sprintf("%d shopping destinations nearby draw steady footfall.", len(nearby.Malls)),
		})
	}
	if collegeRelevant(businessType) && len(nearby.Colleges) >= 1 {
		insights = append(insights, model.Insight{
			Type:    model.InsightOpportunity,
			Title:   "Student Market",
			Message: fmt.Sprintf("%d college(s) nearby. Consistent student customer base.", len(nearby.Colleges)),
		})
	}
	if len(nearby.Metros) == 0 && len(nearby.Malls) == 0 && len(nearby.Colleges) == 0 {
		insights = append(insights, model.Insight{
			Type:    model.InsightWarning,
			Title:   "Limited Supporting Infrastructure",
			Message: "No metro, mall, or college nearby. May limit customer access.",
		})
	}

	return insights
}

// pickBySentiment returns the matched event of the given sentiment with the
// highest impact score, or nil if none match. Earlier matches win ties.
func pickBySentiment(matches []model.MatchedEvent, s model.Sentiment) *model.MatchedEvent {
	var pick *model.MatchedEvent
	for i := range matches {
		if matches[i].Impact.Sentiment != s {
			continue
		}
		if pick == nil || matches[i].Impact.Score > pick.Impact.Score {
			pick = &matches[i]
		}
	}
	return pick
}

func eventMessage(m *model.MatchedEvent, verb string) string {
	msg := fmt.Sprintf("%s %s %s.", m.Name, verb, m.Timelines.ImpactStart)
	if m.Description != "" {
		msg += " " + m.Description
	}
	return msg
}

func metrosWithinKm(metros []model.NearbyPlace, km float64) int {
	n := 0
	for _, p := range metros {
		if p.DistanceKm <= km {
			n++
		}
	}
	return n
}
