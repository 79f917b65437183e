package risk

import (
	"strings"

	"github.com/vyapar-labs/siterisk/internal/geo"
	"github.com/vyapar-labs/siterisk/internal/model"
)

// distanceMeters is the great-circle distance between two coordinates.
func distanceMeters(a, b model.Coordinate) float64 {
	return geo.Distance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Match selects the events relevant to a site. Two passes over the dataset:
// first every event whose impact radius covers the site, then every
// remaining event whose affected sectors overlap the business type. Dataset
// order is preserved within each pass and no event appears twice.
func Match(events []model.Event, site model.Coordinate, businessType string) []model.MatchedEvent {
	matched := make([]model.MatchedEvent, 0, len(events))
	seen := make(map[string]bool, len(events))

	for _, ev := range events {
		dist := distanceMeters(site, ev.Location)
		if dist <= ev.Impact.RadiusMeters {
			matched = append(matched, model.MatchedEvent{
				Event:          ev,
				DistanceMeters: round2(dist),
				MatchedBy:      model.MatchedByRadius,
			})
			seen[ev.ID] = true
		}
	}

	for _, ev := range events {
		if seen[ev.ID] {
			continue
		}
		if !sectorMatches(businessType, ev.Impact.AffectedSectors) {
			continue
		}
		matched = append(matched, model.MatchedEvent{
			Event:          ev,
			DistanceMeters: round2(distanceMeters(site, ev.Location)),
			MatchedBy:      model.MatchedBySector,
		})
	}

	return matched
}

// sectorMatches reports whether the business type overlaps any affected
// sector. Matching is case-insensitive and substring in both directions,
// so "cafe" matches "internet cafe" and vice versa.
func sectorMatches(businessType string, sectors []string) bool {
	bt := strings.ToLower(strings.TrimSpace(businessType))
	if bt == "" {
		return false
	}
	for _, sector := range sectors {
		s := strings.ToLower(strings.TrimSpace(sector))
		if s == "" {
			continue
		}
		if strings.Contains(bt, s) || strings.Contains(s, bt) {
			return true
		}
	}
	return false
}
