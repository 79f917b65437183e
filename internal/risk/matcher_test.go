package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar-labs/siterisk/internal/model"
)

var (
	cpSite       = model.Coordinate{Lat: 28.6315, Lng: 77.2167}
	cityCentroid = model.Coordinate{Lat: 28.7041, Lng: 77.1025}
)

func testEvent(id, name string, sentiment model.Sentiment, score float64, loc model.Coordinate, radiusM float64, sectors []string) model.Event {
	return model.Event{
		ID:       id,
		Name:     name,
		Category: "infrastructure",
		Location: loc,
		Impact: model.Impact{
			Sentiment:       sentiment,
			Score:           score,
			RadiusMeters:    radiusM,
			AffectedSectors: sectors,
		},
		Timelines: model.Timelines{
			ImpactStart: model.NewDate(2025, time.March, 1),
		},
	}
}

func TestMatch_RadiusPass(t *testing.T) {
	events := []model.Event{
		testEvent("ev-near", "Station Works", model.SentimentNegative, 0.7, cpSite, 1000, []string{"retail"}),
		testEvent("ev-far", "Ring Road Repaving", model.SentimentNegative, 0.4, cityCentroid, 1500, []string{"logistics"}),
	}

	matched := Match(events, cpSite, "office")
	require.Len(t, matched, 1)
	assert.Equal(t, "ev-near", matched[0].ID)
	assert.Equal(t, model.MatchedByRadius, matched[0].MatchedBy)
	assert.Equal(t, 0.0, matched[0].DistanceMeters)
}

func TestMatch_SectorPass(t *testing.T) {
	far := testEvent("ev-sector", "Market Upgrade", model.SentimentPositive, 0.5, cityCentroid, 1500, []string{"retail", "restaurant"})
	events := []model.Event{far}

	matched := Match(events, cpSite, "retail")
	require.Len(t, matched, 1)
	assert.Equal(t, "ev-sector", matched[0].ID)
	assert.Equal(t, model.MatchedBySector, matched[0].MatchedBy)

	wantDist := round2(distanceMeters(cpSite, cityCentroid))
	assert.Equal(t, wantDist, matched[0].DistanceMeters)
	assert.Greater(t, matched[0].DistanceMeters, far.Impact.RadiusMeters)
}

func TestMatch_RadiusMatchNeverDuplicated(t *testing.T) {
	// Within radius and sector-relevant: must appear once, attributed to radius.
	events := []model.Event{
		testEvent("ev-both", "Corner Redevelopment", model.SentimentNegative, 0.6, cpSite, 2000, []string{"retail"}),
	}

	matched := Match(events, cpSite, "retail")
	require.Len(t, matched, 1)
	assert.Equal(t, model.MatchedByRadius, matched[0].MatchedBy)
}

func TestMatch_DatasetOrderPreservedWithinPasses(t *testing.T) {
	events := []model.Event{
		testEvent("a", "A", model.SentimentPositive, 0.3, cityCentroid, 100, []string{"cafe"}),
		testEvent("b", "B", model.SentimentNegative, 0.5, cpSite, 1000, nil),
		testEvent("c", "C", model.SentimentNegative, 0.4, cpSite, 1000, nil),
		testEvent("d", "D", model.SentimentPositive, 0.6, cityCentroid, 100, []string{"cafe"}),
	}

	matched := Match(events, cpSite, "cafe")
	require.Len(t, matched, 4)

	var ids []string
	for _, m := range matched {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
	assert.Equal(t, model.MatchedByRadius, matched[0].MatchedBy)
	assert.Equal(t, model.MatchedByRadius, matched[1].MatchedBy)
	assert.Equal(t, model.MatchedBySector, matched[2].MatchedBy)
	assert.Equal(t, model.MatchedBySector, matched[3].MatchedBy)
}

func TestMatch_NoMatches(t *testing.T) {
	events := []model.Event{
		testEvent("ev-far", "Ring Road Repaving", model.SentimentNegative, 0.4, cityCentroid, 1500, []string{"logistics"}),
	}

	matched := Match(events, cpSite, "cafe")
	assert.NotNil(t, matched)
	assert.Empty(t, matched)
}

func TestSectorMatches(t *testing.T) {
	tests := []struct {
		name         string
		businessType string
		sectors      []string
		want         bool
	}{
		{"exact", "retail", []string{"retail"}, true},
		{"business type contains sector", "retail store", []string{"retail"}, true},
		{"sector contains business type", "ret", []string{"retail"}, true},
		{"case insensitive", "CAFE", []string{"Cafe"}, true},
		{"no overlap", "salon", []string{"retail", "restaurant"}, false},
		{"empty business type", "", []string{"retail"}, false},
		{"no sectors", "retail", nil, false},
		{"blank sector skipped", "retail", []string{"   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sectorMatches(tt.businessType, tt.sectors))
		})
	}
}
