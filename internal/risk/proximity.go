package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vyapar-labs/siterisk/internal/geo"
	"github.com/vyapar-labs/siterisk/internal/model"
)

// Per-category search radii and result caps for nearby infrastructure.
const (
	MetroRadiusKm   = 1.5
	MallRadiusKm    = 2.0
	CollegeRadiusKm = 2.5

	metroLimit   = 3
	mallLimit    = 3
	collegeLimit = 2
)

// DefaultRadiusKm returns the search radius used for a POI category when
// the caller does not supply one. Uncategorized searches use 2 km.
func DefaultRadiusKm(category model.POICategory) float64 {
	switch category {
	case model.POIMetro:
		return MetroRadiusKm
	case model.POIMall:
		return MallRadiusKm
	case model.POICollege:
		return CollegeRadiusKm
	default:
		return 2.0
	}
}

// Search returns every POI of the given category within radiusKm of the
// site, nearest first. An empty category matches all categories. Distances
// are in km, rounded to 2dp.
func Search(pois []model.POI, site model.Coordinate, category model.POICategory, radiusKm float64) []model.NearbyPlace {
	places := make([]model.NearbyPlace, 0, len(pois))
	for _, p := range pois {
		if category != "" && p.Category != category {
			continue
		}
		km := geo.Kilometers(distanceMeters(site, p.Location))
		if km > radiusKm {
			continue
		}
		places = append(places, model.NearbyPlace{
			Name:       p.Name,
			Category:   p.Category,
			DistanceKm: round2(km),
			Location:   p.Location,
		})
	}
	sort.SliceStable(places, func(i, j int) bool {
		return places[i].DistanceKm < places[j].DistanceKm
	})
	return places
}

// Nearby finds the supporting infrastructure around a site: metros within
// 1.5 km, malls within 2 km, colleges within 2.5 km, each sorted nearest
// first and capped.
func Nearby(pois []model.POI, site model.Coordinate) model.NearbyInfrastructure {
	return model.NearbyInfrastructure{
		Metros:   capPlaces(Search(pois, site, model.POIMetro, MetroRadiusKm), metroLimit),
		Malls:    capPlaces(Search(pois, site, model.POIMall, MallRadiusKm), mallLimit),
		Colleges: capPlaces(Search(pois, site, model.POICollege, CollegeRadiusKm), collegeLimit),
	}
}

func capPlaces(places []model.NearbyPlace, limit int) []model.NearbyPlace {
	if len(places) > limit {
		return places[:limit]
	}
	return places
}

// Proximity scores how well the nearby infrastructure serves the business
// type. Metro access benefits every business; malls matter to retail-like
// types and colleges to student-facing types. A connectivity bonus applies
// when at least two categories contribute.
func Proximity(nearby model.NearbyInfrastructure, businessType string) model.ProximityReport {
	const maxScore = 100.0
	var score float64
	factors := make([]model.ProximityFactor, 0, 4)
	categories := 0

	if len(nearby.Metros) > 0 {
		pts := metroPoints(nearby.Metros[0].DistanceKm)
		score += pts
		categories++
		factors = append(factors, model.ProximityFactor{
			Factor: "Metro Access",
			Score:  pts,
			Detail: fmt.Sprintf("%d metro station(s) within %.1f km, closest %.2f km away",
				len(nearby.Metros), MetroRadiusKm, nearby.Metros[0].DistanceKm),
		})
	}

	if mallRelevant(businessType) && len(nearby.Malls) > 0 {
		pts := math.Min(30, float64(len(nearby.Malls))*15)
		score += pts
		categories++
		factors = append(factors, model.ProximityFactor{
			Factor: "Mall Proximity",
			Score:  pts,
			Detail: fmt.Sprintf("%d mall(s) nearby bringing steady foot traffic", len(nearby.Malls)),
		})
	}

	if collegeRelevant(businessType) && len(nearby.Colleges) > 0 {
		pts := math.Min(20, float64(len(nearby.Colleges))*10)
		score += pts
		categories++
		factors = append(factors, model.ProximityFactor{
			Factor: "Student Population",
			Score:  pts,
			Detail: fmt.Sprintf("%d college(s) nearby with consistent student demand", len(nearby.Colleges)),
		})
	}

	if categories >= 2 {
		score += 20
		factors = append(factors, model.ProximityFactor{
			Factor: "Connectivity",
			Score:  20,
			Detail: "multiple infrastructure categories within reach",
		})
	}

	return model.ProximityReport{
		Score:    score,
		MaxScore: maxScore,
		Percent:  round1(score / maxScore * 100),
		Factors:  factors,
	}
}

func metroPoints(nearestKm float64) float64 {
	switch {
	case nearestKm <= 0.5:
		return 30
	case nearestKm <= 1.0:
		return 20
	default:
		return 10
	}
}

// LocationFactor is the optional POI-density adjustment to the risk score.
// Zero when disabled, otherwise per-point credit for each POI within the
// configured radius, capped.
func LocationFactor(pois []model.POI, site model.Coordinate, w LocationFactorWeights) float64 {
	if !w.Enabled {
		return 0
	}
	var count int
	for _, p := range pois {
		if distanceMeters(site, p.Location) <= w.RadiusMeters {
			count++
		}
	}
	return math.Min(w.Cap, float64(count)*w.PerPoint)
}

func mallRelevant(businessType string) bool {
	return containsAny(strings.ToLower(businessType), "retail", "cafe", "restaurant", "fashion")
}

func collegeRelevant(businessType string) bool {
	return containsAny(strings.ToLower(businessType), "cafe", "bookstore", "stationery", "restaurant")
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
