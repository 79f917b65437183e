package dataset

import (
	"context"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vyapar-labs/siterisk/internal/model"
)

var titleCaser = cases.Title(language.English)

// displayName renders a lowercase table key as a human-readable area name.
func displayName(key string) string {
	return titleCaser.String(key)
}

func area(key string, lat, lng float64) model.Area {
	return model.Area{Key: key, Name: displayName(key), Location: model.Coordinate{Lat: lat, Lng: lng}}
}

// defaultAreas is the ordered Delhi area lookup table. Order matters: the
// first substring match wins, so more specific names come before shorter ones.
var defaultAreas = []model.Area{
	area("connaught place", 28.6315, 77.2167),
	area("karol bagh", 28.6519, 77.1900),
	area("chandni chowk", 28.6506, 77.2300),
	area("lajpat nagar", 28.5677, 77.2436),
	area("hauz khas", 28.5494, 77.2001),
	area("nehru place", 28.5483, 77.2513),
	area("greater kailash", 28.5483, 77.2340),
	area("vasant kunj", 28.5200, 77.1591),
	area("janakpuri", 28.6219, 77.0878),
	area("pitampura", 28.7030, 77.1320),
	area("mayur vihar", 28.6091, 77.2943),
	area("saket", 28.5244, 77.2167),
	area("dwarka", 28.5921, 77.0469),
	area("rohini", 28.7496, 77.1025),
}

// defaultPincodes maps Delhi postal codes to their area centroids.
var defaultPincodes = []model.Pincode{
	{Code: "110001", AreaKey: "connaught place", Location: model.Coordinate{Lat: 28.6315, Lng: 77.2167}},
	{Code: "110005", AreaKey: "karol bagh", Location: model.Coordinate{Lat: 28.6519, Lng: 77.1900}},
	{Code: "110006", AreaKey: "chandni chowk", Location: model.Coordinate{Lat: 28.6506, Lng: 77.2300}},
	{Code: "110016", AreaKey: "hauz khas", Location: model.Coordinate{Lat: 28.5494, Lng: 77.2001}},
	{Code: "110017", AreaKey: "saket", Location: model.Coordinate{Lat: 28.5244, Lng: 77.2167}},
	{Code: "110019", AreaKey: "nehru place", Location: model.Coordinate{Lat: 28.5483, Lng: 77.2513}},
	{Code: "110024", AreaKey: "lajpat nagar", Location: model.Coordinate{Lat: 28.5677, Lng: 77.2436}},
	{Code: "110034", AreaKey: "pitampura", Location: model.Coordinate{Lat: 28.7030, Lng: 77.1320}},
	{Code: "110048", AreaKey: "greater kailash", Location: model.Coordinate{Lat: 28.5483, Lng: 77.2340}},
	{Code: "110058", AreaKey: "janakpuri", Location: model.Coordinate{Lat: 28.6219, Lng: 77.0878}},
	{Code: "110070", AreaKey: "vasant kunj", Location: model.Coordinate{Lat: 28.5200, Lng: 77.1591}},
	{Code: "110075", AreaKey: "dwarka", Location: model.Coordinate{Lat: 28.5921, Lng: 77.0469}},
	{Code: "110085", AreaKey: "rohini", Location: model.Coordinate{Lat: 28.7496, Lng: 77.1025}},
	{Code: "110091", AreaKey: "mayur vihar", Location: model.Coordinate{Lat: 28.6091, Lng: 77.2943}},
}

// DefaultCentroid is the city-level fallback coordinate used when neither the
// area table nor the pincode table matches a query.
var DefaultCentroid = model.Coordinate{Lat: 28.7041, Lng: 77.1025}

// defaultAlternatives is the static base-risk table for relocation suggestions.
var defaultAlternatives = []model.Alternative{
	{Area: displayName("dwarka"), Location: model.Coordinate{Lat: 28.5921, Lng: 77.0469}, BaseRisk: 35},
	{Area: displayName("rohini"), Location: model.Coordinate{Lat: 28.7496, Lng: 77.1025}, BaseRisk: 38},
	{Area: displayName("janakpuri"), Location: model.Coordinate{Lat: 28.6219, Lng: 77.0878}, BaseRisk: 40},
	{Area: displayName("vasant kunj"), Location: model.Coordinate{Lat: 28.5200, Lng: 77.1591}, BaseRisk: 42},
	{Area: displayName("saket"), Location: model.Coordinate{Lat: 28.5244, Lng: 77.2167}, BaseRisk: 45},
	{Area: displayName("hauz khas"), Location: model.Coordinate{Lat: 28.5494, Lng: 77.2001}, BaseRisk: 48},
	{Area: displayName("lajpat nagar"), Location: model.Coordinate{Lat: 28.5677, Lng: 77.2436}, BaseRisk: 52},
	{Area: displayName("karol bagh"), Location: model.Coordinate{Lat: 28.6519, Lng: 77.1900}, BaseRisk: 55},
}

func event(id, name, category, description string, lat, lng float64, sentiment model.Sentiment,
	score, radiusMeters float64, sectors []string, start model.Date) model.Event {
	return model.Event{
		ID:          id,
		Name:        name,
		Category:    category,
		Description: description,
		Location:    model.Coordinate{Lat: lat, Lng: lng},
		Impact: model.Impact{
			Sentiment:       sentiment,
			Score:           score,
			RadiusMeters:    radiusMeters,
			AffectedSectors: sectors,
		},
		Timelines: model.Timelines{ImpactStart: start},
	}
}

// defaultEvents is the built-in future event set, also used to seed the
// sqlite/postgres providers. The file provider replaces it with the JSON
// document when one is configured.
var defaultEvents = []model.Event{
	event("5f8a1c9e-3b42-4b8f-9c1d-7e2a6d4f0b11",
		"Metro Phase 4 Extension", "metro",
		"New interchange corridor announced through central Delhi.",
		28.6315, 77.2167, model.SentimentPositive, 0.3, 2000,
		[]string{"retail", "cafe", "restaurant"},
		model.NewDate(2025, time.June, 15)),
	event("9d0b7a52-61c4-4f3e-8a26-b5d19c3e7f02",
		"Rajiv Chowk Station Renovation", "construction",
		"Station concourse rebuild restricts pedestrian access for months.",
		28.6330, 77.2194, model.SentimentNegative, 0.7, 1500,
		[]string{"retail", "restaurant"},
		model.NewDate(2025, time.March, 1)),
	event("2c4f6e81-9a5b-4d07-b3c8-1f0e7d2a9b43",
		"Pusa Road Widening", "construction",
		"Carriageway widening with long-running lane closures in Karol Bagh.",
		28.6449, 77.1906, model.SentimentNegative, 0.8, 1800,
		[]string{"retail", "cafe", "restaurant"},
		model.NewDate(2025, time.August, 15)),
	event("7e3d9b16-4c28-4a5f-90d1-6b8f2c5a3e74",
		"Select Citywalk Expansion", "mall",
		"Anchor mall adds a new wing and multiplex in Saket.",
		28.5286, 77.2192, model.SentimentPositive, 0.5, 2000,
		[]string{"retail", "fashion", "cafe"},
		model.NewDate(2026, time.January, 20)),
	event("b1a8c4d7-2e96-4f30-a5b9-8c7d1e6f4a25",
		"Amity Satellite Campus", "college",
		"New university campus brings student footfall to south Delhi.",
		28.5219, 77.2100, model.SentimentPositive, 0.5, 2500,
		[]string{"cafe", "bookstore", "stationery", "restaurant"},
		model.NewDate(2026, time.July, 1)),
	event("4f7b2e90-8d13-4c6a-b7e5-3a9c0d8f1b56",
		"Dwarka Expressway Corridor", "corridor",
		"Expressway completion opens a new commercial corridor.",
		28.5921, 77.0469, model.SentimentPositive, 0.6, 3000,
		[]string{"retail", "restaurant", "hotel"},
		model.NewDate(2027, time.March, 1)),
	event("8c5e1f34-6a79-4b02-9d8e-2f4b7c0a6d87",
		"Chandni Chowk Pedestrianization", "redevelopment",
		"Main bazaar stretch goes vehicle-free with new street furniture.",
		28.6506, 77.2300, model.SentimentPositive, 0.6, 1200,
		[]string{"retail", "street food", "jewellery"},
		model.NewDate(2025, time.December, 1)),
	event("3a9d6c18-5e42-4f7b-8c03-9b1e4d7f2a68",
		"Rohini Flyover Construction", "construction",
		"Grade separator work chokes the main market approach road.",
		28.7410, 77.1170, model.SentimentNegative, 0.6, 2000,
		[]string{"retail", "cafe"},
		model.NewDate(2026, time.April, 10)),
	event("6b2f8d41-7c05-4e9a-b1d6-4f8a3c9e0b79",
		"Central Market Renovation", "construction",
		"Lajpat Nagar market facade and drainage overhaul.",
		28.5677, 77.2436, model.SentimentNegative, 0.5, 1000,
		[]string{"retail", "fashion"},
		model.NewDate(2025, time.October, 5)),
	event("0e4a7b93-1d58-4c26-8f9b-5c2d6e1a4f90",
		"Hauz Khas Innovation District", "redevelopment",
		"Design and startup cluster designation with facade grants.",
		28.5494, 77.2001, model.SentimentPositive, 0.7, 2200,
		[]string{"cafe", "coworking", "restaurant"},
		model.NewDate(2026, time.September, 1)),
}

// mockPOIs is the minimal fallback dataset substituted when the points file
// cannot be read.
var mockPOIs = []model.POI{
	{Name: "Rajiv Chowk Metro Station", Category: model.POIMetro, Area: "connaught place", Location: model.Coordinate{Lat: 28.6327, Lng: 77.2196}},
	{Name: "Palika Bazaar", Category: model.POIMall, Area: "connaught place", Location: model.Coordinate{Lat: 28.6310, Lng: 77.2210}},
}

// StaticProvider serves every dataset from the in-source tables. It is the
// dependency-free provider and can never be degraded.
type StaticProvider struct{}

// NewStatic returns the in-source dataset provider.
func NewStatic() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) Areas(ctx context.Context) ([]model.Area, error) {
	return defaultAreas, nil
}

func (p *StaticProvider) Pincodes(ctx context.Context) ([]model.Pincode, error) {
	return defaultPincodes, nil
}

func (p *StaticProvider) Events(ctx context.Context) ([]model.Event, error) {
	return defaultEvents, nil
}

func (p *StaticProvider) POIs(ctx context.Context) ([]model.POI, error) {
	return mockPOIs, nil
}

func (p *StaticProvider) Alternatives(ctx context.Context) ([]model.Alternative, error) {
	return defaultAlternatives, nil
}

func (p *StaticProvider) Status(ctx context.Context) (model.DatasetStatus, error) {
	return model.DatasetStatus{
		Source: "static",
		Counts: map[string]int{
			"areas":        len(defaultAreas),
			"pincodes":     len(defaultPincodes),
			"events":       len(defaultEvents),
			"pois":         len(mockPOIs),
			"alternatives": len(defaultAlternatives),
		},
	}, nil
}

func (p *StaticProvider) Close() error {
	return nil
}
