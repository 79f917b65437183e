package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/vyapar-labs/siterisk/internal/geocode"
	"github.com/vyapar-labs/siterisk/internal/model"
	"github.com/vyapar-labs/siterisk/internal/risk"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		zap.L().Error("analysis failed",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	analysesTotal.WithLabelValues(string(analysis.RiskLevel)).Inc()
	recordGeocode(analysis.Location)
	respondJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.provider.Events(r.Context())
	if err != nil {
		zap.L().Error("load events", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	pincode := strings.TrimSpace(r.URL.Query().Get("pincode"))
	if location == "" && pincode == "" {
		respondError(w, http.StatusBadRequest, "location or pincode is required")
		return
	}

	loc := s.cascade.Resolve(r.Context(), geocode.Query{Location: location, Pincode: pincode})
	recordGeocode(loc)
	respondJSON(w, http.StatusOK, loc)
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		respondError(w, http.StatusBadRequest, "location is required")
		return
	}

	category := model.POICategory(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))))
	switch category {
	case "", model.POIMetro, model.POIMall, model.POICollege:
	default:
		respondError(w, http.StatusBadRequest, "unknown category")
		return
	}

	radiusKm := risk.DefaultRadiusKm(category)
	if raw := r.URL.Query().Get("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid radius")
			return
		}
		radiusKm = parsed
	}

	pois, err := s.provider.POIs(r.Context())
	if err != nil {
		zap.L().Error("load pois", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	loc := s.cascade.Resolve(r.Context(), geocode.Query{Location: location})
	recordGeocode(loc)
	places := risk.Search(pois, loc.Coordinate(), category, radiusKm)

	respondJSON(w, http.StatusOK, map[string]any{
		"location": loc,
		"radiusKm": radiusKm,
		"places":   places,
		"count":    len(places),
	})
}

func (s *Server) handleMapData(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("type") {
	case "points":
		pois, err := s.provider.POIs(r.Context())
		if err != nil {
			zap.L().Error("load pois", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		respondJSON(w, http.StatusOK, poiFeatures(pois))
	case "events":
		events, err := s.provider.Events(r.Context())
		if err != nil {
			zap.L().Error("load events", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		respondJSON(w, http.StatusOK, eventFeatures(events))
	default:
		respondError(w, http.StatusBadRequest, "type must be points or events")
	}
}

func poiFeatures(pois []model.POI) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(pois))}
	for _, p := range pois {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Location.Lng, p.Location.Lat}),
			Properties: map[string]interface{}{
				"name":     p.Name,
				"category": string(p.Category),
				"area":     p.Area,
			},
		})
	}
	return fc
}

func eventFeatures(events []model.Event) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(events))}
	for _, ev := range events {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       ev.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{ev.Location.Lng, ev.Location.Lat}),
			Properties: map[string]interface{}{
				"name":         ev.Name,
				"category":     ev.Category,
				"sentiment":    string(ev.Impact.Sentiment),
				"score":        ev.Impact.Score,
				"radiusMeters": ev.Impact.RadiusMeters,
				"impactStart":  ev.Timelines.ImpactStart.String(),
			},
		})
	}
	return fc
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.provider.Status(r.Context())
	if err != nil {
		zap.L().Error("dataset status", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	state := "healthy"
	if status.Degraded {
		state = "degraded"
	}
	resp := map[string]any{
		"status":   state,
		"source":   status.Source,
		"datasets": status.Counts,
	}
	if len(status.Warnings) > 0 {
		resp["warnings"] = status.Warnings
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	status, err := s.provider.Status(r.Context())
	if err != nil {
		zap.L().Error("dataset status", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"service":     serviceName,
		"version":     serviceVersion,
		"description": "Location risk analysis for Delhi business sites",
		"endpoints": []string{
			"POST /api/analyze",
			"GET /api/events",
			"GET /api/geocode",
			"GET /api/nearby",
			"GET /api/map-data",
			"GET /api/health",
			"GET /metrics",
		},
		"datasets": status.Counts,
	})
}
