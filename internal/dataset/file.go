package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// eventsDocument is the on-disk shape of the events dataset.
type eventsDocument struct {
	City    string        `json:"city"`
	Updated model.Date    `json:"updated"`
	Events  []model.Event `json:"events"`
}

func loadEvents(path string) ([]model.Event, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "dataset: open events file %s", path)
	}
	defer f.Close()

	var doc eventsDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, nil, eris.Wrapf(err, "dataset: decode events file %s", path)
	}

	var warnings []string
	events := make([]model.Event, 0, len(doc.Events))
	for _, e := range doc.Events {
		if err := e.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped event: %v", err))
			continue
		}
		events = append(events, e)
	}
	return events, warnings, nil
}

func loadPOIs(path string) ([]model.POI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read points file %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "dataset: decode points file %s", path)
	}

	pois := make([]model.POI, 0, len(fc.Features))
	for _, feat := range fc.Features {
		pt, ok := feat.Geometry.(*geom.Point)
		if !ok || pt == nil {
			continue
		}
		coords := pt.Coords()

		poi := model.POI{
			// GeoJSON positions are [lng, lat].
			Location: model.Coordinate{Lat: coords.Y(), Lng: coords.X()},
		}
		if v, ok := feat.Properties["name"].(string); ok {
			poi.Name = v
		}
		if v, ok := feat.Properties["category"].(string); ok {
			poi.Category = model.POICategory(v)
		}
		if v, ok := feat.Properties["area"].(string); ok {
			poi.Area = v
		}
		if poi.Name == "" || poi.Category == "" {
			continue
		}
		pois = append(pois, poi)
	}
	return pois, nil
}

// FileProvider serves the lookup tables from the in-source data and the event
// and POI datasets from local files, loaded once at construction.
type FileProvider struct {
	static   *StaticProvider
	events   []model.Event
	pois     []model.POI
	warnings []string
	degraded bool
}

// NewFile loads both dataset files concurrently. Load failures never abort
// construction: a missing or malformed events file degrades to an empty
// collection, a bad points file degrades to the built-in mock POIs.
func NewFile(ctx context.Context, eventsPath, pointsPath string) *FileProvider {
	log := zap.L().With(zap.String("component", "dataset.file"))
	p := &FileProvider{static: NewStatic()}

	var mu sync.Mutex
	warn := func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		p.warnings = append(p.warnings, msg)
		p.degraded = true
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, warnings, err := loadEvents(eventsPath)
		if err != nil {
			log.Warn("events dataset unavailable, substituting empty collection",
				zap.String("path", eventsPath), zap.Error(err))
			warn("events: " + err.Error())
			p.events = []model.Event{}
			return nil
		}
		for _, w := range warnings {
			log.Warn("events dataset record rejected", zap.String("detail", w))
			warn("events: " + w)
		}
		p.events = events
		return nil
	})
	g.Go(func() error {
		pois, err := loadPOIs(pointsPath)
		if err != nil {
			log.Warn("points dataset unavailable, substituting mock points",
				zap.String("path", pointsPath), zap.Error(err))
			warn("points: " + err.Error())
			p.pois = mockPOIs
			return nil
		}
		p.pois = pois
		return nil
	})
	// Loaders absorb their own failures; Wait only synchronizes.
	_ = g.Wait()

	return p
}

func (p *FileProvider) Areas(ctx context.Context) ([]model.Area, error) {
	return p.static.Areas(ctx)
}

func (p *FileProvider) Pincodes(ctx context.Context) ([]model.Pincode, error) {
	return p.static.Pincodes(ctx)
}

func (p *FileProvider) Events(ctx context.Context) ([]model.Event, error) {
	return p.events, nil
}

func (p *FileProvider) POIs(ctx context.Context) ([]model.POI, error) {
	return p.pois, nil
}

func (p *FileProvider) Alternatives(ctx context.Context) ([]model.Alternative, error) {
	return p.static.Alternatives(ctx)
}

func (p *FileProvider) Status(ctx context.Context) (model.DatasetStatus, error) {
	return model.DatasetStatus{
		Source: "file",
		Counts: map[string]int{
			"areas":        len(defaultAreas),
			"pincodes":     len(defaultPincodes),
			"events":       len(p.events),
			"pois":         len(p.pois),
			"alternatives": len(defaultAlternatives),
		},
		Degraded: p.degraded,
		Warnings: p.warnings,
	}, nil
}

func (p *FileProvider) Close() error {
	return nil
}
