package geocode

import (
	"context"
	"strings"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// StaticResolver matches queries against the ordered area table and the
// pincode table. It is the authoritative resolver for known localities.
type StaticResolver struct {
	areas     []model.Area
	pincodes  map[string]model.Pincode
	areaNames map[string]string
}

// NewStaticResolver builds a resolver over the given lookup tables. The
// area slice keeps its order: earlier rows win substring-match ties.
func NewStaticResolver(areas []model.Area, pincodes []model.Pincode) *StaticResolver {
	byCode := make(map[string]model.Pincode, len(pincodes))
	for _, pc := range pincodes {
		byCode[pc.Code] = pc
	}
	names := make(map[string]string, len(areas))
	for _, a := range areas {
		names[a.Key] = a.Name
	}
	return &StaticResolver{areas: areas, pincodes: byCode, areaNames: names}
}

func (r *StaticResolver) Name() string { return "static" }

func (r *StaticResolver) Available() bool { return true }

// Resolve checks the area table first: a query matches a row when either
// string contains the other, case-insensitively. Pincode lookups are exact.
func (r *StaticResolver) Resolve(ctx context.Context, q Query) (*Result, error) {
	if loc := strings.ToLower(strings.TrimSpace(q.Location)); loc != "" {
		for _, a := range r.areas {
			if strings.Contains(loc, a.Key) || strings.Contains(a.Key, loc) {
				return &Result{
					Coordinate: a.Location,
					Area:       a.Name,
					Source:     "area",
					Matched:    true,
				}, nil
			}
		}
	}

	if code := strings.TrimSpace(q.Pincode); code != "" {
		if pc, ok := r.pincodes[code]; ok {
			area := pc.AreaKey
			if name, ok := r.areaNames[pc.AreaKey]; ok {
				area = name
			}
			return &Result{
				Coordinate: pc.Location,
				Area:       area,
				Pincode:    pc.Code,
				Source:     "pincode",
				Matched:    true,
			}, nil
		}
	}

	return &Result{Source: "static"}, nil
}
