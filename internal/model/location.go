package model

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Area is one row of the ordered area lookup table. Key is the lowercase
// match key; table order breaks substring-match ties.
type Area struct {
	Key      string     `json:"key"`
	Name     string     `json:"name"`
	Location Coordinate `json:"location"`
}

// Pincode maps a postal code to its area centroid.
type Pincode struct {
	Code     string     `json:"code"`
	AreaKey  string     `json:"areaKey"`
	Location Coordinate `json:"location"`
}

// ResolvedLocation is the geocoder output carried in an analysis result.
// Lat and Lng are flattened so the wire shape stays {lat, lng, area, pincode}.
type ResolvedLocation struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Area    string  `json:"area,omitempty"`
	Pincode string  `json:"pincode,omitempty"`
	Source  string  `json:"source"`
	Matched bool    `json:"matched"`
}

// Coordinate returns the resolved point as a Coordinate value.
func (r ResolvedLocation) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lng: r.Lng}
}

// Alternative is a candidate relocation area with its static base risk.
type Alternative struct {
	Area     string     `json:"area"`
	Location Coordinate `json:"location"`
	BaseRisk float64    `json:"baseRisk"`
}

// POICategory enumerates the supported infrastructure categories.
type POICategory string

const (
	POIMetro   POICategory = "metro"
	POIMall    POICategory = "mall"
	POICollege POICategory = "college"
)

// POI is a point of supporting infrastructure near candidate sites.
type POI struct {
	Name     string      `json:"name"`
	Category POICategory `json:"category"`
	Area     string      `json:"area,omitempty"`
	Location Coordinate  `json:"location"`
}

// NearbyPlace is a POI annotated with its distance from the analysis site.
type NearbyPlace struct {
	Name       string      `json:"name"`
	Category   POICategory `json:"category"`
	DistanceKm float64     `json:"distanceKm"`
	Location   Coordinate  `json:"location"`
}

// NearbyInfrastructure groups nearby POIs by category.
type NearbyInfrastructure struct {
	Metros   []NearbyPlace `json:"metros"`
	Malls    []NearbyPlace `json:"malls"`
	Colleges []NearbyPlace `json:"colleges"`
}
