// Package geo provides great-circle distance math for site analysis.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for all distance math.
const EarthRadiusMeters = 6371000.0

// Distance returns the Haversine great-circle distance in meters between two
// WGS84 points given in decimal degrees. It is symmetric and returns exactly
// zero for identical inputs.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	return EarthRadiusMeters * 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Kilometers converts a distance in meters to kilometers.
func Kilometers(meters float64) float64 {
	return meters / 1000
}
