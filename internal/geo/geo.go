// Package geo provides coordinate types and great-circle distance math.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Coordinate is a WGS 84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NormalizeLng folds a longitude into [-180, 180).
func NormalizeLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}

// Normalized returns the coordinate with its longitude folded into
// [-180, 180). Latitude is left untouched; callers validate range.
func (c Coordinate) Normalized() Coordinate {
	return Coordinate{Lat: c.Lat, Lng: NormalizeLng(c.Lng)}
}

// Distance returns the great-circle distance between a and b in meters,
// computed with the haversine formula. Longitudes are normalized first so
// wrap-around inputs (e.g. 540 vs -180) measure as coincident.
func Distance(a, b Coordinate) float64 {
	a = a.Normalized()
	b = b.Normalized()

	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// Guard against floating point pushing h just past 1 at antipodes,
	// which would make Asin return NaN.
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
