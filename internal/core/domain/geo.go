package domain

import (
	"regexp"
	"strconv"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FallbackLocation is returned for malformed or missing geography values so
// that a bad row never aborts the surrounding request (Warsaw city centre).
var FallbackLocation = GeoPoint{Lat: 52.2297, Lon: 21.0122}

var wktPointRe = regexp.MustCompile(`POINT\(([-\d.]+)\s+([-\d.]+)\)`)

// ParseLocation converts a stored geography value into a GeoPoint.
//
// Two forms are accepted: a GeoJSON-style map carrying a two-element
// [longitude, latitude] coordinates pair, and a WKT "POINT(lon lat)" string.
// PostGIS is longitude-first; the order must not be swapped. Anything else
// yields FallbackLocation.
func ParseLocation(raw any) GeoPoint {
	switch v := raw.(type) {
	case map[string]any:
		coords, ok := v["coordinates"].([]any)
		if !ok || len(coords) < 2 {
			return FallbackLocation
		}
		lon, okLon := toFloat(coords[0])
		lat, okLat := toFloat(coords[1])
		if !okLon || !okLat {
			return FallbackLocation
		}
		return GeoPoint{Lat: lat, Lon: lon}

	case []byte:
		return parseWKT(string(v))

	case string:
		return parseWKT(v)

	case *string:
		if v == nil {
			return FallbackLocation
		}
		return parseWKT(*v)
	}

	return FallbackLocation
}

func parseWKT(s string) GeoPoint {
	m := wktPointRe.FindStringSubmatch(s)
	if m == nil {
		return FallbackLocation
	}
	lon, errLon := strconv.ParseFloat(m[1], 64)
	lat, errLat := strconv.ParseFloat(m[2], 64)
	if errLon != nil || errLat != nil {
		return FallbackLocation
	}
	return GeoPoint{Lat: lat, Lon: lon}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
