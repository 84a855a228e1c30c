// Package geo holds the pure geographic helpers: the location-text grammar
// used by report drafts and the date-range windows used to filter markers.
package geo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"whollycity/internal/models"
)

// closeEpsilon decides whether the first and last points of a path coincide,
// which promotes a polyline to a closed polygon.
const closeEpsilon = 1e-4

var (
	pointRe = regexp.MustCompile(`^(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)$`)
	pairRe  = regexp.MustCompile(`(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)`)
)

// ParseResult is the typed outcome of parsing location text. Exactly one
// field is set.
type ParseResult struct {
	Point     *models.LatLng  `json:"point,omitempty"`
	Polygon   []models.LatLng `json:"polygon,omitempty"`
	Polyline  []models.LatLng `json:"polyline,omitempty"`
	Rectangle []models.LatLng `json:"rectangle,omitempty"`
}

// ParseLocation parses the free-text location encoding. The grammar is a
// best-effort heuristic, not a strict format:
//
//   - a single "lat,lng" pair parses to a point
//   - two or more pairs separated by ";" parse to a multi-point shape:
//     exactly 2 points are the opposite corners of a rectangle, 3 or more
//     points whose endpoints coincide form a polygon, anything else a
//     polyline
//
// The 2-points-always-rectangle rule is load-bearing: the drawing flow
// serializes rectangles as two corners, and stored location text depends on
// it. Malformed segments are dropped; text with no valid pair returns nil,
// which callers treat as "no location".
func ParseLocation(text string) *ParseResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if m := pointRe.FindStringSubmatch(trimmed); m != nil {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lng, errLng := strconv.ParseFloat(m[2], 64)
		if errLat == nil && errLng == nil {
			return &ParseResult{Point: &models.LatLng{Lat: lat, Lng: lng}}
		}
	}

	var path []models.LatLng
	for _, m := range pairRe.FindAllStringSubmatch(trimmed, -1) {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lng, errLng := strconv.ParseFloat(m[2], 64)
		if errLat != nil || errLng != nil {
			continue
		}
		path = append(path, models.LatLng{Lat: lat, Lng: lng})
	}

	switch {
	case len(path) == 0:
		return nil
	case len(path) == 1:
		p := path[0]
		return &ParseResult{Point: &p}
	case len(path) == 2:
		return &ParseResult{Rectangle: path}
	}

	first, last := path[0], path[len(path)-1]
	if math.Abs(first.Lat-last.Lat) < closeEpsilon && math.Abs(first.Lng-last.Lng) < closeEpsilon {
		return &ParseResult{Polygon: path}
	}
	return &ParseResult{Polyline: path}
}

// Path returns the multi-point geometry of the result, or nil for a point.
func (r *ParseResult) Path() []models.LatLng {
	switch {
	case r == nil:
		return nil
	case r.Polygon != nil:
		return r.Polygon
	case r.Polyline != nil:
		return r.Polyline
	case r.Rectangle != nil:
		return r.Rectangle
	}
	return nil
}

// Shape converts a multi-point result into a persistable shape. Points have
// no shape representation and return nil.
func (r *ParseResult) Shape() *models.Shape {
	switch {
	case r == nil || r.Point != nil:
		return nil
	case r.Polygon != nil:
		return &models.Shape{Kind: models.ShapePolygon, Path: r.Polygon}
	case r.Polyline != nil:
		return &models.Shape{Kind: models.ShapePolyline, Path: r.Polyline}
	case r.Rectangle != nil:
		return &models.Shape{Kind: models.ShapeRectangle, Path: r.Rectangle}
	}
	return nil
}

// FormatLocation serializes a parse result back into location text with
// 6-decimal coordinates. FormatLocation(ParseLocation(text)) reproduces an
// equivalent geometry for all well-formed inputs.
func FormatLocation(r *ParseResult) string {
	if r == nil {
		return ""
	}
	if r.Point != nil {
		return formatPair(*r.Point)
	}
	path := r.Path()
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = formatPair(p)
	}
	return strings.Join(parts, "; ")
}

func formatPair(p models.LatLng) string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}
