package geo

import (
	"testing"

	"whollycity/internal/models"
)

func TestParseLocationPoint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.LatLng
	}{
		{"Plain Pair", "11.5,104.9", models.LatLng{Lat: 11.5, Lng: 104.9}},
		{"Spaced Pair", "  11.5 , 104.9  ", models.LatLng{Lat: 11.5, Lng: 104.9}},
		{"Negative Coordinates", "-33.8688,151.2093", models.LatLng{Lat: -33.8688, Lng: 151.2093}},
		{"Integer Coordinates", "11,104", models.LatLng{Lat: 11, Lng: 104}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLocation(tt.input)
			if got == nil || got.Point == nil {
				t.Fatalf("ParseLocation(%q): expected a point, got %+v", tt.input, got)
			}
			if *got.Point != tt.want {
				t.Errorf("ParseLocation(%q): expected %+v, got %+v", tt.input, tt.want, *got.Point)
			}
		})
	}
}

func TestParseLocationShapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		rectangle int
		polygon   int
		polyline  int
	}{
		// Exactly 2 valid pairs always parses to a rectangle, never a
		// polyline. Stored rectangles are serialized as two corners, so
		// this rule must hold even for input intended as a 2-point line.
		{name: "Two Pairs Rectangle", input: "11.0,104.0; 12.0,105.0", rectangle: 2},
		{name: "Closed Ring Polygon", input: "0,0; 0,1; 1,1; 0,0", polygon: 4},
		{name: "Nearly Closed Polygon", input: "0,0; 0,1; 1,1; 0.00005,0.00005", polygon: 4},
		{name: "Open Path Polyline", input: "0,0;1,1;2,2", polyline: 3},
		{name: "Malformed Segment Dropped", input: "0,0; garbage; 1,1; 2,2", polyline: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLocation(tt.input)
			if got == nil {
				t.Fatalf("ParseLocation(%q): expected a shape, got nil", tt.input)
			}
			if len(got.Rectangle) != tt.rectangle {
				t.Errorf("rectangle points: expected %d, got %d", tt.rectangle, len(got.Rectangle))
			}
			if len(got.Polygon) != tt.polygon {
				t.Errorf("polygon points: expected %d, got %d", tt.polygon, len(got.Polygon))
			}
			if len(got.Polyline) != tt.polyline {
				t.Errorf("polyline points: expected %d, got %d", tt.polyline, len(got.Polyline))
			}
		})
	}
}

func TestParseLocationNoResult(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Whitespace", "   "},
		{"No Coordinates", "somewhere near the river"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLocation(tt.input); got != nil {
				t.Errorf("ParseLocation(%q): expected nil, got %+v", tt.input, got)
			}
		})
	}
}

func TestFormatLocationRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Point", "11.5,104.9"},
		{"Rectangle", "11.0,104.0; 12.0,105.0"},
		{"Polyline", "0,0;1,1;2,2"},
		{"Polygon", "0,0; 0,1; 1,1; 0,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := ParseLocation(tt.input)
			if first == nil {
				t.Fatalf("ParseLocation(%q) returned nil", tt.input)
			}
			second := ParseLocation(FormatLocation(first))
			if second == nil {
				t.Fatalf("round trip of %q returned nil", tt.input)
			}
			if (first.Point == nil) != (second.Point == nil) ||
				len(first.Path()) != len(second.Path()) {
				t.Errorf("round trip changed geometry: %+v vs %+v", first, second)
			}
			if first.Point != nil && *first.Point != *second.Point {
				t.Errorf("round trip changed point: %+v vs %+v", *first.Point, *second.Point)
			}
			for i, p := range first.Path() {
				if second.Path()[i] != p {
					t.Errorf("round trip changed point %d: %+v vs %+v", i, p, second.Path()[i])
				}
			}
		})
	}
}

func TestParseResultShape(t *testing.T) {
	rect := ParseLocation("11.0,104.0; 12.0,105.0").Shape()
	if rect == nil || rect.Kind != models.ShapeRectangle {
		t.Fatalf("expected rectangle shape, got %+v", rect)
	}
	if rect.Path[0] != (models.LatLng{Lat: 11.0, Lng: 104.0}) ||
		rect.Path[1] != (models.LatLng{Lat: 12.0, Lng: 105.0}) {
		t.Errorf("unexpected rectangle corners: %+v", rect.Path)
	}

	if got := ParseLocation("11.5,104.9").Shape(); got != nil {
		t.Errorf("point should have no shape, got %+v", got)
	}
}
