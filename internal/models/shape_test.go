package models

import "testing"

func TestShapeValidate(t *testing.T) {
	center := &LatLng{Lat: 11.5, Lng: 104.9}
	path := func(n int) []LatLng {
		out := make([]LatLng, n)
		for i := range out {
			out[i] = LatLng{Lat: float64(i), Lng: float64(i)}
		}
		return out
	}

	tests := []struct {
		name    string
		shape   Shape
		wantErr bool
	}{
		{name: "Circle", shape: Shape{Kind: ShapeCircle, Center: center, Radius: 100}},
		{name: "CircleNoCenter", shape: Shape{Kind: ShapeCircle, Radius: 100}, wantErr: true},
		{name: "CircleZeroRadius", shape: Shape{Kind: ShapeCircle, Center: center}, wantErr: true},
		{name: "Rectangle", shape: Shape{Kind: ShapeRectangle, Path: path(2)}},
		{name: "RectangleThreeCorners", shape: Shape{Kind: ShapeRectangle, Path: path(3)}, wantErr: true},
		{name: "Polygon", shape: Shape{Kind: ShapePolygon, Path: path(3)}},
		{name: "PolygonTooFew", shape: Shape{Kind: ShapePolygon, Path: path(2)}, wantErr: true},
		{name: "Polyline", shape: Shape{Kind: ShapePolyline, Path: path(2)}},
		{name: "PolylineOnePoint", shape: Shape{Kind: ShapePolyline, Path: path(1)}, wantErr: true},
		{name: "UnknownKind", shape: Shape{Kind: "ellipse"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLatLngValidate(t *testing.T) {
	if err := (LatLng{Lat: 11.5, Lng: 104.9}).Validate(); err != nil {
		t.Errorf("valid position rejected: %v", err)
	}
	if err := (LatLng{Lat: 90.1, Lng: 0}).Validate(); err == nil {
		t.Error("latitude above 90 should be rejected")
	}
	if err := (LatLng{Lat: 0, Lng: -180.1}).Validate(); err == nil {
		t.Error("longitude below -180 should be rejected")
	}
}
