package models

import "fmt"

// ShapeKind discriminates the persisted drawn overlays.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapePolygon   ShapeKind = "polygon"
	ShapePolyline  ShapeKind = "polyline"
	ShapeRectangle ShapeKind = "rectangle"
)

// ValidateShapeKind checks the kind against the known set.
func ValidateShapeKind(kind ShapeKind) error {
	switch kind {
	case ShapeCircle, ShapePolygon, ShapePolyline, ShapeRectangle:
		return nil
	default:
		return fmt.Errorf("invalid shape kind: %s", kind)
	}
}

// Shape is a drawn region rendered as a static overlay. Circles carry
// Center+Radius; the others carry an ordered Path (a rectangle stores its two
// opposite corners). Shapes are created and listed only; no update or delete
// path exists.
type Shape struct {
	ID     string    `json:"id,omitempty"`
	Kind   ShapeKind `json:"type"`
	Center *LatLng   `json:"center,omitempty"`
	Radius float64   `json:"radius,omitempty"` // meters
	Path   []LatLng  `json:"path,omitempty"`
}

// Validate ensures the shape carries the geometry its kind requires.
func (s *Shape) Validate() error {
	if err := ValidateShapeKind(s.Kind); err != nil {
		return err
	}
	switch s.Kind {
	case ShapeCircle:
		if s.Center == nil {
			return fmt.Errorf("circle requires a center")
		}
		if s.Radius <= 0 {
			return fmt.Errorf("circle requires a positive radius")
		}
		return s.Center.Validate()
	case ShapeRectangle:
		if len(s.Path) != 2 {
			return fmt.Errorf("rectangle requires exactly 2 corner points, got %d", len(s.Path))
		}
	case ShapePolygon:
		if len(s.Path) < 3 {
			return fmt.Errorf("polygon requires at least 3 points, got %d", len(s.Path))
		}
	case ShapePolyline:
		if len(s.Path) < 2 {
			return fmt.Errorf("polyline requires at least 2 points, got %d", len(s.Path))
		}
	}
	for _, p := range s.Path {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
