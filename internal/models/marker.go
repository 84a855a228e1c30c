package models

import (
	"fmt"
	"time"
)

// LatLng is a geographic point in floating point degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects coordinates outside the valid degree ranges.
func (p LatLng) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude out of range: %v", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude out of range: %v", p.Lng)
	}
	return nil
}

// Marker is a single geotagged point shown on the map. ID is empty until the
// record is persisted and backfilled by the store.
type Marker struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Type        string    `json:"type,omitempty"`
	Position    LatLng    `json:"position"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	ReportID    string    `json:"report_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	Version     int       `json:"version,omitempty"`
}

// Validate ensures required fields are present and the position is on Earth.
func (m *Marker) Validate() error {
	if m.Title == "" {
		return fmt.Errorf("title is required")
	}
	return m.Position.Validate()
}
