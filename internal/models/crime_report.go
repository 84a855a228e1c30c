package models

import (
	"fmt"
	"time"
)

// Defaults applied to crime reports when the reporter leaves them blank.
const (
	AnonymousUserID   = "anonymous"
	AnonymousUserName = "Anonymous"
	StatusPending     = "Pending Investigation"
)

// Reporter identifies who filed a crime report.
type Reporter struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// CrimeReport is a filed report persisted in its own collection and projected
// onto the map as a crime marker.
type CrimeReport struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CrimeType   string   `json:"crimeType"`
	Timestamp   int64    `json:"timestamp"` // epoch milliseconds
	Location    LatLng   `json:"location"`
	Address     string   `json:"address"`
	ReportedBy  Reporter `json:"reportedBy"`
	Status      string   `json:"status"`
	Attachments []string `json:"attachments"`
}

// ApplyDefaults fills the anonymous reporter, pending status, and current
// timestamp where the caller left zero values.
func (r *CrimeReport) ApplyDefaults(now time.Time) {
	if r.CrimeType == "" {
		r.CrimeType = "Unknown"
	}
	if r.Timestamp == 0 {
		r.Timestamp = now.UnixMilli()
	}
	if r.ReportedBy.UserID == "" {
		r.ReportedBy = Reporter{UserID: AnonymousUserID, Name: AnonymousUserName}
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Attachments == nil {
		r.Attachments = []string{}
	}
}

// Validate ensures the report carries a title and a usable location.
func (r *CrimeReport) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	return r.Location.Validate()
}

// CreatedTime converts the epoch timestamp, falling back to now for records
// written without one.
func (r *CrimeReport) CreatedTime(now time.Time) time.Time {
	if r.Timestamp == 0 {
		return now
	}
	return time.UnixMilli(r.Timestamp)
}

// ToMarker projects the report into the marker shape the map renders. The
// title falls back to the crime type, then a fixed label; the first
// attachment becomes the marker image.
func (r *CrimeReport) ToMarker(now time.Time) Marker {
	title := r.Title
	if title == "" {
		title = r.CrimeType
	}
	if title == "" {
		title = "Crime reported"
	}
	var image string
	if len(r.Attachments) > 0 {
		image = r.Attachments[0]
	}
	return Marker{
		Title:     title,
		Type:      "crime",
		Position:  r.Location,
		ImageURL:  image,
		ReportID:  r.ID,
		CreatedAt: r.CreatedTime(now),
	}
}

// ExtractLocation normalizes the location field across the naming conventions
// found in stored documents: latitude/longitude, lat/lng, and the _lat/_long
// form older geopoint records used.
func ExtractLocation(raw map[string]any) (LatLng, bool) {
	if raw == nil {
		return LatLng{}, false
	}
	pairs := [][2]string{
		{"latitude", "longitude"},
		{"lat", "lng"},
		{"_lat", "_long"},
	}
	for _, keys := range pairs {
		lat, okLat := toFloat(raw[keys[0]])
		lng, okLng := toFloat(raw[keys[1]])
		if okLat && okLng {
			return LatLng{Lat: lat, Lng: lng}, true
		}
	}
	return LatLng{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
