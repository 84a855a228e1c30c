package models

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	report := CrimeReport{Title: "Theft", Location: LatLng{Lat: 11.5, Lng: 104.9}}
	report.ApplyDefaults(now)

	if report.CrimeType != "Unknown" {
		t.Errorf("CrimeType = %q, want Unknown", report.CrimeType)
	}
	if report.Timestamp != now.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", report.Timestamp, now.UnixMilli())
	}
	if report.ReportedBy.UserID != AnonymousUserID || report.ReportedBy.Name != AnonymousUserName {
		t.Errorf("ReportedBy = %+v, want anonymous", report.ReportedBy)
	}
	if report.Status != StatusPending {
		t.Errorf("Status = %q, want %q", report.Status, StatusPending)
	}
	if report.Attachments == nil {
		t.Error("Attachments should be non-nil after defaults")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	report := CrimeReport{
		Title:      "Theft",
		CrimeType:  "Robbery",
		Timestamp:  1000,
		ReportedBy: Reporter{UserID: "u1", Name: "Dara"},
		Status:     "Resolved",
		Location:   LatLng{Lat: 11.5, Lng: 104.9},
	}
	report.ApplyDefaults(now)

	if report.CrimeType != "Robbery" || report.Timestamp != 1000 ||
		report.ReportedBy.UserID != "u1" || report.Status != "Resolved" {
		t.Errorf("defaults overwrote explicit values: %+v", report)
	}
}

func TestToMarkerTitleFallback(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		report CrimeReport
		want   string
	}{
		{name: "TitleWins", report: CrimeReport{Title: "Break-in", CrimeType: "Burglary"}, want: "Break-in"},
		{name: "CrimeTypeFallback", report: CrimeReport{CrimeType: "Burglary"}, want: "Burglary"},
		{name: "FixedFallback", report: CrimeReport{}, want: "Crime reported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker := tt.report.ToMarker(now)
			if marker.Title != tt.want {
				t.Errorf("Title = %q, want %q", marker.Title, tt.want)
			}
			if marker.Type != "crime" {
				t.Errorf("Type = %q, want crime", marker.Type)
			}
		})
	}
}

func TestToMarkerUsesFirstAttachment(t *testing.T) {
	report := CrimeReport{
		ID:          "r1",
		Title:       "Theft",
		Location:    LatLng{Lat: 11.5, Lng: 104.9},
		Attachments: []string{"/uploads/a.jpg", "/uploads/b.jpg"},
		Timestamp:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
	}

	marker := report.ToMarker(time.Now())
	if marker.ImageURL != "/uploads/a.jpg" {
		t.Errorf("ImageURL = %q, want first attachment", marker.ImageURL)
	}
	if marker.ReportID != "r1" {
		t.Errorf("ReportID = %q, want r1", marker.ReportID)
	}
	if !marker.CreatedAt.Equal(time.UnixMilli(report.Timestamp)) {
		t.Errorf("CreatedAt = %v, want report timestamp", marker.CreatedAt)
	}
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want LatLng
		ok   bool
	}{
		{name: "LatitudeLongitude", raw: map[string]any{"latitude": 11.5, "longitude": 104.9}, want: LatLng{Lat: 11.5, Lng: 104.9}, ok: true},
		{name: "LatLng", raw: map[string]any{"lat": 11.5, "lng": 104.9}, want: LatLng{Lat: 11.5, Lng: 104.9}, ok: true},
		{name: "GeopointUnderscores", raw: map[string]any{"_lat": 11.5, "_long": 104.9}, want: LatLng{Lat: 11.5, Lng: 104.9}, ok: true},
		{name: "IntegerCoordinates", raw: map[string]any{"lat": 11, "lng": 104}, want: LatLng{Lat: 11, Lng: 104}, ok: true},
		{name: "PrefersFullNames", raw: map[string]any{"latitude": 1.0, "longitude": 2.0, "lat": 9.0, "lng": 9.0}, want: LatLng{Lat: 1, Lng: 2}, ok: true},
		{name: "MissingPair", raw: map[string]any{"lat": 11.5}, ok: false},
		{name: "NonNumeric", raw: map[string]any{"lat": "11.5", "lng": "104.9"}, ok: false},
		{name: "Nil", raw: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractLocation(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractLocation() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCrimeReportValidate(t *testing.T) {
	valid := CrimeReport{Title: "Theft", Location: LatLng{Lat: 11.5, Lng: 104.9}}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid report rejected: %v", err)
	}

	missing := CrimeReport{Location: LatLng{Lat: 11.5, Lng: 104.9}}
	if err := missing.Validate(); err == nil {
		t.Error("report without title should be rejected")
	}

	badLocation := CrimeReport{Title: "Theft", Location: LatLng{Lat: 95, Lng: 104.9}}
	if err := badLocation.Validate(); err == nil {
		t.Error("report with out-of-range latitude should be rejected")
	}
}
