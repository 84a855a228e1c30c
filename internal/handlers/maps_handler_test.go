package handlers

import (
	"testing"
	"time"

	"whollycity/internal/geo"
)

func TestParseAnchor(t *testing.T) {
	got, err := parseAnchor("2025-06-15")
	if err != nil {
		t.Fatalf("parseAnchor: %v", err)
	}

	// Date windows are built in host-local time, so the anchor has to land in
	// the same zone. A UTC-parsed anchor shifts the window by the zone offset
	// and drops markers filed near midnight.
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("parseAnchor = %v, want %v", got, want)
	}

	window := geo.CalculateRange(got, geo.ModeToday)
	if !window.Contains(time.Date(2025, 6, 15, 0, 30, 0, 0, time.Local)) {
		t.Error("window misses a local early-morning instant on the anchor day")
	}
	if window.Contains(time.Date(2025, 6, 16, 0, 30, 0, 0, time.Local)) {
		t.Error("window leaks into the next local day")
	}

	if _, err := parseAnchor("15/06/2025"); err == nil {
		t.Error("expected an error for a non-ISO anchor")
	}

	fallback, err := parseAnchor("")
	if err != nil {
		t.Fatalf("empty anchor: %v", err)
	}
	if time.Since(fallback) > time.Minute {
		t.Errorf("empty anchor should default to now, got %v", fallback)
	}
}
