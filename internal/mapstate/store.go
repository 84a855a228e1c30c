// Package mapstate holds the server-side map state: the marker list with its
// date-window projection, and the drawing sessions backing the report form.
package mapstate

import (
	"sync"
	"time"

	"whollycity/internal/geo"
	"whollycity/internal/models"
)

// MarkerStore keeps the full marker list. Date filtering is a read-side
// projection (VisibleIn): every request computes its own window view, so
// concurrent clients asking for different windows never see each other's
// filter.
type MarkerStore struct {
	mu  sync.Mutex
	all []models.Marker
}

func NewMarkerStore() *MarkerStore {
	return &MarkerStore{}
}

// Load replaces the full list.
func (s *MarkerStore) Load(markers []models.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append([]models.Marker(nil), markers...)
}

// Add appends a marker.
func (s *MarkerStore) Add(m models.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, m)
}

// Update replaces the marker with the same ID.
func (s *MarkerStore) Update(m models.Marker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.all {
		if s.all[i].ID == m.ID {
			s.all[i] = m
			return true
		}
	}
	return false
}

// Remove deletes the marker by ID from the full list.
func (s *MarkerStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.all[:0]
	removed := false
	for _, m := range s.all {
		if m.ID == id {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	s.all = kept
	return removed
}

// VisibleIn returns the markers whose creation time falls inside the window,
// in list order. Markers without a creation time always pass. The projection
// is computed under the lock and never stored, so it is safe for concurrent
// requests with different windows.
func (s *MarkerStore) VisibleIn(window geo.Range) []models.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := make([]models.Marker, 0, len(s.all))
	for _, m := range s.all {
		if window.Contains(m.CreatedAt) {
			visible = append(visible, m)
		}
	}
	return visible
}

// All returns a copy of the full marker list.
func (s *MarkerStore) All() []models.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Marker(nil), s.all...)
}

// MergeCrimeMarkers appends a projected marker for every crime report that
// has no stored marker record of its own, keyed by report ID. Reports whose
// marker write failed (or predates the marker collection) still reach the
// map this way.
func MergeCrimeMarkers(markers []models.Marker, reports []models.CrimeReport, now time.Time) []models.Marker {
	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		if m.ReportID != "" {
			seen[m.ReportID] = true
		}
	}

	out := append([]models.Marker(nil), markers...)
	for _, r := range reports {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		out = append(out, r.ToMarker(now))
	}
	return out
}
