package mapstate

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"whollycity/internal/models"
)

// DrawMode is the shape kind a drawing session is armed for.
type DrawMode string

const (
	DrawMarker    DrawMode = "marker"
	DrawCircle    DrawMode = "circle"
	DrawPolygon   DrawMode = "polygon"
	DrawPolyline  DrawMode = "polyline"
	DrawRectangle DrawMode = "rectangle"
)

// ValidateDrawMode checks the mode against the known set.
func ValidateDrawMode(mode DrawMode) error {
	switch mode {
	case DrawMarker, DrawCircle, DrawPolygon, DrawPolyline, DrawRectangle:
		return nil
	default:
		return fmt.Errorf("invalid draw mode: %s", mode)
	}
}

// Overlay is one completed drawing, as reported by the map client. The field
// set used depends on Mode.
type Overlay struct {
	Mode      DrawMode        `json:"mode"`
	Point     *models.LatLng  `json:"point,omitempty"`
	Center    *models.LatLng  `json:"center,omitempty"`
	Radius    float64         `json:"radius,omitempty"`
	Path      []models.LatLng `json:"path,omitempty"`
	SouthWest *models.LatLng  `json:"south_west,omitempty"`
	NorthEast *models.LatLng  `json:"north_east,omitempty"`
}

// Session is one report draft with its drawing state machine:
// idle -> drawing(mode) -> idle. At most one uncommitted overlay exists at a
// time; completing a new one discards the previous. Non-marker modes disarm
// after a single completion, marker mode stays armed.
type Session struct {
	mu      sync.Mutex
	mode    DrawMode
	armed   bool
	overlay *Overlay
	draft   models.ReportDraft
}

// NewSession returns an idle session with a fresh anonymous draft.
func NewSession() *Session {
	return &Session{
		mode: DrawMarker,
		draft: models.ReportDraft{
			ReportedBy: models.Reporter{UserID: models.AnonymousUserID, Name: models.AnonymousUserName},
		},
	}
}

// Arm enters drawing state for the given mode.
func (s *Session) Arm(mode DrawMode) error {
	if err := ValidateDrawMode(mode); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.armed = true
	return nil
}

// Disarm returns the session to idle without touching the draft.
func (s *Session) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
}

// Armed reports the drawing state and, when armed, the mode.
func (s *Session) Armed() (bool, DrawMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed, s.mode
}

// CompleteOverlay records a finished drawing: it replaces any uncommitted
// overlay, writes the draft's location fields, and disarms for every mode
// except marker.
func (s *Session) CompleteOverlay(o Overlay) error {
	if err := ValidateDrawMode(o.Mode); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		return fmt.Errorf("session is not in drawing state")
	}

	s.overlay = &o

	switch o.Mode {
	case DrawMarker:
		if o.Point == nil {
			return fmt.Errorf("marker overlay requires a point")
		}
		lat, lng := o.Point.Lat, o.Point.Lng
		s.draft.Lat = &lat
		s.draft.Lng = &lng
		s.draft.LocationText = rawPair(*o.Point)
	case DrawCircle:
		if o.Center == nil {
			return fmt.Errorf("circle overlay requires a center")
		}
		// The report form stores the center twice; the radius stays on the
		// overlay for the shape record.
		s.draft.LocationText = rawPair(*o.Center) + "; " + rawPair(*o.Center)
	case DrawPolygon, DrawPolyline:
		if len(o.Path) == 0 {
			return fmt.Errorf("%s overlay requires a path", o.Mode)
		}
		s.draft.LocationText = rawPath(o.Path)
	case DrawRectangle:
		if o.SouthWest == nil || o.NorthEast == nil {
			return fmt.Errorf("rectangle overlay requires both corners")
		}
		s.draft.LocationText = rawPair(*o.SouthWest) + "; " + rawPair(*o.NorthEast)
	}

	if o.Mode != DrawMarker {
		s.armed = false
	}
	return nil
}

// Overlay returns the current uncommitted overlay, or nil.
func (s *Session) Overlay() *Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlay == nil {
		return nil
	}
	o := *s.overlay
	return &o
}

// Draft returns a copy of the draft.
func (s *Session) Draft() models.ReportDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDetails merges user-entered form fields into the draft. Location fields
// are only replaced when the incoming draft carries them, so manual
// coordinate entry works while drawn locations survive detail edits.
func (s *Session) SetDetails(d models.ReportDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := s.draft.LocationText
	lat, lng := s.draft.Lat, s.draft.Lng

	s.draft = d
	if d.LocationText == "" {
		s.draft.LocationText = loc
	}
	if d.Lat == nil {
		s.draft.Lat = lat
	}
	if d.Lng == nil {
		s.draft.Lng = lng
	}
	if s.draft.ReportedBy.UserID == "" {
		s.draft.ReportedBy = models.Reporter{UserID: models.AnonymousUserID, Name: models.AnonymousUserName}
	}
}

// Reset discards the draft and overlay, returning to a fresh idle session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
	s.overlay = nil
	s.draft = models.ReportDraft{
		ReportedBy: models.Reporter{UserID: models.AnonymousUserID, Name: models.AnonymousUserName},
	}
}

// SessionManager tracks active drawing sessions by ID.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager returns an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create registers a fresh session and returns its ID.
func (m *SessionManager) Create() (string, *Session) {
	id := uuid.NewString()
	session := NewSession()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = session
	return id, session
}

// Get returns the session by ID.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete discards the session.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// rawPair formats a point the way the drawing flow always has: bare floats,
// no padding. The parser accepts both this and the 6-decimal form.
func rawPair(p models.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func rawPath(path []models.LatLng) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = rawPair(p)
	}
	return strings.Join(parts, "; ")
}
