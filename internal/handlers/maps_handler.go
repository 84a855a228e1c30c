package handlers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"whollycity/internal/geo"
	"whollycity/internal/icon"
	"whollycity/internal/mapstate"
	"whollycity/internal/models"
	"whollycity/internal/storage"
)

// MapsHandler serves the map surface: markers, shapes, drawing sessions,
// report saving, and marker icons.
type MapsHandler struct {
	store    *storage.PocketBaseStore
	markers  *mapstate.MarkerStore
	sessions *mapstate.SessionManager
	icons    *icon.Renderer
	mapsKey  string
}

func NewMapsHandler(store *storage.PocketBaseStore, markers *mapstate.MarkerStore, sessions *mapstate.SessionManager, icons *icon.Renderer, mapsKey string) *MapsHandler {
	return &MapsHandler{
		store:    store,
		markers:  markers,
		sessions: sessions,
		icons:    icons,
		mapsKey:  mapsKey,
	}
}

// HandleMapConfig reports whether map features are enabled. An empty key
// degrades the client to list views instead of failing.
func (h *MapsHandler) HandleMapConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"maps_enabled": h.mapsKey != "",
		"maps_api_key": h.mapsKey,
	})
}

// HandleGetMarkers returns the markers visible in the current date window.
// Optional mode (today/week/month) and anchor (YYYY-MM-DD) query params move
// the window before filtering.
func (h *MapsHandler) HandleGetMarkers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	mode, err := geo.ParseMode(query.Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	anchor, err := parseAnchor(query.Get("anchor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid anchor date, expected YYYY-MM-DD")
		return
	}

	window := geo.CalculateRange(anchor, mode)

	writeJSON(w, http.StatusOK, map[string]any{
		"window": map[string]any{
			"start": window.Start,
			"end":   window.End,
			"label": window.Label(mode),
		},
		"markers": h.markers.VisibleIn(window),
	})
}

// parseAnchor reads the optional anchor query param. Windows are computed in
// host-local time, so the anchor date is parsed in the same zone.
func parseAnchor(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

// HandleCreateMarker persists a marker and adds it to the live map state.
func (h *MapsHandler) HandleCreateMarker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var marker models.Marker
	if err := json.NewDecoder(r.Body).Decode(&marker); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if marker.CreatedAt.IsZero() {
		marker.CreatedAt = time.Now()
	}
	if err := marker.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveMarker(&marker); err != nil {
		writeStoreError(w, err, "Error saving marker")
		return
	}
	h.markers.Add(marker)

	writeJSON(w, http.StatusCreated, marker)
}

// HandleUpdateMarker overwrites a marker. A stale version in the body is
// rejected with 409 so concurrent editors cannot silently clobber each
// other.
func (h *MapsHandler) HandleUpdateMarker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	var marker models.Marker
	if err := json.NewDecoder(r.Body).Decode(&marker); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	marker.ID = id
	if err := marker.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.UpdateMarker(&marker); err != nil {
		writeStoreError(w, err, "Error updating marker")
		return
	}
	h.markers.Update(marker)

	writeJSON(w, http.StatusOK, marker)
}

// HandleDeleteMarker removes a marker from the store and the live map state.
func (h *MapsHandler) HandleDeleteMarker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if err := h.store.DeleteMarker(id); err != nil {
		writeStoreError(w, err, "Error deleting marker")
		return
	}
	h.markers.Remove(id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Marker deleted successfully"})
}

// HandleMarkerIcon renders the circular photo icon for a marker. The ring
// color follows the marker type.
func (h *MapsHandler) HandleMarkerIcon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	marker, err := h.store.GetMarker(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Error fetching marker")
		return
	}
	if marker.ImageURL == "" {
		writeError(w, http.StatusNotFound, "Marker has no image")
		return
	}

	png, err := h.icons.Icon(r.Context(), marker.ImageURL, marker.Type)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to render marker icon")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

// HandleGetShapes returns every stored shape.
func (h *MapsHandler) HandleGetShapes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shapes, err := h.store.ListShapes()
	if err != nil {
		writeStoreError(w, err, "Error fetching shapes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":  len(shapes),
		"shapes": shapes,
	})
}

// HandleSaveReport persists a report draft. The location text decides what
// gets written: a single point becomes a marker (plus a crime report when
// the type is crime), a multi-point geometry becomes a shape, and
// unparseable text is a harmless no-op.
func (h *MapsHandler) HandleSaveReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var draft models.ReportDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := time.Now()
	parsed := parseDraftLocation(draft)
	switch {
	case parsed == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "No location to save"})

	case parsed.Point != nil:
		if draft.Type == "crime" {
			h.saveCrimeReport(w, draft, *parsed.Point, now)
			return
		}
		h.savePlainMarker(w, draft, *parsed.Point, now)

	default:
		shape := parsed.Shape()
		if err := h.store.SaveShape(shape); err != nil {
			writeStoreError(w, err, "Error saving shape")
			return
		}
		writeJSON(w, http.StatusCreated, shape)
	}
}

func (h *MapsHandler) saveCrimeReport(w http.ResponseWriter, draft models.ReportDraft, pos models.LatLng, now time.Time) {
	report := models.CrimeReport{
		Title:       draft.Title,
		Description: draft.Description,
		CrimeType:   draft.CrimeType,
		Location:    pos,
		Address:     draft.Address,
		ReportedBy:  draft.ReportedBy,
		Attachments: draft.Attachments,
	}
	if report.Title == "" {
		report.Title = "Crime reported"
	}
	report.ApplyDefaults(now)

	if err := h.store.SaveCrimeReport(&report); err != nil {
		writeStoreError(w, err, "Error saving crime report")
		return
	}

	marker := report.ToMarker(now)
	marker.Description = draft.Description
	if marker.ImageURL == "" {
		marker.ImageURL = draft.ImageURL
	}
	if err := h.store.SaveMarker(&marker); err != nil {
		writeStoreError(w, err, "Error saving marker")
		return
	}
	h.markers.Add(marker)

	writeJSON(w, http.StatusCreated, map[string]any{
		"report": report,
		"marker": marker,
	})
}

func (h *MapsHandler) savePlainMarker(w http.ResponseWriter, draft models.ReportDraft, pos models.LatLng, now time.Time) {
	title := draft.Title
	if title == "" {
		title = "Untitled"
	}
	marker := models.Marker{
		Title:       title,
		Type:        draft.Type,
		Position:    pos,
		Description: draft.Description,
		ImageURL:    draft.ImageURL,
		CreatedAt:   now,
	}

	if err := h.store.SaveMarker(&marker); err != nil {
		writeStoreError(w, err, "Error saving marker")
		return
	}
	h.markers.Add(marker)

	writeJSON(w, http.StatusCreated, marker)
}

// parseDraftLocation prefers explicit coordinates over the free-text
// location.
func parseDraftLocation(draft models.ReportDraft) *geo.ParseResult {
	if draft.Lat != nil && draft.Lng != nil {
		return &geo.ParseResult{Point: &models.LatLng{Lat: *draft.Lat, Lng: *draft.Lng}}
	}
	return geo.ParseLocation(draft.LocationText)
}

// HandleCreateDraft opens a new drawing session.
func (h *MapsHandler) HandleCreateDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, session := h.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    id,
		"draft": session.Draft(),
	})
}

// HandleGetDraft returns the session's draft and drawing state.
func (h *MapsHandler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Draft session not found")
		return
	}
	armed, mode := session.Armed()
	writeJSON(w, http.StatusOK, map[string]any{
		"armed":   armed,
		"mode":    mode,
		"overlay": session.Overlay(),
		"draft":   session.Draft(),
	})
}

// HandleUpdateDraft merges report details into the session draft.
func (h *MapsHandler) HandleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Draft session not found")
		return
	}

	var details models.ReportDraft
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	session.SetDetails(details)

	writeJSON(w, http.StatusOK, session.Draft())
}

// HandleDraftMode arms or disarms the session's drawing tool.
func (h *MapsHandler) HandleDraftMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Draft session not found")
		return
	}

	var body struct {
		Mode  mapstate.DrawMode `json:"mode"`
		Armed *bool             `json:"armed,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if body.Armed != nil && !*body.Armed {
		session.Disarm()
	} else if err := session.Arm(body.Mode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	armed, mode := session.Armed()
	writeJSON(w, http.StatusOK, map[string]any{"armed": armed, "mode": mode})
}

// HandleDraftOverlay records a finished drawing in the session.
func (h *MapsHandler) HandleDraftOverlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Draft session not found")
		return
	}

	var overlay mapstate.Overlay
	if err := json.NewDecoder(r.Body).Decode(&overlay); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := session.CompleteOverlay(overlay); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overlay": session.Overlay(),
		"draft":   session.Draft(),
	})
}

// HandleDeleteDraft discards a drawing session.
func (h *MapsHandler) HandleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.sessions.Delete(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Draft session discarded"})
}
