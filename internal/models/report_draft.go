package models

// ReportDraft is the ephemeral in-progress input for creating a marker or
// crime report. It lives only inside a drawing session; on save it is
// converted into a Marker plus an optional CrimeReport or Shape, then
// discarded.
type ReportDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	CrimeType    string   `json:"crimeType,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	LocationText string   `json:"locationText"`
	Address      string   `json:"address,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Attachments  []string `json:"attachments,omitempty"`
	ReportedBy   Reporter `json:"reportedBy,omitempty"`
}
