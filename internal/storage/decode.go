package storage

import (
	"time"

	json "github.com/goccy/go-json"
	pbModels "github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/tools/types"

	"whollycity/internal/models"
)

// This file is the single decode boundary between stored records and typed
// models. Every default and every tolerated legacy field convention lives
// here; the rest of the codebase never sees a partially-populated record.

func decodeMarker(record *pbModels.Record) models.Marker {
	return models.Marker{
		ID:          record.Id,
		Title:       stringOr(record, "title", "Untitled"),
		Type:        record.GetString("type"),
		Position:    models.LatLng{Lat: record.GetFloat("lat"), Lng: record.GetFloat("lng")},
		Description: record.GetString("description"),
		ImageURL:    record.GetString("image_url"),
		ReportID:    record.GetString("report_id"),
		CreatedAt:   dateOr(record, "created_at", record.Created.Time()),
		Version:     record.GetInt("version"),
	}
}

// decodeCrimeReport returns false when the stored location is unusable under
// every known field convention; such records are skipped, not guessed at.
func decodeCrimeReport(record *pbModels.Record) (models.CrimeReport, bool) {
	var rawLocation map[string]any
	jsonField(record, "location", &rawLocation)
	location, ok := models.ExtractLocation(rawLocation)
	if !ok {
		return models.CrimeReport{}, false
	}

	reporter := models.Reporter{UserID: models.AnonymousUserID, Name: models.AnonymousUserName}
	jsonField(record, "reported_by", &reporter)
	if reporter.UserID == "" {
		reporter = models.Reporter{UserID: models.AnonymousUserID, Name: models.AnonymousUserName}
	}

	attachments := []string{}
	jsonField(record, "attachments", &attachments)

	return models.CrimeReport{
		ID:          record.Id,
		Title:       record.GetString("title"),
		Description: record.GetString("description"),
		CrimeType:   stringOr(record, "crime_type", "Unknown"),
		Timestamp:   int64(record.GetFloat("timestamp")),
		Location:    location,
		Address:     record.GetString("address"),
		ReportedBy:  reporter,
		Status:      stringOr(record, "status", models.StatusPending),
		Attachments: attachments,
	}, true
}

func decodeShape(record *pbModels.Record) (models.Shape, bool) {
	shape := models.Shape{
		ID:     record.Id,
		Kind:   models.ShapeKind(record.GetString("kind")),
		Radius: record.GetFloat("radius"),
	}
	if models.ValidateShapeKind(shape.Kind) != nil {
		return models.Shape{}, false
	}

	var center models.LatLng
	if jsonField(record, "center", &center) {
		shape.Center = &center
	}
	jsonField(record, "path", &shape.Path)

	if shape.Validate() != nil {
		return models.Shape{}, false
	}
	return shape, true
}

func decodeArticle(record *pbModels.Record) models.NewsArticle {
	tags := []string{}
	jsonField(record, "tags", &tags)

	status := models.ArticleStatus(record.GetString("status"))
	if models.ValidateArticleStatus(status) != nil {
		status = models.StatusDraft
	}

	return models.NewsArticle{
		ID:                   record.Id,
		Title:                stringOr(record, "title", "Untitled"),
		Content:              record.GetString("content"),
		Summary:              record.GetString("summary"),
		Author:               stringOr(record, "author", "Unknown"),
		Category:             stringOr(record, "category", "General"),
		Status:               status,
		Tags:                 tags,
		FeaturedImage:        record.GetString("featured_image"),
		PoliticalPerspective: record.GetString("political_perspective"),
		CambodiaImpact:       record.GetString("cambodia_impact"),
		CreatedAt:            dateOr(record, "created_at", record.Created.Time()),
		UpdatedAt:            dateOr(record, "updated_at", record.Created.Time()),
		PublishedAt:          dateOr(record, "published_at", time.Time{}),
		Views:                record.GetInt("views"),
		Version:              record.GetInt("version"),
	}
}

func decodeContentItem(record *pbModels.Record) models.ContentItem {
	ctype := models.ContentType(record.GetString("type"))
	if models.ValidateContentType(ctype) != nil {
		ctype = models.ContentArticle
	}
	status := models.ArticleStatus(record.GetString("status"))
	if models.ValidateArticleStatus(status) != nil {
		status = models.StatusDraft
	}

	return models.ContentItem{
		ID:        record.Id,
		Title:     stringOr(record, "title", "Untitled"),
		Type:      ctype,
		Status:    status,
		Author:    stringOr(record, "author", "Unknown"),
		CreatedAt: dateOr(record, "created_at", record.Created.Time()),
		UpdatedAt: dateOr(record, "updated_at", time.Time{}),
		ViewCount: record.GetInt("view_count"),
	}
}

func decodeUser(record *pbModels.Record, role string) models.User {
	username := record.Username()
	if username == "" {
		username = record.GetString("name")
	}
	return models.User{
		ID:         record.Id,
		Email:      record.Email(),
		Username:   username,
		Role:       role,
		CreatedAt:  record.Created.Time(),
		LastActive: dateOr(record, "last_active", time.Time{}),
		IsActive:   record.GetBool("is_active"),
	}
}

func stringOr(record *pbModels.Record, key, fallback string) string {
	if v := record.GetString(key); v != "" {
		return v
	}
	return fallback
}

func dateOr(record *pbModels.Record, key string, fallback time.Time) time.Time {
	dt := record.GetDateTime(key)
	if dt.IsZero() {
		return fallback
	}
	return dt.Time()
}

// encodeJSON marshals v into the raw value JSON-typed fields store.
func encodeJSON(v any) types.JsonRaw {
	raw, err := json.Marshal(v)
	if err != nil {
		return types.JsonRaw("null")
	}
	return types.JsonRaw(raw)
}

// jsonField decodes a JSON-typed field into out, tolerating the raw byte,
// string, and already-decoded representations records surface.
func jsonField(record *pbModels.Record, key string, out any) bool {
	switch v := record.Get(key).(type) {
	case nil:
		return false
	case types.JsonRaw:
		if len(v) == 0 {
			return false
		}
		return json.Unmarshal(v, out) == nil
	case []byte:
		if len(v) == 0 {
			return false
		}
		return json.Unmarshal(v, out) == nil
	case string:
		if v == "" {
			return false
		}
		return json.Unmarshal([]byte(v), out) == nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return false
		}
		return json.Unmarshal(raw, out) == nil
	}
}
