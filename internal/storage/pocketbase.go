// Package storage is the gateway to the embedded PocketBase app: the
// document collections, the auth records, and nothing else. All record
// decoding lives in decode.go so schema drift is handled in exactly one
// place.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	pbModels "github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/models/schema"

	"whollycity/internal/logging"
)

// Collection names. One canonical name per entity; older deployments wrote
// crime reports under a different Firestore-era name, which the decode layer
// tolerates but the store never writes.
const (
	CollectionMarkers      = "markers"
	CollectionCrimeReports = "crime_reports"
	CollectionShapes       = "shapes"
	CollectionNewsArticles = "news_articles"
	CollectionContentItems = "content_items"
	CollectionUsers        = "users"
)

// ErrVersionConflict is returned when an update carries a stale version.
var ErrVersionConflict = errors.New("record version conflict")

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// PocketBaseStore wraps the embedded PocketBase instance.
type PocketBaseStore struct {
	app        *pocketbase.PocketBase
	fetchLimit int
}

// NewPocketBaseStore boots PocketBase against the data directory and ensures
// every collection exists. fetchLimit caps every list read.
func NewPocketBaseStore(dataDir string, fetchLimit int) (*PocketBaseStore, error) {
	app := pocketbase.New()

	app.RootCmd.SetArgs([]string{"serve", "--dir", dataDir, "--http", "127.0.0.1:8090"})

	go func() {
		if err := app.Start(); err != nil {
			logging.Error().Err(err).Msg("pocketbase serve stopped")
		}
	}()

	// Give the serve goroutine a moment before bootstrapping on top of it.
	time.Sleep(time.Second)

	if err := app.Bootstrap(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap PocketBase: %w", err)
	}

	store := &PocketBaseStore{app: app, fetchLimit: fetchLimit}
	if err := store.ensureCollections(); err != nil {
		return nil, fmt.Errorf("failed to ensure collections exist: %w", err)
	}
	return store, nil
}

// GetPocketBase exposes the underlying app for the auth layer.
func (s *PocketBaseStore) GetPocketBase() *pocketbase.PocketBase {
	return s.app
}

// FetchLimit returns the configured list cap.
func (s *PocketBaseStore) FetchLimit() int {
	return s.fetchLimit
}

func (s *PocketBaseStore) ensureCollections() error {
	defs := []struct {
		name   string
		schema schema.Schema
	}{
		{CollectionMarkers, schema.NewSchema(
			&schema.SchemaField{Name: "title", Type: schema.FieldTypeText, Required: true},
			&schema.SchemaField{Name: "type", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "lat", Type: schema.FieldTypeNumber},
			&schema.SchemaField{Name: "lng", Type: schema.FieldTypeNumber},
			&schema.SchemaField{Name: "description", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "image_url", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "report_id", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "created_at", Type: schema.FieldTypeDate},
			&schema.SchemaField{Name: "version", Type: schema.FieldTypeNumber},
		)},
		{CollectionCrimeReports, schema.NewSchema(
			&schema.SchemaField{Name: "title", Type: schema.FieldTypeText, Required: true},
			&schema.SchemaField{Name: "description", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "crime_type", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "timestamp", Type: schema.FieldTypeNumber},
			&schema.SchemaField{Name: "location", Type: schema.FieldTypeJson},
			&schema.SchemaField{Name: "address", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "reported_by", Type: schema.FieldTypeJson},
			&schema.SchemaField{Name: "status", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "attachments", Type: schema.FieldTypeJson},
		)},
		{CollectionShapes, schema.NewSchema(
			&schema.SchemaField{Name: "kind", Type: schema.FieldTypeSelect, Required: true,
				Options: &schema.SelectOptions{MaxSelect: 1, Values: []string{"circle", "polygon", "polyline", "rectangle"}}},
			&schema.SchemaField{Name: "center", Type: schema.FieldTypeJson},
			&schema.SchemaField{Name: "radius", Type: schema.FieldTypeNumber},
			&schema.SchemaField{Name: "path", Type: schema.FieldTypeJson},
		)},
		{CollectionNewsArticles, schema.NewSchema(
			&schema.SchemaField{Name: "title", Type: schema.FieldTypeText, Required: true},
			&schema.SchemaField{Name: "content", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "summary", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "author", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "category", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "status", Type: schema.FieldTypeSelect, Required: true,
				Options: &schema.SelectOptions{MaxSelect: 1, Values: []string{"draft", "published", "archived"}}},
			&schema.SchemaField{Name: "tags", Type: schema.FieldTypeJson},
			&schema.SchemaField{Name: "featured_image", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "political_perspective", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "cambodia_impact", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "created_at", Type: schema.FieldTypeDate},
			&schema.SchemaField{Name: "updated_at", Type: schema.FieldTypeDate},
			&schema.SchemaField{Name: "published_at", Type: schema.FieldTypeDate},
			&schema.SchemaField{Name: "views", Type: schema.FieldTypeNumber},
			&schema.SchemaField{Name: "version", Type: schema.FieldTypeNumber},
		)},
		{CollectionContentItems, schema.NewSchema(
			&schema.SchemaField{Name: "title", Type: schema.FieldTypeText, Required: true},
			&schema.SchemaField{Name: "type", Type: schema.FieldTypeSelect, Required: true,
				Options: &schema.SelectOptions{MaxSelect: 1, Values: []string{"news", "article", "announcement"}}},
			&schema.SchemaField{Name: "status", Type: schema.FieldTypeSelect, Required: true,
				Options: &schema.SelectOptions{MaxSelect: 1, Values: []string{"draft", "published", "archived"}}},
			&schema.SchemaField{Name: "author", Type: schema.FieldTypeText},
			&schema.SchemaField{Name: "created_at", Type: schema.FieldTypeDate},
			&schema.SchemaField{Name: "updated_at", Type: schema.FieldTypeDate},
			&schema.SchemaField{Name: "view_count", Type: schema.FieldTypeNumber},
		)},
	}

	for _, def := range defs {
		if err := s.ensureCollection(def.name, def.schema); err != nil {
			return err
		}
	}
	return s.ensureUserFields()
}

func (s *PocketBaseStore) ensureCollection(name string, fields schema.Schema) error {
	if _, err := s.app.Dao().FindCollectionByNameOrId(name); err == nil {
		return nil
	}

	collection := &pbModels.Collection{
		Name:   name,
		Type:   pbModels.CollectionTypeBase,
		Schema: fields,
	}
	if err := s.app.Dao().SaveCollection(collection); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	logging.Info().Str("collection", name).Msg("collection created")
	return nil
}

// ensureUserFields extends the built-in users auth collection with the
// admin console's activity fields.
func (s *PocketBaseStore) ensureUserFields() error {
	collection, err := s.app.Dao().FindCollectionByNameOrId(CollectionUsers)
	if err != nil {
		return fmt.Errorf("failed to find users collection: %w", err)
	}

	changed := false
	if collection.Schema.GetFieldByName("is_active") == nil {
		collection.Schema.AddField(&schema.SchemaField{Name: "is_active", Type: schema.FieldTypeBool})
		changed = true
	}
	if collection.Schema.GetFieldByName("last_active") == nil {
		collection.Schema.AddField(&schema.SchemaField{Name: "last_active", Type: schema.FieldTypeDate})
		changed = true
	}
	if !changed {
		return nil
	}
	if err := s.app.Dao().SaveCollection(collection); err != nil {
		return fmt.Errorf("failed to extend users collection: %w", err)
	}
	return nil
}
