package storage

import (
	"fmt"

	pbModels "github.com/pocketbase/pocketbase/models"

	"whollycity/internal/models"
)

// ListMarkers returns every stored marker, newest first, capped at the
// configured fetch limit.
func (s *PocketBaseStore) ListMarkers() ([]models.Marker, error) {
	records := []*pbModels.Record{}
	err := s.app.Dao().RecordQuery(CollectionMarkers).
		OrderBy("created DESC").
		Limit(int64(s.fetchLimit)).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}

	markers := make([]models.Marker, 0, len(records))
	for _, record := range records {
		markers = append(markers, decodeMarker(record))
	}
	return markers, nil
}

// GetMarker fetches a single marker by id.
func (s *PocketBaseStore) GetMarker(id string) (models.Marker, error) {
	record, err := s.app.Dao().FindRecordById(CollectionMarkers, id)
	if err != nil {
		return models.Marker{}, ErrNotFound
	}
	return decodeMarker(record), nil
}

// SaveMarker creates a marker record and writes the generated id and initial
// version back into m.
func (s *PocketBaseStore) SaveMarker(m *models.Marker) error {
	if err := m.Validate(); err != nil {
		return err
	}

	collection, err := s.app.Dao().FindCollectionByNameOrId(CollectionMarkers)
	if err != nil {
		return fmt.Errorf("failed to find markers collection: %w", err)
	}

	record := pbModels.NewRecord(collection)
	m.Version = 1
	applyMarker(record, m)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to save marker: %w", err)
	}
	m.ID = record.Id
	return nil
}

// UpdateMarker overwrites a marker record. The update is rejected with
// ErrVersionConflict when m.Version does not match the stored version, so a
// stale editor cannot clobber a newer write. On success m.Version is bumped.
func (s *PocketBaseStore) UpdateMarker(m *models.Marker) error {
	if err := m.Validate(); err != nil {
		return err
	}

	record, err := s.app.Dao().FindRecordById(CollectionMarkers, m.ID)
	if err != nil {
		return ErrNotFound
	}
	if stored := record.GetInt("version"); stored != m.Version {
		return ErrVersionConflict
	}

	m.Version++
	applyMarker(record, m)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		m.Version--
		return fmt.Errorf("failed to update marker: %w", err)
	}
	return nil
}

// DeleteMarker removes a marker record by id.
func (s *PocketBaseStore) DeleteMarker(id string) error {
	record, err := s.app.Dao().FindRecordById(CollectionMarkers, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.app.Dao().DeleteRecord(record); err != nil {
		return fmt.Errorf("failed to delete marker: %w", err)
	}
	return nil
}

func applyMarker(record *pbModels.Record, m *models.Marker) {
	record.Set("title", m.Title)
	record.Set("type", m.Type)
	record.Set("lat", m.Position.Lat)
	record.Set("lng", m.Position.Lng)
	record.Set("description", m.Description)
	record.Set("image_url", m.ImageURL)
	record.Set("report_id", m.ReportID)
	record.Set("created_at", m.CreatedAt)
	record.Set("version", m.Version)
}
