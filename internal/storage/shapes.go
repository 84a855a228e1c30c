package storage

import (
	"fmt"

	pbModels "github.com/pocketbase/pocketbase/models"

	"whollycity/internal/models"
)

// ListShapes returns every stored shape, capped at the fetch limit. Records
// that no longer satisfy their kind's geometry rules are skipped.
func (s *PocketBaseStore) ListShapes() ([]models.Shape, error) {
	records := []*pbModels.Record{}
	err := s.app.Dao().RecordQuery(CollectionShapes).
		OrderBy("created DESC").
		Limit(int64(s.fetchLimit)).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list shapes: %w", err)
	}

	shapes := make([]models.Shape, 0, len(records))
	for _, record := range records {
		shape, ok := decodeShape(record)
		if !ok {
			continue
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// SaveShape creates a shape record and writes the generated id back.
func (s *PocketBaseStore) SaveShape(shape *models.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}

	collection, err := s.app.Dao().FindCollectionByNameOrId(CollectionShapes)
	if err != nil {
		return fmt.Errorf("failed to find shapes collection: %w", err)
	}

	record := pbModels.NewRecord(collection)
	record.Set("kind", string(shape.Kind))
	record.Set("radius", shape.Radius)
	if shape.Center != nil {
		record.Set("center", encodeJSON(shape.Center))
	}
	if len(shape.Path) > 0 {
		record.Set("path", encodeJSON(shape.Path))
	}

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to save shape: %w", err)
	}
	shape.ID = record.Id
	return nil
}
