package storage

import (
	"fmt"

	pbModels "github.com/pocketbase/pocketbase/models"

	"whollycity/internal/models"
)

// ListCrimeReports returns stored reports, newest first. Records whose
// location cannot be decoded under any known convention are skipped.
func (s *PocketBaseStore) ListCrimeReports() ([]models.CrimeReport, error) {
	records := []*pbModels.Record{}
	err := s.app.Dao().RecordQuery(CollectionCrimeReports).
		OrderBy("created DESC").
		Limit(int64(s.fetchLimit)).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list crime reports: %w", err)
	}

	reports := make([]models.CrimeReport, 0, len(records))
	for _, record := range records {
		report, ok := decodeCrimeReport(record)
		if !ok {
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// SaveCrimeReport creates a crime report record and writes the generated id
// back into r. Defaults must already be applied by the caller.
func (s *PocketBaseStore) SaveCrimeReport(r *models.CrimeReport) error {
	if err := r.Validate(); err != nil {
		return err
	}

	collection, err := s.app.Dao().FindCollectionByNameOrId(CollectionCrimeReports)
	if err != nil {
		return fmt.Errorf("failed to find crime reports collection: %w", err)
	}

	record := pbModels.NewRecord(collection)
	record.Set("title", r.Title)
	record.Set("description", r.Description)
	record.Set("crime_type", r.CrimeType)
	record.Set("timestamp", r.Timestamp)
	record.Set("location", encodeJSON(map[string]float64{
		"latitude":  r.Location.Lat,
		"longitude": r.Location.Lng,
	}))
	record.Set("address", r.Address)
	record.Set("reported_by", encodeJSON(r.ReportedBy))
	record.Set("status", r.Status)
	record.Set("attachments", encodeJSON(r.Attachments))

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to save crime report: %w", err)
	}
	r.ID = record.Id
	return nil
}

// UpdateCrimeReportStatus moves a report through the investigation workflow.
func (s *PocketBaseStore) UpdateCrimeReportStatus(id, status string) error {
	record, err := s.app.Dao().FindRecordById(CollectionCrimeReports, id)
	if err != nil {
		return ErrNotFound
	}
	record.Set("status", status)
	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to update crime report status: %w", err)
	}
	return nil
}

// DeleteCrimeReport removes a report record by id.
func (s *PocketBaseStore) DeleteCrimeReport(id string) error {
	record, err := s.app.Dao().FindRecordById(CollectionCrimeReports, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.app.Dao().DeleteRecord(record); err != nil {
		return fmt.Errorf("failed to delete crime report: %w", err)
	}
	return nil
}
