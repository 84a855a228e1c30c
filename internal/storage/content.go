package storage

import (
	"fmt"
	"time"

	pbModels "github.com/pocketbase/pocketbase/models"

	"whollycity/internal/models"
)

// ListContentItems returns every content item, newest first, capped at the
// fetch limit.
func (s *PocketBaseStore) ListContentItems() ([]models.ContentItem, error) {
	records := []*pbModels.Record{}
	err := s.app.Dao().RecordQuery(CollectionContentItems).
		OrderBy("created DESC").
		Limit(int64(s.fetchLimit)).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list content items: %w", err)
	}

	items := make([]models.ContentItem, 0, len(records))
	for _, record := range records {
		items = append(items, decodeContentItem(record))
	}
	return items, nil
}

// SaveContentItem creates a content record and writes the generated id back.
func (s *PocketBaseStore) SaveContentItem(item *models.ContentItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	collection, err := s.app.Dao().FindCollectionByNameOrId(CollectionContentItems)
	if err != nil {
		return fmt.Errorf("failed to find content collection: %w", err)
	}

	record := pbModels.NewRecord(collection)
	applyContentItem(record, item)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to save content item: %w", err)
	}
	item.ID = record.Id
	return nil
}

// UpdateContentItem overwrites a content record.
func (s *PocketBaseStore) UpdateContentItem(item *models.ContentItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	record, err := s.app.Dao().FindRecordById(CollectionContentItems, item.ID)
	if err != nil {
		return ErrNotFound
	}
	applyContentItem(record, item)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to update content item: %w", err)
	}
	return nil
}

// DeleteContentItem removes a content record by id.
func (s *PocketBaseStore) DeleteContentItem(id string) error {
	record, err := s.app.Dao().FindRecordById(CollectionContentItems, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.app.Dao().DeleteRecord(record); err != nil {
		return fmt.Errorf("failed to delete content item: %w", err)
	}
	return nil
}

// ListUsers projects every auth record into the admin console view. roleFor
// maps an email to its console role; the storage layer does not know the
// admin policy.
func (s *PocketBaseStore) ListUsers(roleFor func(email string) string) ([]models.User, error) {
	records := []*pbModels.Record{}
	err := s.app.Dao().RecordQuery(CollectionUsers).
		OrderBy("created DESC").
		Limit(int64(s.fetchLimit)).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]models.User, 0, len(records))
	for _, record := range records {
		users = append(users, decodeUser(record, roleFor(record.Email())))
	}
	return users, nil
}

// TouchUserActivity stamps last_active and marks the account active. Called
// on every authenticated request, so failures are logged, not fatal.
func (s *PocketBaseStore) TouchUserActivity(id string, now time.Time) error {
	record, err := s.app.Dao().FindRecordById(CollectionUsers, id)
	if err != nil {
		return ErrNotFound
	}
	record.Set("last_active", now)
	record.Set("is_active", true)
	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to touch user activity: %w", err)
	}
	return nil
}

// DeleteUser removes an auth record by id.
func (s *PocketBaseStore) DeleteUser(id string) error {
	record, err := s.app.Dao().FindRecordById(CollectionUsers, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.app.Dao().DeleteRecord(record); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// CreateAuthRecord registers a verified auth record with the given
// credentials and returns it.
func (s *PocketBaseStore) CreateAuthRecord(email, password, username string) (*pbModels.Record, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId(CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to find users collection: %w", err)
	}

	record := pbModels.NewRecord(collection)
	if err := record.SetEmail(email); err != nil {
		return nil, fmt.Errorf("failed to set email: %w", err)
	}
	if err := record.SetUsername(username); err != nil {
		return nil, fmt.Errorf("failed to set username: %w", err)
	}
	if err := record.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}
	if err := record.SetVerified(true); err != nil {
		return nil, fmt.Errorf("failed to set verified: %w", err)
	}
	record.Set("is_active", true)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, fmt.Errorf("failed to create auth record: %w", err)
	}
	return record, nil
}

// SetUserActive toggles the console active flag.
func (s *PocketBaseStore) SetUserActive(id string, active bool) error {
	record, err := s.app.Dao().FindRecordById(CollectionUsers, id)
	if err != nil {
		return ErrNotFound
	}
	record.Set("is_active", active)
	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func applyContentItem(record *pbModels.Record, item *models.ContentItem) {
	record.Set("title", item.Title)
	record.Set("type", string(item.Type))
	record.Set("status", string(item.Status))
	record.Set("author", item.Author)
	record.Set("created_at", item.CreatedAt)
	record.Set("updated_at", item.UpdatedAt)
	record.Set("view_count", item.ViewCount)
}
