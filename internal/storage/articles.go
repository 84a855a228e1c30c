package storage

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	pbModels "github.com/pocketbase/pocketbase/models"

	"whollycity/internal/models"
)

// ListArticles returns every article, newest first, capped at the fetch
// limit. Filtering by status, category, or query happens in memory in the
// feed package so one read path serves both the public feed and the admin
// console.
func (s *PocketBaseStore) ListArticles() ([]models.NewsArticle, error) {
	records := []*pbModels.Record{}
	err := s.app.Dao().RecordQuery(CollectionNewsArticles).
		OrderBy("created DESC").
		Limit(int64(s.fetchLimit)).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	articles := make([]models.NewsArticle, 0, len(records))
	for _, record := range records {
		articles = append(articles, decodeArticle(record))
	}
	return articles, nil
}

// ListPublishedArticles returns only published articles, newest first. The
// public feed never needs drafts, so the filter runs in the query.
func (s *PocketBaseStore) ListPublishedArticles() ([]models.NewsArticle, error) {
	records := []*pbModels.Record{}
	err := s.app.Dao().RecordQuery(CollectionNewsArticles).
		AndWhere(dbx.HashExp{"status": string(models.StatusPublished)}).
		OrderBy("created DESC").
		Limit(int64(s.fetchLimit)).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}

	articles := make([]models.NewsArticle, 0, len(records))
	for _, record := range records {
		articles = append(articles, decodeArticle(record))
	}
	return articles, nil
}

// GetArticle fetches a single article by id.
func (s *PocketBaseStore) GetArticle(id string) (models.NewsArticle, error) {
	record, err := s.app.Dao().FindRecordById(CollectionNewsArticles, id)
	if err != nil {
		return models.NewsArticle{}, ErrNotFound
	}
	return decodeArticle(record), nil
}

// SaveArticle creates an article record and writes the generated id and
// initial version back into a.
func (s *PocketBaseStore) SaveArticle(a *models.NewsArticle) error {
	if err := a.Validate(); err != nil {
		return err
	}

	collection, err := s.app.Dao().FindCollectionByNameOrId(CollectionNewsArticles)
	if err != nil {
		return fmt.Errorf("failed to find articles collection: %w", err)
	}

	record := pbModels.NewRecord(collection)
	a.Version = 1
	applyArticle(record, a)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	a.ID = record.Id
	return nil
}

// UpdateArticle overwrites an article record, rejecting stale versions with
// ErrVersionConflict. On success a.Version is bumped.
func (s *PocketBaseStore) UpdateArticle(a *models.NewsArticle) error {
	if err := a.Validate(); err != nil {
		return err
	}

	record, err := s.app.Dao().FindRecordById(CollectionNewsArticles, a.ID)
	if err != nil {
		return ErrNotFound
	}
	if stored := record.GetInt("version"); stored != a.Version {
		return ErrVersionConflict
	}

	a.Version++
	applyArticle(record, a)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		a.Version--
		return fmt.Errorf("failed to update article: %w", err)
	}
	return nil
}

// PublishArticle transitions a draft or archived article to published and
// returns the updated article.
func (s *PocketBaseStore) PublishArticle(id string, now time.Time) (models.NewsArticle, error) {
	record, err := s.app.Dao().FindRecordById(CollectionNewsArticles, id)
	if err != nil {
		return models.NewsArticle{}, ErrNotFound
	}

	article := decodeArticle(record)
	article.Publish(now)
	record.Set("status", string(article.Status))
	record.Set("published_at", article.PublishedAt)
	record.Set("updated_at", article.UpdatedAt)
	record.Set("version", article.Version+1)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return models.NewsArticle{}, fmt.Errorf("failed to publish article: %w", err)
	}
	article.Version++
	return article, nil
}

// IncrementArticleViews bumps the view counter for a public read. The bump is
// best effort: a lost increment is acceptable, a failed page read is not, so
// errors are returned for logging but the article is still served.
func (s *PocketBaseStore) IncrementArticleViews(id string) error {
	record, err := s.app.Dao().FindRecordById(CollectionNewsArticles, id)
	if err != nil {
		return ErrNotFound
	}
	record.Set("views", record.GetInt("views")+1)
	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to increment article views: %w", err)
	}
	return nil
}

// DeleteArticle removes an article record by id.
func (s *PocketBaseStore) DeleteArticle(id string) error {
	record, err := s.app.Dao().FindRecordById(CollectionNewsArticles, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.app.Dao().DeleteRecord(record); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

func applyArticle(record *pbModels.Record, a *models.NewsArticle) {
	record.Set("title", a.Title)
	record.Set("content", a.Content)
	record.Set("summary", a.Summary)
	record.Set("author", a.Author)
	record.Set("category", a.Category)
	record.Set("status", string(a.Status))
	record.Set("tags", encodeJSON(a.Tags))
	record.Set("featured_image", a.FeaturedImage)
	record.Set("political_perspective", a.PoliticalPerspective)
	record.Set("cambodia_impact", a.CambodiaImpact)
	record.Set("created_at", a.CreatedAt)
	record.Set("updated_at", a.UpdatedAt)
	if !a.PublishedAt.IsZero() {
		record.Set("published_at", a.PublishedAt)
	}
	record.Set("views", a.Views)
	record.Set("version", a.Version)
}
