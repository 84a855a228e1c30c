package models

import (
	"fmt"
	"time"
)

// ContentType classifies generic content items.
type ContentType string

const (
	ContentNews         ContentType = "news"
	ContentArticle      ContentType = "article"
	ContentAnnouncement ContentType = "announcement"
)

// ValidateContentType checks the type against the known set.
func ValidateContentType(t ContentType) error {
	switch t {
	case ContentNews, ContentArticle, ContentAnnouncement:
		return nil
	default:
		return fmt.Errorf("invalid content type: %s", t)
	}
}

// ContentItem is a generic entry in the content_items collection.
type ContentItem struct {
	ID        string        `json:"id,omitempty"`
	Title     string        `json:"title"`
	Type      ContentType   `json:"type"`
	Status    ArticleStatus `json:"status"`
	Author    string        `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at,omitempty"`
	ViewCount int           `json:"view_count"`
}

// Validate ensures required fields are present and enums are known.
func (c *ContentItem) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if err := ValidateContentType(c.Type); err != nil {
		return err
	}
	return ValidateArticleStatus(c.Status)
}

// User is the admin console projection of an auth record.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active,omitempty"`
	IsActive   bool      `json:"is_active"`
}

// AdminStats is the dashboard headline card data.
type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsers      int `json:"active_users"`
	TotalContent     int `json:"total_content"`
	PublishedContent int `json:"published_content"`
	TodayViews       int `json:"today_views"`
	MonthlyViews     int `json:"monthly_views"`
}
