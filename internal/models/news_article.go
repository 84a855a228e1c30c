package models

import (
	"fmt"
	"time"
)

// ArticleStatus is the lifecycle state of a news article or content item.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// ValidateArticleStatus checks the status against the known set.
func ValidateArticleStatus(status ArticleStatus) error {
	switch status {
	case StatusDraft, StatusPublished, StatusArchived:
		return nil
	default:
		return fmt.Errorf("invalid article status: %s", status)
	}
}

// NewsArticle is a published piece in the news_articles collection.
type NewsArticle struct {
	ID                   string        `json:"id,omitempty"`
	Title                string        `json:"title"`
	Content              string        `json:"content"`
	Summary              string        `json:"summary,omitempty"`
	Author               string        `json:"author"`
	Category             string        `json:"category"`
	Status               ArticleStatus `json:"status"`
	Tags                 []string      `json:"tags"`
	FeaturedImage        string        `json:"featured_image,omitempty"`
	PoliticalPerspective string        `json:"political_perspective,omitempty"`
	CambodiaImpact       string        `json:"cambodia_impact,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	PublishedAt          time.Time     `json:"published_at,omitempty"`
	Views                int           `json:"views"`
	Version              int           `json:"version,omitempty"`
}

// Validate ensures required fields are present and the status is known.
func (a *NewsArticle) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.Author == "" {
		return fmt.Errorf("author is required")
	}
	return ValidateArticleStatus(a.Status)
}

// Publish transitions the article to published and stamps the transition
// time. Other fields are left untouched.
func (a *NewsArticle) Publish(now time.Time) {
	a.Status = StatusPublished
	a.PublishedAt = now
	a.UpdatedAt = now
}

// EnsurePublishedAt stamps the publish time for an article saved as published
// without one. An article that is published but has no publish time would
// never clear the feed's date filter.
func (a *NewsArticle) EnsurePublishedAt(now time.Time) {
	if a.Status == StatusPublished && a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
}

// ArticleStats summarizes the collection for the admin dashboard.
type ArticleStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
	Archived  int `json:"archived"`
}
