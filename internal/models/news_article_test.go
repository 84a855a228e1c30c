package models

import (
	"testing"
	"time"
)

func TestPublish(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	created := now.AddDate(0, 0, -3)

	article := NewsArticle{
		Title:     "Budget vote",
		Author:    "Sokha",
		Category:  "Politics",
		Status:    StatusDraft,
		CreatedAt: created,
		UpdatedAt: created,
	}
	article.Publish(now)

	if article.Status != StatusPublished {
		t.Errorf("Status = %q, want published", article.Status)
	}
	if !article.PublishedAt.Equal(now) || !article.UpdatedAt.Equal(now) {
		t.Errorf("PublishedAt/UpdatedAt not stamped: %v / %v", article.PublishedAt, article.UpdatedAt)
	}
	if !article.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on publish: %v", article.CreatedAt)
	}
}

func TestEnsurePublishedAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	// An editor flipping status to published without a publish time gets one
	// stamped; without it the article would never pass the feed's date filter.
	article := NewsArticle{Title: "Budget vote", Author: "Sokha", Status: StatusPublished}
	article.EnsurePublishedAt(now)
	if !article.PublishedAt.Equal(now) {
		t.Errorf("PublishedAt = %v, want %v", article.PublishedAt, now)
	}

	earlier := now.AddDate(0, 0, -2)
	stamped := NewsArticle{Title: "T", Author: "A", Status: StatusPublished, PublishedAt: earlier}
	stamped.EnsurePublishedAt(now)
	if !stamped.PublishedAt.Equal(earlier) {
		t.Errorf("existing PublishedAt overwritten: %v", stamped.PublishedAt)
	}

	draft := NewsArticle{Title: "T", Author: "A", Status: StatusDraft}
	draft.EnsurePublishedAt(now)
	if !draft.PublishedAt.IsZero() {
		t.Errorf("draft should not get a publish time, got %v", draft.PublishedAt)
	}
}

func TestNewsArticleValidate(t *testing.T) {
	tests := []struct {
		name    string
		article NewsArticle
		wantErr bool
	}{
		{name: "Valid", article: NewsArticle{Title: "T", Author: "A", Status: StatusDraft}},
		{name: "MissingTitle", article: NewsArticle{Author: "A", Status: StatusDraft}, wantErr: true},
		{name: "MissingAuthor", article: NewsArticle{Title: "T", Status: StatusDraft}, wantErr: true},
		{name: "UnknownStatus", article: NewsArticle{Title: "T", Author: "A", Status: "live"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.article.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContentItemValidate(t *testing.T) {
	valid := ContentItem{Title: "Notice", Type: ContentAnnouncement, Status: StatusPublished}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid item rejected: %v", err)
	}

	badType := ContentItem{Title: "Notice", Type: "video", Status: StatusDraft}
	if err := badType.Validate(); err == nil {
		t.Error("unknown content type should be rejected")
	}
}
