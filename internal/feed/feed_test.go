package feed

import (
	"testing"
	"time"

	"whollycity/internal/models"
)

var now = time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local)

func article(id, title string, status models.ArticleStatus, published time.Time, views int) models.NewsArticle {
	return models.NewsArticle{
		ID:          id,
		Title:       title,
		Content:     "content of " + title,
		Author:      "Editor",
		Category:    "politics",
		Status:      status,
		PublishedAt: published,
		CreatedAt:   published,
		Views:       views,
	}
}

func TestPoliticsWindowFilter(t *testing.T) {
	articles := []models.NewsArticle{
		article("fresh", "Assembly vote", models.StatusPublished, now.AddDate(0, 0, -2), 10),
		article("stale", "Old summit", models.StatusPublished, now.AddDate(0, 0, -20), 500),
		article("draft", "Unreleased", models.StatusDraft, now.AddDate(0, 0, -1), 0),
	}

	got := Politics(articles, now, WindowWeek, "")
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Fatalf("expected only the in-window published article, got %+v", got)
	}

	got = Politics(articles, now, WindowMonth, "")
	if len(got) != 2 {
		t.Fatalf("expected 2 articles in the monthly window, got %d", len(got))
	}
	// Sorted by views descending first.
	if got[0].ID != "stale" || got[1].ID != "fresh" {
		t.Errorf("expected views-descending order, got %q then %q", got[0].ID, got[1].ID)
	}
}

func TestPoliticsSearch(t *testing.T) {
	articles := []models.NewsArticle{
		article("a", "Border security measures", models.StatusPublished, now.AddDate(0, 0, -1), 5),
		article("b", "Economic development", models.StatusPublished, now.AddDate(0, 0, -1), 5),
	}

	got := Politics(articles, now, WindowWeek, "BORDER")
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("case-insensitive title search failed: %+v", got)
	}

	got = Politics(articles, now, WindowWeek, "content of Economic")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("content search failed: %+v", got)
	}
}

func TestPoliticsTieBreakByDate(t *testing.T) {
	older := article("older", "One", models.StatusPublished, now.AddDate(0, 0, -3), 7)
	newer := article("newer", "Two", models.StatusPublished, now.AddDate(0, 0, -1), 7)

	got := Politics([]models.NewsArticle{older, newer}, now, WindowWeek, "")
	if len(got) != 2 || got[0].ID != "newer" {
		t.Errorf("equal views should order by publish date descending, got %+v", got)
	}
}

func TestFilterArticles(t *testing.T) {
	articles := []models.NewsArticle{
		article("pub", "Published piece", models.StatusPublished, now.AddDate(0, 0, -1), 0),
		article("dr", "Draft piece", models.StatusDraft, time.Time{}, 0),
	}
	articles[1].CreatedAt = now

	got := FilterArticles(articles, models.StatusDraft, "", "")
	if len(got) != 1 || got[0].ID != "dr" {
		t.Errorf("status filter failed: %+v", got)
	}

	got = FilterArticles(articles, "", "", "piece")
	if len(got) != 2 {
		t.Fatalf("query over both articles failed: %+v", got)
	}
	if got[0].ID != "dr" {
		t.Errorf("expected creation-date-descending order, got %q first", got[0].ID)
	}
}

func TestFilterContent(t *testing.T) {
	items := []models.ContentItem{
		{ID: "1", Title: "Border news", Type: models.ContentNews, Status: models.StatusPublished, Author: "Admin", CreatedAt: now},
		{ID: "2", Title: "Maintenance", Type: models.ContentAnnouncement, Status: models.StatusDraft, Author: "Admin", CreatedAt: now.Add(-time.Hour)},
	}

	got := FilterContent(items, "", models.ContentAnnouncement, "")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("type filter failed: %+v", got)
	}

	got = FilterContent(items, models.StatusPublished, "", "border")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("combined status+query filter failed: %+v", got)
	}
}

func TestFilterUsers(t *testing.T) {
	users := []models.User{
		{ID: "1", Email: "john.doe@example.com", Username: "johndoe", Role: "user", IsActive: true},
		{ID: "2", Email: "jane.smith@example.com", Username: "janesmith", Role: "moderator", IsActive: true},
		{ID: "3", Email: "bob.wilson@example.com", Username: "bobwilson", Role: "user", IsActive: false},
	}

	if got := FilterUsers(users, "user", false, ""); len(got) != 2 {
		t.Errorf("role filter: expected 2 users, got %d", len(got))
	}
	if got := FilterUsers(users, "", true, ""); len(got) != 2 {
		t.Errorf("active filter: expected 2 users, got %d", len(got))
	}
	if got := FilterUsers(users, "", false, "JANE"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("query filter failed: %+v", got)
	}
}

func TestStats(t *testing.T) {
	articles := []models.NewsArticle{
		article("1", "a", models.StatusPublished, now, 0),
		article("2", "b", models.StatusPublished, now, 0),
		article("3", "c", models.StatusDraft, time.Time{}, 0),
		article("4", "d", models.StatusArchived, time.Time{}, 0),
	}

	s := Stats(articles)
	if s.Total != 4 || s.Published != 2 || s.Drafts != 1 || s.Archived != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestTodayPublishedCount(t *testing.T) {
	articles := []models.NewsArticle{
		article("today", "a", models.StatusPublished, now.Add(-time.Hour), 0),
		article("yesterday", "b", models.StatusPublished, now.AddDate(0, 0, -1), 0),
		article("never", "c", models.StatusDraft, time.Time{}, 0),
	}

	if got := TodayPublishedCount(articles, now); got != 1 {
		t.Errorf("expected 1 article published today, got %d", got)
	}
}

func TestAdminStats(t *testing.T) {
	users := []models.User{
		{ID: "1", IsActive: true},
		{ID: "2", IsActive: false},
	}
	items := []models.ContentItem{
		{ID: "1", Status: models.StatusPublished},
		{ID: "2", Status: models.StatusDraft},
	}
	articles := []models.NewsArticle{
		article("a", "a", models.StatusPublished, now.Add(-2*time.Hour), 100),
		article("b", "b", models.StatusPublished, now.AddDate(0, 0, -10), 40),
	}

	s := AdminStats(users, items, articles, now)
	if s.TotalUsers != 2 || s.ActiveUsers != 1 {
		t.Errorf("user stats wrong: %+v", s)
	}
	if s.TotalContent != 2 || s.PublishedContent != 1 {
		t.Errorf("content stats wrong: %+v", s)
	}
	if s.TodayViews != 100 || s.MonthlyViews != 140 {
		t.Errorf("view stats wrong: %+v", s)
	}
}

func TestParseWindow(t *testing.T) {
	if w, err := ParseWindow(""); err != nil || w != WindowWeek {
		t.Errorf("empty window: expected week default, got %v, %v", w, err)
	}
	if _, err := ParseWindow("year"); err == nil {
		t.Error("expected error for unknown window")
	}
}
