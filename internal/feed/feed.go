// Package feed implements the synchronous filter, search, and sort pipelines
// behind the news and admin list views. Everything here is linear-time over
// in-memory slices and free of side effects.
package feed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"whollycity/internal/models"
)

// Window is the politics feed's trailing time filter.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow validates a window string, defaulting empty input to week.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowDay, WindowWeek, WindowMonth:
		return Window(s), nil
	case "":
		return WindowWeek, nil
	default:
		return "", fmt.Errorf("invalid time window: %q", s)
	}
}

// Threshold returns the cutoff instant for a trailing window ending now.
func Threshold(now time.Time, w Window) time.Time {
	switch w {
	case WindowDay:
		return now.AddDate(0, 0, -1)
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// Politics runs the feed pipeline: published articles inside the trailing
// window, matched against the query over title, summary, and content, sorted
// by view count descending then publish date descending.
func Politics(articles []models.NewsArticle, now time.Time, w Window, query string) []models.NewsArticle {
	cutoff := Threshold(now, w)

	out := make([]models.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if a.Status != models.StatusPublished || a.PublishedAt.IsZero() {
			continue
		}
		if a.PublishedAt.Before(cutoff) {
			continue
		}
		if !matches(query, a.Title, a.Summary, a.Content) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

// FilterArticles applies the admin list predicates: status (empty matches
// all), category (empty matches all), and a query over title, author, and
// content. Result is sorted by creation date descending.
func FilterArticles(articles []models.NewsArticle, status models.ArticleStatus, category, query string) []models.NewsArticle {
	out := make([]models.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if status != "" && a.Status != status {
			continue
		}
		if category != "" && !strings.EqualFold(a.Category, category) {
			continue
		}
		if !matches(query, a.Title, a.Author, a.Content) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// FilterContent applies the content list predicates and sorts by creation
// date descending.
func FilterContent(items []models.ContentItem, status models.ArticleStatus, ctype models.ContentType, query string) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for _, c := range items {
		if status != "" && c.Status != status {
			continue
		}
		if ctype != "" && c.Type != ctype {
			continue
		}
		if !matches(query, c.Title, c.Author) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// FilterUsers applies the user list predicates: role (empty matches all),
// active-only, and a query over email and username.
func FilterUsers(users []models.User, role string, activeOnly bool, query string) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if role != "" && u.Role != role {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		if !matches(query, u.Email, u.Username) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Stats summarizes articles by lifecycle status.
func Stats(articles []models.NewsArticle) models.ArticleStats {
	s := models.ArticleStats{Total: len(articles)}
	for _, a := range articles {
		switch a.Status {
		case models.StatusPublished:
			s.Published++
		case models.StatusDraft:
			s.Drafts++
		case models.StatusArchived:
			s.Archived++
		}
	}
	return s
}

// TodayPublishedCount counts articles whose publish time falls on the
// current local day.
func TodayPublishedCount(articles []models.NewsArticle, now time.Time) int {
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	count := 0
	for _, a := range articles {
		if a.PublishedAt.IsZero() {
			continue
		}
		if !a.PublishedAt.Before(dayStart) && a.PublishedAt.Before(dayEnd) {
			count++
		}
	}
	return count
}

// AdminStats aggregates the dashboard headline numbers. View totals are
// derived from article view counters inside the trailing day and month.
func AdminStats(users []models.User, items []models.ContentItem, articles []models.NewsArticle, now time.Time) models.AdminStats {
	s := models.AdminStats{TotalUsers: len(users), TotalContent: len(items)}
	for _, u := range users {
		if u.IsActive {
			s.ActiveUsers++
		}
	}
	for _, c := range items {
		if c.Status == models.StatusPublished {
			s.PublishedContent++
		}
	}
	dayCutoff := Threshold(now, WindowDay)
	monthCutoff := Threshold(now, WindowMonth)
	for _, a := range articles {
		if a.PublishedAt.IsZero() {
			continue
		}
		if !a.PublishedAt.Before(monthCutoff) {
			s.MonthlyViews += a.Views
		}
		if !a.PublishedAt.Before(dayCutoff) {
			s.TodayViews += a.Views
		}
	}
	return s
}

// matches reports whether the query appears, case-insensitively, in any of
// the fields. An empty query matches everything.
func matches(query string, fields ...string) bool {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
