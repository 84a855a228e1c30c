package handlers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"whollycity/internal/feed"
	"whollycity/internal/logging"
	"whollycity/internal/models"
	"whollycity/internal/storage"
)

// NewsHandler serves the public politics feed and the admin article console.
type NewsHandler struct {
	store *storage.PocketBaseStore
}

func NewNewsHandler(store *storage.PocketBaseStore) *NewsHandler {
	return &NewsHandler{store: store}
}

// HandleGetNews returns published politics articles within the trailing
// window, most viewed first. Query params: window (day/week/month), q.
func (h *NewsHandler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	window, err := feed.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	articles, err := h.store.ListPublishedArticles()
	if err != nil {
		writeStoreError(w, err, "Error fetching news")
		return
	}

	results := feed.Politics(articles, time.Now(), window, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{
		"window":   window,
		"total":    len(results),
		"articles": results,
	})
}

// HandleGetNewsArticle returns one article and bumps its view counter. A
// failed bump is logged, not surfaced; the read still succeeds.
func (h *NewsHandler) HandleGetNewsArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	article, err := h.store.GetArticle(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Error fetching article")
		return
	}

	if err := h.store.IncrementArticleViews(article.ID); err != nil {
		logging.Warn().Err(err).Str("article", article.ID).Msg("failed to count article view")
	} else {
		article.Views++
	}

	writeJSON(w, http.StatusOK, article)
}

// HandleListArticles returns articles for the admin console, filtered by
// status, category, and q.
func (h *NewsHandler) HandleListArticles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	articles, err := h.store.ListArticles()
	if err != nil {
		writeStoreError(w, err, "Error fetching articles")
		return
	}

	query := r.URL.Query()
	results := feed.FilterArticles(articles,
		models.ArticleStatus(query.Get("status")),
		query.Get("category"),
		query.Get("q"))

	writeJSON(w, http.StatusOK, map[string]any{
		"total":    len(results),
		"articles": results,
	})
}

// HandleCreateArticle persists a new article. Missing status defaults to
// draft; timestamps are stamped server-side.
func (h *NewsHandler) HandleCreateArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var article models.NewsArticle
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := time.Now()
	if article.Status == "" {
		article.Status = models.StatusDraft
	}
	article.EnsurePublishedAt(now)
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.Tags == nil {
		article.Tags = []string{}
	}
	if err := article.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveArticle(&article); err != nil {
		writeStoreError(w, err, "Error saving article")
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

// HandleUpdateArticle overwrites an article, rejecting stale versions.
func (h *NewsHandler) HandleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	var article models.NewsArticle
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	article.ID = id
	now := time.Now()
	article.UpdatedAt = now
	article.EnsurePublishedAt(now)
	if err := article.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.UpdateArticle(&article); err != nil {
		writeStoreError(w, err, "Error updating article")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// HandlePublishArticle transitions an article to published.
func (h *NewsHandler) HandlePublishArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	article, err := h.store.PublishArticle(r.PathValue("id"), time.Now())
	if err != nil {
		writeStoreError(w, err, "Error publishing article")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// HandleDeleteArticle removes an article.
func (h *NewsHandler) HandleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if err := h.store.DeleteArticle(id); err != nil {
		writeStoreError(w, err, "Error deleting article")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Article deleted successfully"})
}

// HandleArticleStats summarizes the article collection for the dashboard.
func (h *NewsHandler) HandleArticleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	articles, err := h.store.ListArticles()
	if err != nil {
		writeStoreError(w, err, "Error fetching articles")
		return
	}

	stats := feed.Stats(articles)
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":           stats,
		"published_today": feed.TodayPublishedCount(articles, time.Now()),
	})
}
