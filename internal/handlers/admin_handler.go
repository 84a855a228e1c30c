package handlers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"whollycity/internal/auth"
	"whollycity/internal/feed"
	"whollycity/internal/models"
	"whollycity/internal/storage"
)

// AdminHandler serves the admin console: users, content items, and the
// dashboard stats.
type AdminHandler struct {
	store  *storage.PocketBaseStore
	policy auth.Policy
}

func NewAdminHandler(store *storage.PocketBaseStore, policy auth.Policy) *AdminHandler {
	return &AdminHandler{store: store, policy: policy}
}

// HandleListUsers returns console accounts, filtered by role, active, and q.
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.store.ListUsers(h.policy.RoleFor)
	if err != nil {
		writeStoreError(w, err, "Error fetching users")
		return
	}

	query := r.URL.Query()
	results := feed.FilterUsers(users,
		query.Get("role"),
		query.Get("active") == "true",
		query.Get("q"))

	writeJSON(w, http.StatusOK, map[string]any{
		"total": len(results),
		"users": results,
	})
}

// HandleSetUserActive toggles an account's active flag.
func (h *AdminHandler) HandleSetUserActive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.SetUserActive(id, body.Active); err != nil {
		writeStoreError(w, err, "Error updating user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": body.Active})
}

// HandleDeleteUser removes a console account.
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if user, ok := auth.UserFrom(r.Context()); ok && user.ID == id {
		writeError(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := h.store.DeleteUser(id); err != nil {
		writeStoreError(w, err, "Error deleting user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// HandleListContent returns content items filtered by status, type, and q.
func (h *AdminHandler) HandleListContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.store.ListContentItems()
	if err != nil {
		writeStoreError(w, err, "Error fetching content")
		return
	}

	query := r.URL.Query()
	results := feed.FilterContent(items,
		models.ArticleStatus(query.Get("status")),
		models.ContentType(query.Get("type")),
		query.Get("q"))

	writeJSON(w, http.StatusOK, map[string]any{
		"total": len(results),
		"items": results,
	})
}

// HandleCreateContent persists a new content item.
func (h *AdminHandler) HandleCreateContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var item models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := time.Now()
	if item.Status == "" {
		item.Status = models.StatusDraft
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveContentItem(&item); err != nil {
		writeStoreError(w, err, "Error saving content item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleUpdateContent overwrites a content item.
func (h *AdminHandler) HandleUpdateContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	var item models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	item.ID = id
	item.UpdatedAt = time.Now()
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.UpdateContentItem(&item); err != nil {
		writeStoreError(w, err, "Error updating content item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleDeleteContent removes a content item.
func (h *AdminHandler) HandleDeleteContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if err := h.store.DeleteContentItem(id); err != nil {
		writeStoreError(w, err, "Error deleting content item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Content item deleted successfully"})
}

// HandleListReports returns filed crime reports for the console, newest
// first.
func (h *AdminHandler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reports, err := h.store.ListCrimeReports()
	if err != nil {
		writeStoreError(w, err, "Error fetching reports")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(reports),
		"reports": reports,
	})
}

// HandleUpdateReportStatus moves a report through the investigation workflow.
func (h *AdminHandler) HandleUpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if body.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	if err := h.store.UpdateCrimeReportStatus(id, body.Status); err != nil {
		writeStoreError(w, err, "Error updating report status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": body.Status})
}

// HandleDeleteReport removes a filed report.
func (h *AdminHandler) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if err := h.store.DeleteCrimeReport(id); err != nil {
		writeStoreError(w, err, "Error deleting report")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Report deleted successfully"})
}

// HandleAdminStats returns the dashboard headline numbers.
func (h *AdminHandler) HandleAdminStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.store.ListUsers(h.policy.RoleFor)
	if err != nil {
		writeStoreError(w, err, "Error fetching users")
		return
	}
	items, err := h.store.ListContentItems()
	if err != nil {
		writeStoreError(w, err, "Error fetching content")
		return
	}
	articles, err := h.store.ListArticles()
	if err != nil {
		writeStoreError(w, err, "Error fetching articles")
		return
	}

	writeJSON(w, http.StatusOK, feed.AdminStats(users, items, articles, time.Now()))
}
