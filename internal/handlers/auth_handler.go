package handlers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"whollycity/internal/auth"
)

// AuthHandler serves console login and admin registration.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// HandleLogin authenticates console credentials and returns a bearer token.
// Failures carry the fixed messages clients match on.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.svc.Login(body.Email, body.Password)
	if err != nil {
		writeAuthFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

// HandleRegister creates a new admin account. The route sits behind the
// bearer middleware, so only an existing admin can add another.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.svc.CreateAdmin(body.Email, body.Password, body.DisplayName)
	if err != nil {
		writeAuthFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Admin account created successfully",
		"user":    user,
	})
}

func writeAuthFailure(w http.ResponseWriter, err error) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		writeJSON(w, authErr.Status, map[string]any{
			"success": false,
			"message": authErr.Message,
		})
		return
	}
	writeError(w, http.StatusInternalServerError, auth.MsgLoginFailed)
}
