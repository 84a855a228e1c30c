// Package auth implements the admin console authentication: email/password
// login against the embedded auth collection, bearer-token middleware, and
// the admin email policy.
package auth

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/tokens"

	"whollycity/internal/logging"
	"whollycity/internal/models"
	"whollycity/internal/storage"
)

// Fixed user-facing messages. Clients match on these strings, so they are
// part of the API surface and must not be reworded.
const (
	MsgAccessDenied        = "Access denied. Admin privileges required."
	MsgUserNotFound        = "No admin account found with this email."
	MsgWrongPassword       = "Invalid password."
	MsgInvalidEmail        = "Invalid email format."
	MsgUserDisabled        = "This admin account has been disabled."
	MsgTooManyAttempts     = "Too many failed attempts. Please try again later."
	MsgLoginFailed         = "Login failed. Please try again."
	MsgDomainNotAuthorized = "Email domain not authorized for admin access."
	MsgEmailInUse          = "An account with this email already exists."
	MsgWeakPassword        = "Password should be at least 6 characters."
	MsgRegisterFailed      = "Failed to create admin account. Please try again."
)

// Error carries the HTTP status and the fixed client-facing message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func failure(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Policy decides which emails may hold an admin session and which role they
// get. Everyone on the allow-list is super_admin; everyone else who passes
// the domain check is a plain admin.
type Policy struct {
	AllowEmails []string
	AllowDomain string
}

// IsAdminEmail reports whether the email may log into the console.
func (p Policy) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, allowed := range p.AllowEmails {
		if email == strings.ToLower(allowed) {
			return true
		}
	}
	return p.AllowDomain != "" && strings.HasSuffix(email, "@"+strings.ToLower(p.AllowDomain))
}

// RoleFor maps an email to its console role.
func (p Policy) RoleFor(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range p.AllowEmails {
		if email == strings.ToLower(allowed) {
			return "super_admin"
		}
	}
	return "admin"
}

// Session is a successful login: the bearer token plus the console view of
// the account.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Service authenticates against the embedded auth collection.
type Service struct {
	store  *storage.PocketBaseStore
	policy Policy
}

// NewService builds the auth service over the store.
func NewService(store *storage.PocketBaseStore, policy Policy) *Service {
	return &Service{store: store, policy: policy}
}

// Policy exposes the admin email policy for callers that only need role
// derivation.
func (s *Service) Policy() Policy { return s.policy }

// Login validates credentials and the admin policy, returning a session or
// an Error with one of the fixed messages.
func (s *Service) Login(email, password string) (*Session, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, failure(http.StatusBadRequest, MsgInvalidEmail)
	}

	app := s.store.GetPocketBase()
	record, err := app.Dao().FindAuthRecordByEmail(storage.CollectionUsers, email)
	if err != nil {
		return nil, failure(http.StatusUnauthorized, MsgUserNotFound)
	}
	if !record.ValidatePassword(password) {
		return nil, failure(http.StatusUnauthorized, MsgWrongPassword)
	}
	if !record.Verified() {
		return nil, failure(http.StatusForbidden, MsgUserDisabled)
	}
	if !s.policy.IsAdminEmail(record.Email()) {
		return nil, failure(http.StatusForbidden, MsgAccessDenied)
	}

	token, err := tokens.NewRecordAuthToken(app, record)
	if err != nil {
		logging.Error().Err(err).Msg("failed to issue auth token")
		return nil, failure(http.StatusInternalServerError, MsgLoginFailed)
	}

	now := time.Now()
	if err := s.store.TouchUserActivity(record.Id, now); err != nil {
		logging.Warn().Err(err).Str("user", record.Id).Msg("failed to stamp login activity")
	}

	return &Session{
		Token: token,
		User: models.User{
			ID:         record.Id,
			Email:      record.Email(),
			Username:   usernameFor(record.Username(), record.Email()),
			Role:       s.policy.RoleFor(record.Email()),
			CreatedAt:  record.Created.Time(),
			LastActive: now,
			IsActive:   true,
		},
	}, nil
}

// CreateAdmin registers a new console account, gated by the same policy as
// login. The display name becomes the username, falling back to the email
// prefix.
func (s *Service) CreateAdmin(email, password, displayName string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, failure(http.StatusBadRequest, MsgInvalidEmail)
	}
	if !s.policy.IsAdminEmail(email) {
		return nil, failure(http.StatusForbidden, MsgDomainNotAuthorized)
	}
	if len(password) < 6 {
		return nil, failure(http.StatusBadRequest, MsgWeakPassword)
	}

	app := s.store.GetPocketBase()
	if _, err := app.Dao().FindAuthRecordByEmail(storage.CollectionUsers, email); err == nil {
		return nil, failure(http.StatusConflict, MsgEmailInUse)
	}

	record, err := s.store.CreateAuthRecord(email, password, usernameFor(displayName, email))
	if err != nil {
		logging.Error().Err(err).Str("email", email).Msg("failed to create admin account")
		return nil, failure(http.StatusInternalServerError, MsgRegisterFailed)
	}

	return &models.User{
		ID:        record.Id,
		Email:     email,
		Username:  usernameFor(displayName, email),
		Role:      s.policy.RoleFor(email),
		CreatedAt: record.Created.Time(),
		IsActive:  true,
	}, nil
}

type contextKey struct{}

// UserFrom returns the authenticated user stored by Middleware.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(models.User)
	return user, ok
}

// Middleware authenticates the Authorization bearer token, enforces the
// admin policy, and stamps account activity before passing through.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, MsgLoginFailed)
			return
		}

		app := s.store.GetPocketBase()
		record, err := app.Dao().FindAuthRecordByToken(token, app.Settings().RecordAuthToken.Secret)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, MsgLoginFailed)
			return
		}
		if !s.policy.IsAdminEmail(record.Email()) {
			writeAuthError(w, http.StatusForbidden, MsgAccessDenied)
			return
		}

		if err := s.store.TouchUserActivity(record.Id, time.Now()); err != nil {
			logging.Warn().Err(err).Str("user", record.Id).Msg("failed to stamp request activity")
		}

		user := models.User{
			ID:        record.Id,
			Email:     record.Email(),
			Username:  usernameFor(record.Username(), record.Email()),
			Role:      s.policy.RoleFor(record.Email()),
			CreatedAt: record.Created.Time(),
			IsActive:  true,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + quote(message) + `}`))
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func usernameFor(displayName, email string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "Admin"
}
