package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"adpress/internal/middleware"
	"adpress/internal/models"
	"adpress/internal/session"
	"adpress/internal/store"
)

// UserStore is the account storage the auth handlers need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, email, password, name string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Sessions issues and revokes bearer tokens.
type Sessions interface {
	Issue(u *models.User) (string, time.Time, error)
	Revoke(ctx context.Context, d *session.Data) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	users         UserStore
	sessions      Sessions
	allowRegister bool
}

// NewAuth creates a new Auth handler group. Registration is refused when
// allowRegister is false.
func NewAuth(users UserStore, sessions Sessions, allowRegister bool) *Auth {
	return &Auth{
		users:         users,
		sessions:      sessions,
		allowRegister: allowRegister,
	}
}

// tokenResponse is returned by register and login.
type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Register creates an admin account and signs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	if !a.allowRegister {
		writeError(w, http.StatusForbidden, "Registration is disabled")
		return
	}

	var req registerRequest
	if !bind(w, r, &req) {
		return
	}

	user, err := a.users.Create(r.Context(), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.Name))
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "User")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	a.respondWithToken(w, r, http.StatusCreated, user)
}

// Login verifies credentials and returns a bearer token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !bind(w, r, &req) {
		return
	}

	user, err := a.users.FindByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		writeServiceError(w, r, err, "User")
		return
	}

	// Same answer for unknown email and wrong password.
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		slog.Warn("failed login attempt", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	a.respondWithToken(w, r, http.StatusOK, user)
}

func (a *Auth) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, expires, err := a.sessions.Issue(user)
	if err != nil {
		writeServiceError(w, r, err, "User")
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, ExpiresAt: expires, User: user})
}

// Logout revokes the presented token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.sessions.Revoke(r.Context(), sess); err != nil {
		writeServiceError(w, r, err, "Session")
		return
	}
	slog.Info("user logged out", "user_id", sess.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the account behind the presented token.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, r, err, "User")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
