package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/mledger/recipeshare/internal/metrics"
	"github.com/mledger/recipeshare/internal/models"
	"github.com/mledger/recipeshare/internal/repo"
	"github.com/mledger/recipeshare/internal/session"
)

var validate = validator.New()

// pqUniqueViolation is the Postgres error code for a unique constraint violation.
const pqUniqueViolation = "23505"

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users    *repo.UserRepo
	Sessions *session.Store
}

// ==========================
// Signup
// ==========================
// Signup creates a user, establishes the session, and returns the public
// fields with 201. A duplicate username maps to 422 without exposing the
// driver error; the failed INSERT leaves no row behind.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string  `json:"username" validate:"required"`
		Password string  `json:"password" validate:"required"`
		Bio      *string `json:"bio"`
		ImageURL *string `json:"image_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(input); err != nil {
		JSONError(w, ErrMessageBadUserData, http.StatusUnprocessableEntity)
		return
	}

	user := &models.User{Username: input.Username, Bio: input.Bio, ImageURL: input.ImageURL}
	if err := user.SetPassword(input.Password); err != nil {
		slog.Error("signup: hash password", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	created, err := h.Users.Create(r.Context(), user.Username, user.Bio, user.ImageURL, user.PasswordHash)
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == pqUniqueViolation {
			JSONError(w, ErrMessageDuplicateUser, http.StatusUnprocessableEntity)
			return
		}
		slog.Error("signup: create user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	h.Sessions.SetUserID(r.Context(), created.ID)
	metrics.IncSignup()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ==========================
// Check Session
// ==========================
// CheckSession resolves the session's user id to its public fields. A session
// pointing at a deleted user is reported as 404, not 401.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.Sessions.UserID(r.Context())
	if !ok {
		JSONError(w, ErrMessageNotLoggedIn, http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrMessageUserNotFound, http.StatusNotFound)
			return
		}
		slog.Error("check session: get user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Login
// ==========================
// Login verifies the password against the stored bcrypt hash. Unknown username
// and wrong password produce the same 401 body. Success returns 201, which is
// what the original clients of this API expect.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil || !user.Authenticate(input.Password) {
		metrics.IncLogin("failure")
		JSONError(w, ErrMessageBadLogin, http.StatusUnauthorized)
		return
	}

	h.Sessions.SetUserID(r.Context(), user.ID)
	metrics.IncLogin("success")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Logout
// ==========================
// Logout clears the session user unconditionally and returns 204. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
