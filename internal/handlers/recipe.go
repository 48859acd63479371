package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mledger/recipeshare/internal/metrics"
	"github.com/mledger/recipeshare/internal/repo"
	"github.com/mledger/recipeshare/internal/session"
)

// ==========================
// Recipe Handler
// ==========================
type RecipeHandler struct {
	Recipes  *repo.RecipeRepo
	Users    *repo.UserRepo
	Sessions *session.Store
}

// ==========================
// List Recipes
// ==========================
// Index returns the session user's recipes. An owner with no recipes gets an
// empty JSON array with 200.
func (h *RecipeHandler) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.Sessions.UserID(r.Context())
	if !ok {
		JSONError(w, ErrMessageNotLoggedIn, http.StatusUnauthorized)
		return
	}

	recipes, err := h.Recipes.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("list recipes", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipes)
}

// ==========================
// Create Recipe
// ==========================
// Create persists a recipe owned by the session user and returns it with the
// owner's public fields embedded. Ownership comes only from the session; a
// client-supplied user id is never read. minutes_to_complete must be present
// and non-zero, matching the title/instructions presence rule.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.Sessions.UserID(r.Context())
	if !ok {
		JSONError(w, ErrMessageNotLoggedIn, http.StatusUnauthorized)
		return
	}

	var input struct {
		Title             string `json:"title" validate:"required"`
		Instructions      string `json:"instructions" validate:"required"`
		MinutesToComplete int    `json:"minutes_to_complete" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(input); err != nil {
		JSONError(w, ErrMessageBadRecipe, http.StatusUnprocessableEntity)
		return
	}

	// The session normally guarantees the owner exists; a stale session that
	// outlived its user row still has to be handled.
	owner, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrMessageBadOwner, http.StatusUnprocessableEntity)
			return
		}
		slog.Error("create recipe: resolve owner", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	recipe, err := h.Recipes.Create(r.Context(), input.Title, input.Instructions, input.MinutesToComplete, owner.ID)
	if err != nil {
		slog.Error("create recipe", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	recipe.User = owner
	metrics.IncRecipeCreated()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(recipe)
}
