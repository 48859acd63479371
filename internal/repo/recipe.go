package repo

import (
	"context"
	"database/sql"

	"github.com/mledger/recipeshare/internal/models"
)

// ==========================
// RecipeRepo
// ==========================
type RecipeRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{DB: db}
}

// ==========================
// Create Recipe
// ==========================
func (r *RecipeRepo) Create(ctx context.Context, title, instructions string, minutesToComplete, userID int) (*models.Recipe, error) {
	query := `
		INSERT INTO recipes (title, instructions, minutes_to_complete, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, instructions, minutes_to_complete, user_id
	`

	recipe := &models.Recipe{}

	err := r.DB.QueryRowContext(ctx, query, title, instructions, minutesToComplete, userID).
		Scan(&recipe.ID, &recipe.Title, &recipe.Instructions, &recipe.MinutesToComplete, &recipe.UserID)

	if err != nil {
		return nil, err
	}

	return recipe, nil
}

// ==========================
// List By User
// ==========================
// ListByUser returns the recipes owned by userID. The result is never nil:
// an owner with no recipes gets an empty slice, which encodes as a JSON [].
func (r *RecipeRepo) ListByUser(ctx context.Context, userID int) ([]models.Recipe, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, instructions, minutes_to_complete, user_id
		FROM recipes
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0)
	for rows.Next() {
		var rec models.Recipe
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Instructions, &rec.MinutesToComplete, &rec.UserID); err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}

	return recipes, rows.Err()
}
