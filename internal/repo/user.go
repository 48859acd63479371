package repo

import (
	"context"
	"database/sql"

	"github.com/mledger/recipeshare/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
// Create inserts a new user. A duplicate username surfaces as a *pq.Error
// with code 23505 (unique_violation); callers decide how to report it.
func (r *UserRepo) Create(ctx context.Context, username string, bio, imageURL *string, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, bio, image_url, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, bio, image_url, password_hash
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username, bio, imageURL, passwordHash).
		Scan(&user.ID, &user.Username, &user.Bio, &user.ImageURL, &user.PasswordHash)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, bio, image_url, password_hash
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Bio, &user.ImageURL, &user.PasswordHash)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, bio, image_url, password_hash
		FROM users
		WHERE username = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Bio, &user.ImageURL, &user.PasswordHash)

	if err != nil {
		return nil, err
	}

	return user, nil
}
