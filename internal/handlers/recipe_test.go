package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mledger/recipeshare/internal/repo"
)

func TestRecipeHandler_Index_NotLoggedIn(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sessions := newSessionStore()
	h := &RecipeHandler{Recipes: repo.NewRecipeRepo(db), Users: repo.NewUserRepo(db), Sessions: sessions}

	req := requestWithSession(t, sessions, "GET", "/recipes", nil, 0)
	rr := httptest.NewRecorder()
	h.Index(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Index status: got %d, want 401", rr.Code)
	}
	var out struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&out)
	if out.Message != ErrMessageNotLoggedIn {
		t.Errorf("message: got %q, want %q", out.Message, ErrMessageNotLoggedIn)
	}
}

func TestRecipeHandler_Index(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, instructions, minutes_to_complete, user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "toast", "toast the bread", 5, 1))

	sessions := newSessionStore()
	h := &RecipeHandler{Recipes: repo.NewRecipeRepo(db), Users: repo.NewUserRepo(db), Sessions: sessions}

	req := requestWithSession(t, sessions, "GET", "/recipes", nil, 1)
	rr := httptest.NewRecorder()
	h.Index(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Index status: got %d, want 200", rr.Code)
	}
	var list []struct {
		Title             string `json:"title"`
		Instructions      string `json:"instructions"`
		MinutesToComplete int    `json:"minutes_to_complete"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].Title != "toast" || list[0].MinutesToComplete != 5 {
		t.Errorf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_Index_EmptyList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, instructions, minutes_to_complete, user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}))

	sessions := newSessionStore()
	h := &RecipeHandler{Recipes: repo.NewRecipeRepo(db), Users: repo.NewUserRepo(db), Sessions: sessions}

	req := requestWithSession(t, sessions, "GET", "/recipes", nil, 1)
	rr := httptest.NewRecorder()
	h.Index(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Index status: got %d, want 200", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("empty listing body: got %q, want []", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_Create_NotLoggedIn(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sessions := newSessionStore()
	h := &RecipeHandler{Recipes: repo.NewRecipeRepo(db), Users: repo.NewUserRepo(db), Sessions: sessions}

	body := []byte(`{"title":"toast","instructions":"toast it","minutes_to_complete":5}`)
	req := requestWithSession(t, sessions, "POST", "/recipes", body, 0)
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Create status: got %d, want 401", rr.Code)
	}
}

func TestRecipeHandler_Create_InvalidData(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sessions := newSessionStore()
	h := &RecipeHandler{Recipes: repo.NewRecipeRepo(db), Users: repo.NewUserRepo(db), Sessions: sessions}

	for _, body := range []string{
		`{"title":"","instructions":"toast it","minutes_to_complete":5}`,
		`{"title":"toast","instructions":"","minutes_to_complete":5}`,
		`{"title":"toast","instructions":"toast it","minutes_to_complete":0}`,
		`{"title":"toast","instructions":"toast it"}`,
	} {
		req := requestWithSession(t, sessions, "POST", "/recipes", []byte(body), 1)
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Create(%s) status: got %d, want 422", body, rr.Code)
		}
		var out struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&out)
		if out.Message != ErrMessageBadRecipe {
			t.Errorf("Create(%s) message: got %q", body, out.Message)
		}
	}
	// Invalid input never reaches the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_Create_StaleOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, bio, image_url, password_hash`).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)

	sessions := newSessionStore()
	h := &RecipeHandler{Recipes: repo.NewRecipeRepo(db), Users: repo.NewUserRepo(db), Sessions: sessions}

	body := []byte(`{"title":"toast","instructions":"toast it","minutes_to_complete":5}`)
	req := requestWithSession(t, sessions, "POST", "/recipes", body, 9)
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Create status: got %d, want 422", rr.Code)
	}
	var out struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&out)
	if out.Message != ErrMessageBadOwner {
		t.Errorf("message: got %q, want %q", out.Message, ErrMessageBadOwner)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, bio, image_url, password_hash`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "bio", "image_url", "password_hash"}).
			AddRow(1, "ana", "cook", nil, "hashed"))

	mock.ExpectQuery(`INSERT INTO recipes \(title, instructions, minutes_to_complete, user_id\)`).
		WithArgs("toast", "toast it", 5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "toast", "toast it", 5, 1))

	sessions := newSessionStore()
	h := &RecipeHandler{Recipes: repo.NewRecipeRepo(db), Users: repo.NewUserRepo(db), Sessions: sessions}

	body := []byte(`{"title":"toast","instructions":"toast it","minutes_to_complete":5}`)
	req := requestWithSession(t, sessions, "POST", "/recipes", body, 1)
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Create status: got %d, want 201", rr.Code)
	}
	var out struct {
		Title             string `json:"title"`
		Instructions      string `json:"instructions"`
		MinutesToComplete int    `json:"minutes_to_complete"`
		User              *struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Title != "toast" || out.MinutesToComplete != 5 {
		t.Errorf("unexpected recipe: %+v", out)
	}
	if out.User == nil || out.User.ID != 1 || out.User.Username != "ana" {
		t.Errorf("expected embedded owner, got %+v", out.User)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
