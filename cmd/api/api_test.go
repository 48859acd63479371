package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mledger/recipeshare/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		SessionCookieName:    "recipeshare_session",
		SessionLifetimeHours: 1,
	}
}

// TestAPI_SignupRecipeFlow is an integration test: it builds the full router
// with a sqlmock-backed DB and walks the cookie-authenticated flow end to end:
// signup, check_session, create a recipe, list it, log out, get rejected.
func TestAPI_SignupRecipeFlow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "bio", "image_url", "password_hash"}).
			AddRow(1, "ana", "cook", nil, "hashed")
	}

	// 1) POST /signup
	mock.ExpectQuery(`INSERT INTO users \(username, bio, image_url, password_hash\)`).
		WithArgs("ana", "cook", nil, sqlmock.AnyArg()).
		WillReturnRows(userRows())

	// 2) GET /check_session
	mock.ExpectQuery(`SELECT id, username, bio, image_url, password_hash`).
		WithArgs(1).
		WillReturnRows(userRows())

	// 3) POST /recipes: owner resolve, then insert
	mock.ExpectQuery(`SELECT id, username, bio, image_url, password_hash`).
		WithArgs(1).
		WillReturnRows(userRows())
	mock.ExpectQuery(`INSERT INTO recipes \(title, instructions, minutes_to_complete, user_id\)`).
		WithArgs("toast", "toast the bread", 5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "toast", "toast the bread", 5, 1))

	// 4) GET /recipes
	mock.ExpectQuery(`SELECT id, title, instructions, minutes_to_complete, user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "toast", "toast the bread", 5, 1))

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{Jar: jar}

	// 1) Signup
	signupBody, _ := json.Marshal(map[string]interface{}{
		"username": "ana", "password": "pw1", "bio": "cook", "image_url": nil,
	})
	resp, err := client.Post(srv.URL+"/signup", "application/json", bytes.NewReader(signupBody))
	if err != nil {
		t.Fatalf("signup request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: got %d, want 201", resp.StatusCode)
	}

	// 2) Check session rides the cookie from signup
	resp, err = client.Get(srv.URL + "/check_session")
	if err != nil {
		t.Fatalf("check_session request: %v", err)
	}
	var user struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("decode check_session: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || user.ID != 1 || user.Username != "ana" {
		t.Fatalf("check_session: status %d, user %+v", resp.StatusCode, user)
	}

	// 3) Create a recipe
	recipeBody, _ := json.Marshal(map[string]interface{}{
		"title": "toast", "instructions": "toast the bread", "minutes_to_complete": 5,
	})
	resp, err = client.Post(srv.URL+"/recipes", "application/json", bytes.NewReader(recipeBody))
	if err != nil {
		t.Fatalf("create recipe request: %v", err)
	}
	var created struct {
		Title string `json:"title"`
		User  *struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode recipe: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created.Title != "toast" {
		t.Fatalf("create recipe: status %d, body %+v", resp.StatusCode, created)
	}
	if created.User == nil || created.User.Username != "ana" {
		t.Fatalf("create recipe: expected embedded owner, got %+v", created.User)
	}

	// 4) List recipes
	resp, err = client.Get(srv.URL + "/recipes")
	if err != nil {
		t.Fatalf("list recipes request: %v", err)
	}
	var list []struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(list) != 1 || list[0].Title != "toast" {
		t.Fatalf("list recipes: status %d, list %+v", resp.StatusCode, list)
	}

	// 5) Logout
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/logout", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("logout request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status: got %d, want 204", resp.StatusCode)
	}

	// 6) Recipes are gated again
	resp, err = client.Get(srv.URL + "/recipes")
	if err != nil {
		t.Fatalf("post-logout request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("post-logout status: got %d, want 401", resp.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
}

// TestAPI_Ready checks that /ready pings the DB and returns 200 when DB is reachable.
func TestAPI_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready status: got %d, want 200", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
