package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mledger/recipeshare/internal/config"
	"github.com/mledger/recipeshare/internal/handlers"
	"github.com/mledger/recipeshare/internal/middleware"
	"github.com/mledger/recipeshare/internal/repo"
	"github.com/mledger/recipeshare/internal/session"
)

// newRouter wires repositories, the session store, and handlers into the full
// middleware chain. Kept separate from main so tests can build the router
// against a mock database.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	users := repo.NewUserRepo(database)
	recipes := repo.NewRecipeRepo(database)

	useTLS := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
	sessions := session.New(
		cfg.SessionCookieName,
		time.Duration(cfg.SessionLifetimeHours)*time.Hour,
		useTLS,
	)

	auth := &handlers.AuthHandler{Users: users, Sessions: sessions}
	recipe := &handlers.RecipeHandler{Recipes: recipes, Users: users, Sessions: sessions}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(useTLS))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(sessions.LoadAndSave)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.PingContext(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/signup", auth.Signup)
	r.Get("/check_session", auth.CheckSession)
	r.Post("/login", auth.Login)
	r.Delete("/logout", auth.Logout)

	r.Get("/recipes", recipe.Index)
	r.Post("/recipes", recipe.Create)

	return r
}
