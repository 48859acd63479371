package main

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates
var templatesFS embed.FS

const (
	// webCookieName carries the API session token on the web UI's own domain.
	webCookieName = "recipeshare_web_session"
	// apiCookieName is the session cookie the API issues (see SESSION_COOKIE_NAME).
	apiCookieName = "recipeshare_session"
	defaultPort   = "3000"
	defaultAPI    = "http://localhost:8080"
	envWebPort    = "RECIPESHARE_WEB_PORT"
	envAPIURL     = "RECIPESHARE_API_URL"
)

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health (no auth, no templates)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public
	r.Get("/login", authForm("login.html"))
	r.Post("/login", authSubmit(apiBase, "/login", "login.html"))
	r.Get("/signup", authForm("signup.html"))
	r.Post("/signup", authSubmit(apiBase, "/signup", "signup.html"))
	r.Get("/logout", logout(apiBase))

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(apiBase))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/recipes", http.StatusFound)
		})
		r.Get("/recipes", recipesList(apiBase))
		r.Get("/recipes/new", recipeCreateForm)
		r.Post("/recipes", recipeCreate(apiBase))
	})

	log.Printf("Web UI running on http://localhost:%s (API: %s)", port, apiBase)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if data == nil {
		data = map[string]string{}
	}
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// requireAuth redirects to /login when the cookie is missing or the API no
// longer accepts the session.
func requireAuth(apiBase string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := r.Cookie(webCookieName)
			if err != nil || token.Value == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			_, status, _ := apiGet(apiBase, "/check_session", token.Value)
			if status != http.StatusOK {
				http.SetCookie(w, &http.Cookie{Name: webCookieName, Value: "", Path: "/", MaxAge: -1})
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authForm(tmpl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(webCookieName); err == nil && c.Value != "" {
			http.Redirect(w, r, "/recipes", http.StatusFound)
			return
		}
		renderTemplate(w, tmpl, nil)
	}
}

// authSubmit posts form credentials to the API's signup or login endpoint and,
// on success, re-issues the API's session token as a cookie on this domain.
func authSubmit(apiBase, apiPath, tmpl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		payload := map[string]interface{}{
			"username": strings.TrimSpace(r.FormValue("username")),
			"password": r.FormValue("password"),
		}
		if bio := strings.TrimSpace(r.FormValue("bio")); bio != "" {
			payload["bio"] = bio
		}
		if img := strings.TrimSpace(r.FormValue("image_url")); img != "" {
			payload["image_url"] = img
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", apiBase+apiPath, strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			renderTemplate(w, tmpl, map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusCreated {
			var errResp struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Message
			if msg == "" {
				msg = string(data)
			}
			renderTemplate(w, tmpl, map[string]string{"Error": msg})
			return
		}

		token := sessionToken(resp)
		if token == "" {
			renderTemplate(w, tmpl, map[string]string{"Error": "No session issued by API"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     webCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   24 * 3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/recipes", http.StatusFound)
	}
}

func logout(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(webCookieName); err == nil && c.Value != "" {
			req, _ := http.NewRequest("DELETE", apiBase+"/logout", nil)
			req.AddCookie(&http.Cookie{Name: apiCookieName, Value: c.Value})
			if resp, err := http.DefaultClient.Do(req); err == nil {
				resp.Body.Close()
			}
		}
		http.SetCookie(w, &http.Cookie{Name: webCookieName, Value: "", Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func recipesList(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := r.Cookie(webCookieName)
		data, status, err := apiGet(apiBase, "/recipes", token.Value)
		if err != nil || status != http.StatusOK {
			http.Error(w, "failed to load recipes", http.StatusBadGateway)
			return
		}
		var recipes []struct {
			Title             string `json:"title"`
			Instructions      string `json:"instructions"`
			MinutesToComplete int    `json:"minutes_to_complete"`
		}
		if err := json.Unmarshal(data, &recipes); err != nil {
			http.Error(w, "bad API response", http.StatusBadGateway)
			return
		}
		renderTemplate(w, "recipes.html", map[string]interface{}{"Recipes": recipes})
	}
}

func recipeCreateForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "new_recipe.html", nil)
}

func recipeCreate(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		token, _ := r.Cookie(webCookieName)

		payload := map[string]interface{}{
			"title":        strings.TrimSpace(r.FormValue("title")),
			"instructions": strings.TrimSpace(r.FormValue("instructions")),
		}
		if m := r.FormValue("minutes_to_complete"); m != "" {
			if minutes, err := strconv.Atoi(m); err == nil {
				payload["minutes_to_complete"] = minutes
			}
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", apiBase+"/recipes", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: apiCookieName, Value: token.Value})

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			renderTemplate(w, "new_recipe.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			data, _ := io.ReadAll(resp.Body)
			var errResp struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(data, &errResp)
			renderTemplate(w, "new_recipe.html", map[string]string{"Error": errResp.Message})
			return
		}
		http.Redirect(w, r, "/recipes", http.StatusFound)
	}
}

// sessionToken pulls the API session cookie value out of a response.
func sessionToken(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == apiCookieName {
			return c.Value
		}
	}
	return ""
}

// apiGet performs a GET against the API, presenting token as the session cookie.
func apiGet(apiBase, path, token string) ([]byte, int, error) {
	req, _ := http.NewRequest("GET", apiBase+path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: apiCookieName, Value: token})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return data, resp.StatusCode, err
}
