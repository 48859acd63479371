package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"
const sessionFileName = ".recipeshare_session"

// APIURL returns the base URL for the RecipeShare API.
// It can be overridden with the RECIPESHARE_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("RECIPESHARE_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SessionFilePath is where the CLI keeps the session cookie between runs.
// Override with RECIPESHARE_SESSION_FILE (useful in tests).
func SessionFilePath() string {
	if v := os.Getenv("RECIPESHARE_SESSION_FILE"); v != "" {
		return v
	}
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, sessionFileName)
}

// SaveSessionCookie stores the raw "name=value" cookie pair with owner-only permissions.
func SaveSessionCookie(cookie string) error {
	return os.WriteFile(SessionFilePath(), []byte(cookie), 0600)
}

// LoadSessionCookie returns the stored cookie pair, or "" when no session is saved.
func LoadSessionCookie() string {
	data, err := os.ReadFile(SessionFilePath())
	if err != nil {
		return ""
	}
	return string(data)
}

// ClearSessionCookie removes the stored cookie. Missing file is not an error.
func ClearSessionCookie() error {
	err := os.Remove(SessionFilePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
