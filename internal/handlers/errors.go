package handlers

import (
	"encoding/json"
	"net/http"
)

// Client-visible messages. Login failures share one message so a caller cannot
// tell a missing username from a wrong password.
const (
	ErrMessageInternal      = "Internal server error"
	ErrMessageNotLoggedIn   = "Please Log in"
	ErrMessageBadUserData   = "Invalid user data"
	ErrMessageDuplicateUser = "Username already exists"
	ErrMessageUserNotFound  = "User not found"
	ErrMessageBadLogin      = "Invalid credentials"
	ErrMessageBadRecipe     = "Invalid recipe data"
	ErrMessageBadOwner      = "Invalid user for recipe"
)

// JSONError sends a JSON error response with a single "message" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
