package models

// Recipe serializes to {title, instructions, minutes_to_complete}.
// User is attached only on creation responses, where the owner is embedded.
type Recipe struct {
	ID                int    `json:"-"`
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete int    `json:"minutes_to_complete"`
	UserID            int    `json:"-"`
	User              *User  `json:"user,omitempty"`
}
