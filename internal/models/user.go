package models

import "golang.org/x/crypto/bcrypt"

// User's JSON form is exactly the public fields: the password hash is never serialized.
type User struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	Bio          *string `json:"bio"`
	ImageURL     *string `json:"image_url"`
	PasswordHash string  `json:"-"`
}

// SetPassword hashes the plaintext with bcrypt and stores the hash.
// The plaintext itself is never kept on the struct.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// Authenticate reports whether the plaintext matches the stored hash.
func (u *User) Authenticate(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}
