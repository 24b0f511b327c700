package auth

import "time"

// User is the credential record owned by the user store. PasswordHash is
// opaque outside HashPassword/VerifyPassword.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the response-safe projection of a User.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is the result of a successful registration or login.
type Session struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}
