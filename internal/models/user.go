package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Group membership references users by
// Username only; the rest of the domain never touches this type.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the stable identity used on every group record.
	Username string `json:"username"`

	// Email is the user's email address (unique), used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates a user with a fresh ID and creation timestamp.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
