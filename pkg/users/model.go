package users

import (
	"time"

	"startupconnect/pkg/policy"
)

type User struct {
	ID         int64       `json:"id"`
	UUID       string      `json:"uuid"`
	Email      string      `json:"email"`
	FullName   string      `json:"full_name"`
	Role       policy.Role `json:"role" swaggertype:"string"`
	VerifiedAt *time.Time  `json:"verified_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (u User) Actor() policy.Actor {
	return policy.Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
}

type UserList struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// UpdateUserInput carries the editable fields. Empty strings keep the stored
// value; Role is honoured for admins only.
type UpdateUserInput struct {
	FullName string
	Email    string
	Role     policy.Role
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
