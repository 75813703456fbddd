package domain

import "time"

// User represents an authenticated identity in the platform.
// Users are provisioned out-of-band (see cmd/seed) and only read here.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Image     *string   `json:"image,omitempty"`
	RoleID    string    `json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the reduced identity embedded in task relations.
type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image,omitempty"`
}

// Identity is the resolved caller of a request, produced by the session
// middleware and passed through the call chain instead of ambient state.
type Identity struct {
	UserID string
	Email  string
	Role   string
}
