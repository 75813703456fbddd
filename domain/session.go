package domain

import "time"

// Session represents a cached authentication session stored in Redis.
// It carries the identity fields the middleware needs so protected requests
// resolve the caller without a user lookup.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// Identity projects the session into the request-scoped caller identity.
func (s *Session) Identity() Identity {
	if s == nil {
		return Identity{}
	}
	return Identity{
		UserID: s.UserID,
		Email:  s.Email,
		Role:   s.Role,
	}
}
