package domain

// Conventional seed roles. Nothing beyond referential integrity enforces the set.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role groups users for authorization decisions downstream.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
