package domain

import "time"

// Activity actions recorded by the task service. Deletion is intentionally
// not recorded, mirroring the create/update-only audit trail.
const (
	ActivityCreated = "created"
	ActivityUpdated = "updated"
)

// Activity is an append-only audit record tying a user action to a task.
// Activities are never updated or deleted.
type Activity struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserID    string    `json:"userId"`
	TaskID    string    `json:"taskId"`
	CreatedAt time.Time `json:"createdAt"`
}
