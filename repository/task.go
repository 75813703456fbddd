package repository

import (
	"context"
	"time"

	"github.com/business-os/backend/domain"
)

// TaskPatch is a sparse update: only non-nil fields are merged into the
// stored task. Fields left nil retain their prior values.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

type TaskRepository interface {
	// GetByID returns the bare task row.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// GetWithRelations returns the task with creator and assignee summaries embedded.
	GetWithRelations(ctx context.Context, id string) (*domain.Task, error)
	// ListForUser returns every task the user created or is assigned to,
	// most recently updated first.
	ListForUser(ctx context.Context, userID string) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
