package repository

import (
	"context"

	"github.com/business-os/backend/domain"
)

// ActivityRepository is append-only: activities are never updated or deleted.
type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.Activity) error
	ListForTask(ctx context.Context, taskID string) ([]domain.Activity, error)
}
