package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns the append-only activity log repository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO activities (id, action, details, user_id, task_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`

	return r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.Action,
		activity.Details,
		activity.UserID,
		activity.TaskID,
	).Scan(&activity.CreatedAt)
}

func (r *activityRepository) ListForTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	const query = `
	SELECT id, action, details, user_id, task_id, created_at
	FROM activities
	WHERE task_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Action, &a.Details, &a.UserID, &a.TaskID, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
