package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, title, description, status, COALESCE(priority, ''), due_date, assignee_id, creator_id, created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) GetWithRelations(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT t.id, t.title, t.description, t.status, COALESCE(t.priority, ''), t.due_date,
	       t.assignee_id, t.creator_id, t.created_at, t.updated_at,
	       a.id, a.name, a.email, a.image,
	       c.id, c.name, c.email
	FROM tasks t
	LEFT JOIN users a ON a.id = t.assignee_id
	JOIN users c ON c.id = t.creator_id
	WHERE t.id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var task domain.Task
	var (
		assigneeID *string
		aID        *string
		aName      *string
		aEmail     *string
		aImage     *string
		creator    domain.UserSummary
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&assigneeID,
		&task.CreatorID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&aID,
		&aName,
		&aEmail,
		&aImage,
		&creator.ID,
		&creator.Name,
		&creator.Email,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.AssigneeID = assigneeID
	if aID != nil {
		task.Assignee = &domain.UserSummary{
			ID:    *aID,
			Image: aImage,
		}
		if aName != nil {
			task.Assignee.Name = *aName
		}
		if aEmail != nil {
			task.Assignee.Email = *aEmail
		}
	}
	task.Creator = &creator

	return &task, nil
}

func (r *taskRepository) ListForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE assignee_id = $1 OR creator_id = $1
	ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, status, priority, due_date, assignee_id, creator_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		nullString(task.Priority),
		task.DueDate,
		task.AssigneeID,
		task.CreatorID,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

// Update merges the patch in a single statement: NULL arguments keep the
// stored value, so absent patch fields never overwrite existing data.
func (r *taskRepository) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET title = COALESCE($2, title),
		description = COALESCE($3, description),
		status = COALESCE($4, status),
		due_date = COALESCE($5, due_date),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + taskColumns + `
	`

	row := r.pool.QueryRow(ctx, query,
		id,
		patch.Title,
		patch.Description,
		patch.Status,
		patch.DueDate,
	)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.AssigneeID,
		&task.CreatorID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}
