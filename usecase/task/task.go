package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
)

// UseCase implements the task lifecycle: authorization against the resolved
// identity, validation, the CRUD operation and the audit side effect.
type UseCase struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	logger     *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	activities repository.ActivityRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:      tasks,
		users:      users,
		activities: activities,
		logger:     logger,
	}
}

// CreateInput carries the validated fields of a create request.
type CreateInput struct {
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
	// Responsible self-assigns the task to its creator.
	Responsible bool
}

// ListTasks returns every task the caller created or is assigned to,
// most recently updated first.
func (uc *UseCase) ListTasks(ctx context.Context, identity domain.Identity) ([]domain.Task, error) {
	user, err := uc.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	return uc.tasks.ListForUser(ctx, user.ID)
}

// GetTask returns a single task with creator/assignee summaries embedded.
// Absence and foreign ownership are indistinguishable: both are NotFound.
func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetWithRelations(ctx, id)
}

// CreateTask validates the input, stores the task with the caller as creator
// and appends the "created" activity record.
func (uc *UseCase) CreateTask(ctx context.Context, identity domain.Identity, in CreateInput) (*domain.Task, error) {
	user, err := uc.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	status := in.Status
	if status == "" {
		status = domain.TaskStatusPending
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
		CreatorID:   user.ID,
	}
	if in.Responsible {
		task.AssigneeID = &user.ID
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	if err := uc.appendActivity(ctx, user.ID, created.ID, domain.ActivityCreated,
		fmt.Sprintf("Tarea %q creada", created.Title)); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateTask merges a sparse patch into an existing task and appends the
// "updated" activity record. Fields absent from the patch keep prior values.
func (uc *UseCase) UpdateTask(ctx context.Context, identity domain.Identity, id string, patch repository.TaskPatch) (*domain.Task, error) {
	user, err := uc.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	updated, err := uc.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if err := uc.appendActivity(ctx, user.ID, updated.ID, domain.ActivityUpdated,
		fmt.Sprintf("Tarea %q actualizada", updated.Title)); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteTask removes the task. Deletion appends no activity record.
func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	return uc.tasks.Delete(ctx, id)
}

// appendActivity runs after the mutation, outside any transaction: a crash
// in between leaves the task without its audit record.
func (uc *UseCase) appendActivity(ctx context.Context, userID, taskID, action, details string) error {
	activity := &domain.Activity{
		Action:  action,
		Details: details,
		UserID:  userID,
		TaskID:  taskID,
	}
	if err := uc.activities.Append(ctx, activity); err != nil {
		uc.logger.Error("failed to append activity",
			zap.String("task_id", taskID),
			zap.String("action", action),
			zap.Error(err))
		return err
	}
	return nil
}
