package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
)

type fakeTaskRepo struct {
	tasks   map[string]*domain.Task
	order   []string
	creates int
	deletes int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) GetWithRelations(ctx context.Context, id string) (*domain.Task, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTaskRepo) ListForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, id := range r.order {
		t := r.tasks[id]
		if t.CreatorID == userID || (t.AssigneeID != nil && *t.AssigneeID == userID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	r.creates++
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	copied := *task
	r.tasks[task.ID] = &copied
	r.order = append(r.order, task.ID)
	return task, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	t.UpdatedAt = time.Now()
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	r.deletes++
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	lookups int
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.lookups++
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	r.byEmail[user.Email] = user
	return nil
}

type fakeActivityRepo struct {
	appended []domain.Activity
	fail     error
}

func (r *fakeActivityRepo) Append(ctx context.Context, a *domain.Activity) error {
	if r.fail != nil {
		return r.fail
	}
	r.appended = append(r.appended, *a)
	return nil
}

func (r *fakeActivityRepo) ListForTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range r.appended {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newTestUseCase() (*UseCase, *fakeTaskRepo, *fakeUserRepo, *fakeActivityRepo) {
	tasks := newFakeTaskRepo()
	users := &fakeUserRepo{byEmail: map[string]*domain.User{
		"ana@example.com": {ID: "user-a", Name: "Ana", Email: "ana@example.com"},
		"bob@example.com": {ID: "user-b", Name: "Bob", Email: "bob@example.com"},
	}}
	activities := &fakeActivityRepo{}
	return New(tasks, users, activities, nil), tasks, users, activities
}

func identityFor(email string) domain.Identity {
	return domain.Identity{Email: email}
}

func TestCreateTask_CreatorIsCaller(t *testing.T) {
	uc, _, _, activities := newTestUseCase()

	created, err := uc.CreateTask(context.Background(), identityFor("ana@example.com"), CreateInput{
		Title: "Ship report",
	})
	require.NoError(t, err)

	assert.Equal(t, "user-a", created.CreatorID)
	assert.Nil(t, created.AssigneeID)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.NotEmpty(t, created.ID)

	require.Len(t, activities.appended, 1)
	assert.Equal(t, domain.ActivityCreated, activities.appended[0].Action)
	assert.Equal(t, "user-a", activities.appended[0].UserID)
	assert.Equal(t, created.ID, activities.appended[0].TaskID)
	assert.Equal(t, `Tarea "Ship report" creada`, activities.appended[0].Details)
}

func TestCreateTask_ResponsibleSelfAssigns(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	created, err := uc.CreateTask(context.Background(), identityFor("ana@example.com"), CreateInput{
		Title:       "Review budget",
		Responsible: true,
	})
	require.NoError(t, err)

	require.NotNil(t, created.AssigneeID)
	assert.Equal(t, created.CreatorID, *created.AssigneeID)
}

func TestCreateTask_EmptyTitleRejectedBeforeMutation(t *testing.T) {
	uc, tasks, _, activities := newTestUseCase()

	_, err := uc.CreateTask(context.Background(), identityFor("ana@example.com"), CreateInput{
		Title: "   ",
	})
	require.ErrorIs(t, err, domain.ErrTitleRequired)
	assert.Zero(t, tasks.creates)
	assert.Empty(t, activities.appended)
}

func TestCreateTask_UnknownUser(t *testing.T) {
	uc, tasks, _, _ := newTestUseCase()

	_, err := uc.CreateTask(context.Background(), identityFor("ghost@example.com"), CreateInput{
		Title: "Anything",
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Zero(t, tasks.creates)
}

func TestCreateTask_ActivityFailureSurfaces(t *testing.T) {
	uc, _, _, activities := newTestUseCase()
	activities.fail = assert.AnError

	_, err := uc.CreateTask(context.Background(), identityFor("ana@example.com"), CreateInput{
		Title: "Ship report",
	})
	require.Error(t, err)
}

func TestListTasks_OnlyCreatorOrAssignee(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	ctx := context.Background()

	mine, err := uc.CreateTask(ctx, identityFor("ana@example.com"), CreateInput{Title: "Mine"})
	require.NoError(t, err)
	theirs, err := uc.CreateTask(ctx, identityFor("bob@example.com"), CreateInput{Title: "Bob's own"})
	require.NoError(t, err)

	listed, err := uc.ListTasks(ctx, identityFor("ana@example.com"))
	require.NoError(t, err)

	require.Len(t, listed, 1)
	assert.Equal(t, mine.ID, listed[0].ID)
	assert.NotEqual(t, theirs.ID, listed[0].ID)
}

func TestUpdateTask_SparsePatchKeepsAbsentFields(t *testing.T) {
	uc, _, _, activities := newTestUseCase()
	ctx := context.Background()

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	created, err := uc.CreateTask(ctx, identityFor("ana@example.com"), CreateInput{
		Title:       "Ship report",
		Description: "Quarterly numbers",
		DueDate:     &due,
	})
	require.NoError(t, err)

	status := domain.TaskStatusCompleted
	updated, err := uc.UpdateTask(ctx, identityFor("ana@example.com"), created.ID, repository.TaskPatch{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.Equal(t, "Ship report", updated.Title)
	assert.Equal(t, "Quarterly numbers", updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))

	require.Len(t, activities.appended, 2)
	assert.Equal(t, domain.ActivityUpdated, activities.appended[1].Action)
}

func TestUpdateTask_NotFound(t *testing.T) {
	uc, _, _, activities := newTestUseCase()

	title := "New title"
	_, err := uc.UpdateTask(context.Background(), identityFor("ana@example.com"), "missing", repository.TaskPatch{
		Title: &title,
	})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Empty(t, activities.appended)
}

func TestDeleteTask_TwiceReturnsNotFound(t *testing.T) {
	uc, _, _, activities := newTestUseCase()
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, identityFor("ana@example.com"), CreateInput{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteTask(ctx, created.ID))
	require.ErrorIs(t, uc.DeleteTask(ctx, created.ID), domain.ErrTaskNotFound)

	// Deletion appends no activity record.
	for _, a := range activities.appended {
		assert.NotEqual(t, "deleted", a.Action)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.GetTask(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}
