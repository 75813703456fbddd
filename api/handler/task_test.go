package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/business-os/backend/api/transport"
	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
	taskUC "github.com/business-os/backend/usecase/task"
)

// countingTaskRepo records every call so tests can assert that rejected
// requests never reach persistence.
type countingTaskRepo struct {
	tasks map[string]*domain.Task
	calls int
}

func newCountingTaskRepo() *countingTaskRepo {
	return &countingTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *countingTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.calls++
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *countingTaskRepo) GetWithRelations(ctx context.Context, id string) (*domain.Task, error) {
	return r.GetByID(ctx, id)
}

func (r *countingTaskRepo) ListForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	r.calls++
	out := make([]domain.Task, 0)
	for _, t := range r.tasks {
		if t.CreatorID == userID || (t.AssigneeID != nil && *t.AssigneeID == userID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *countingTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	r.calls++
	task.ID = uuid.NewString()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	copied := *task
	r.tasks[task.ID] = &copied
	return task, nil
}

func (r *countingTaskRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	r.calls++
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
	copied := *t
	return &copied, nil
}

func (r *countingTaskRepo) Delete(ctx context.Context, id string) error {
	r.calls++
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type countingUserRepo struct {
	users map[string]*domain.User
	calls int
}

func (r *countingUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.calls++
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *countingUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.calls++
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *countingUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	r.calls++
	r.users[user.Email] = user
	return nil
}

type countingActivityRepo struct {
	appended []domain.Activity
}

func (r *countingActivityRepo) Append(ctx context.Context, a *domain.Activity) error {
	r.appended = append(r.appended, *a)
	return nil
}

func (r *countingActivityRepo) ListForTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	return nil, nil
}

type taskHandlerFixture struct {
	handler    *TaskHandler
	tasks      *countingTaskRepo
	users      *countingUserRepo
	activities *countingActivityRepo
}

func newTaskHandlerFixture() *taskHandlerFixture {
	tasks := newCountingTaskRepo()
	users := &countingUserRepo{users: map[string]*domain.User{
		"ana@example.com": {ID: "user-a", Name: "Ana", Email: "ana@example.com"},
	}}
	activities := &countingActivityRepo{}
	uc := taskUC.New(tasks, users, activities, nil)
	return &taskHandlerFixture{
		handler:    NewTaskHandler(uc, nil, nil),
		tasks:      tasks,
		users:      users,
		activities: activities,
	}
}

func newRequestCtx(method, uri string, body []byte) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return &ctx
}

func authenticate(ctx *fasthttp.RequestCtx) {
	ctx.Request.Header.Set("X-User-ID", "user-a")
	ctx.Request.Header.Set("X-User-Email", "ana@example.com")
	ctx.Request.Header.Set("X-User-Role", domain.RoleUser)
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) transport.ErrorResponse {
	t.Helper()
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp
}

func TestTaskHandler_UnauthenticatedNeverTouchesPersistence(t *testing.T) {
	f := newTaskHandlerFixture()

	calls := []struct {
		name string
		run  func(*fasthttp.RequestCtx)
		ctx  *fasthttp.RequestCtx
	}{
		{"list", f.handler.GetTasks, newRequestCtx(fasthttp.MethodGet, "/api/tasks", nil)},
		{"create", f.handler.CreateTask, newRequestCtx(fasthttp.MethodPost, "/api/tasks", []byte(`{"title":"x"}`))},
		{"get", f.handler.GetTask, newRequestCtx(fasthttp.MethodGet, "/api/tasks/abc", nil)},
		{"update", f.handler.UpdateTask, newRequestCtx(fasthttp.MethodPut, "/api/tasks/abc", []byte(`{"title":"x"}`))},
		{"delete", f.handler.DeleteTask, newRequestCtx(fasthttp.MethodDelete, "/api/tasks/abc", nil)},
	}

	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(tc.ctx)
			assert.Equal(t, http.StatusUnauthorized, tc.ctx.Response.StatusCode())
			assert.Equal(t, msgUnauthorized, decodeError(t, tc.ctx).Error)
		})
	}

	assert.Zero(t, f.tasks.calls)
	assert.Zero(t, f.users.calls)
	assert.Empty(t, f.activities.appended)
}

func TestTaskHandler_CreateTask(t *testing.T) {
	f := newTaskHandlerFixture()

	ctx := newRequestCtx(fasthttp.MethodPost, "/api/tasks",
		[]byte(`{"title":"Ship report","description":"Q3","responsible":true,"dueDate":"2026-09-15"}`))
	authenticate(ctx)

	f.handler.CreateTask(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())

	var created domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &created))
	assert.Equal(t, "Ship report", created.Title)
	assert.Equal(t, "user-a", created.CreatorID)
	require.NotNil(t, created.AssigneeID)
	assert.Equal(t, "user-a", *created.AssigneeID)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, 2026, created.DueDate.Year())
	assert.Equal(t, domain.TaskStatusPending, created.Status)

	require.Len(t, f.activities.appended, 1)
	assert.Equal(t, domain.ActivityCreated, f.activities.appended[0].Action)
}

func TestTaskHandler_CreateTask_EmptyTitle(t *testing.T) {
	f := newTaskHandlerFixture()

	ctx := newRequestCtx(fasthttp.MethodPost, "/api/tasks", []byte(`{"title":""}`))
	authenticate(ctx)

	f.handler.CreateTask(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, msgTitleRequired, decodeError(t, ctx).Error)
	assert.Empty(t, f.tasks.tasks)
}

func TestTaskHandler_CreateTask_MalformedBody(t *testing.T) {
	f := newTaskHandlerFixture()

	ctx := newRequestCtx(fasthttp.MethodPost, "/api/tasks", []byte(`{not json`))
	authenticate(ctx)

	f.handler.CreateTask(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, msgInvalidPayload, decodeError(t, ctx).Error)
	assert.Zero(t, f.tasks.calls)
}

func TestTaskHandler_GetTasks_EmptyListIsArray(t *testing.T) {
	f := newTaskHandlerFixture()

	ctx := newRequestCtx(fasthttp.MethodGet, "/api/tasks", nil)
	authenticate(ctx)

	f.handler.GetTasks(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "[]", string(ctx.Response.Body()))
}

func TestTaskHandler_GetTask_NotFound(t *testing.T) {
	f := newTaskHandlerFixture()

	ctx := newRequestCtx(fasthttp.MethodGet, "/api/tasks/missing", nil)
	authenticate(ctx)
	ctx.SetUserValue("id", "missing")

	f.handler.GetTask(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, msgTaskNotFound, decodeError(t, ctx).Error)
}

func TestTaskHandler_UpdateTask_SparsePatch(t *testing.T) {
	f := newTaskHandlerFixture()
	seeded := &domain.Task{
		ID:          "task-1",
		Title:       "Original",
		Description: "Keep me",
		Status:      domain.TaskStatusPending,
		CreatorID:   "user-a",
	}
	f.tasks.tasks["task-1"] = seeded

	ctx := newRequestCtx(fasthttp.MethodPut, "/api/tasks/task-1", []byte(`{"status":"completed"}`))
	authenticate(ctx)
	ctx.SetUserValue("id", "task-1")

	f.handler.UpdateTask(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var updated domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &updated))
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "Keep me", updated.Description)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	f := newTaskHandlerFixture()
	f.tasks.tasks["task-1"] = &domain.Task{ID: "task-1", Title: "Doomed", CreatorID: "user-a"}

	ctx := newRequestCtx(fasthttp.MethodDelete, "/api/tasks/task-1", nil)
	authenticate(ctx)
	ctx.SetUserValue("id", "task-1")

	f.handler.DeleteTask(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var resp transport.MessageResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, msgTaskDeleted, resp.Message)
	assert.Empty(t, f.tasks.tasks)
	assert.Empty(t, f.activities.appended)
}

func TestTaskHandler_DeleteTask_NotFound(t *testing.T) {
	f := newTaskHandlerFixture()

	ctx := newRequestCtx(fasthttp.MethodDelete, "/api/tasks/missing", nil)
	authenticate(ctx)
	ctx.SetUserValue("id", "missing")

	f.handler.DeleteTask(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, msgTaskNotFound, decodeError(t, ctx).Error)
}
