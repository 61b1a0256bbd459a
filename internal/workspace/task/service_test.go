// Copyright (c) 2026 Promptix. All rights reserved.

package task

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/ctxutil"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
	"github.com/promptix/portal/pkg/uuid"
)

// memoryRepository is an in-memory [Repository] that applies scopes with
// [access.Scope.Permits].
type memoryRepository struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

func newMemoryRepository(tasks ...*Task) *memoryRepository {
	repository := &memoryRepository{tasks: map[string]*Task{}}
	for _, task := range tasks {
		repository.tasks[task.ID] = task
	}
	return repository
}

func (repository *memoryRepository) visible(scope access.Scope, task *Task) bool {
	return scope.Permits(access.Record{OwnerID: task.AssignedTo})
}

func (repository *memoryRepository) List(_ context.Context, scope access.Scope, filter Filter, limit, offset int) ([]*Task, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*Task
	for _, task := range repository.tasks {
		if repository.visible(scope, task) {
			matched = append(matched, task)
		}
	}
	total := len(matched)
	if offset >= total {
		return []*Task{}, total, nil
	}
	return matched[offset:min(total, offset+limit)], total, nil
}

func (repository *memoryRepository) Get(_ context.Context, scope access.Scope, id string) (*Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	task, ok := repository.tasks[id]
	if !ok || !repository.visible(scope, task) {
		return nil, apperr.NotFound("Task")
	}
	return task, nil
}

func (repository *memoryRepository) Create(_ context.Context, task *Task) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	task.ID = uuid.New()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	repository.tasks[task.ID] = task
	return nil
}

func (repository *memoryRepository) UpdateStatus(_ context.Context, scope access.Scope, id, status string) (*Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	task, ok := repository.tasks[id]
	if !ok || !repository.visible(scope, task) {
		return nil, apperr.NotFound("Task")
	}
	task.Status = status
	return task, nil
}

func (repository *memoryRepository) Delete(_ context.Context, scope access.Scope, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	task, ok := repository.tasks[id]
	if !ok || !repository.visible(scope, task) {
		return apperr.NotFound("Task")
	}
	delete(repository.tasks, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	executive = &directory.Profile{ID: "0190a7e2-0000-7000-8000-000000000001", Role: sec.RoleExecutive, Department: directory.DepartmentExecutive, IsActive: true}
	sysadmin  = &directory.Profile{ID: "0190a7e2-0000-7000-8000-000000000002", Role: sec.RoleSystemsAdmin, Department: directory.DepartmentIT, IsActive: true}
	modeler   = &directory.Profile{ID: "0190a7e2-0000-7000-8000-000000000003", Role: sec.Role3DModeler, Department: directory.DepartmentDesign, IsActive: true}
	seller    = &directory.Profile{ID: "0190a7e2-0000-7000-8000-000000000004", Role: sec.RoleSales, Department: directory.DepartmentSales, IsActive: true}
)

func seeded() *memoryRepository {
	return newMemoryRepository(
		&Task{ID: "t-1", Title: "Model chair", AssignedTo: modeler.ID, Status: StatusPending},
		&Task{ID: "t-2", Title: "Texture chair", AssignedTo: modeler.ID, Status: StatusInProgress},
		&Task{ID: "t-3", Title: "Call client", AssignedTo: seller.ID, Status: StatusPending},
	)
}

/*
TestService_List verifies that non-admins only ever see tasks assigned to them.
*/
func TestService_List(t *testing.T) {
	service := NewService(seeded(), discardLogger())

	tests := []struct {
		name    string
		profile *directory.Profile
		want    int
	}{
		{"modeler sees own tasks", modeler, 2},
		{"sales sees own task", seller, 1},
		{"admin sees every task", sysadmin, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := service.List(context.Background(), tt.profile, Filter{}, 20, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			for _, task := range tasks {
				if !tt.profile.IsAdmin() {
					assert.Equal(t, tt.profile.ID, task.AssignedTo)
				}
			}
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		_, _, err := service.List(context.Background(), nil, Filter{}, 20, 0)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	})
}

func TestService_Create(t *testing.T) {
	service := NewService(newMemoryRepository(), discardLogger())

	t.Run("requires manage_tasks", func(t *testing.T) {
		_, err := service.Create(context.Background(), seller, CreateInput{Title: "Sneaky"})
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	})

	t.Run("defaults", func(t *testing.T) {
		task, err := service.Create(context.Background(), sysadmin, CreateInput{Title: "Rotate keys", DueDate: "2026-04-01"})
		require.NoError(t, err)
		assert.Equal(t, sysadmin.ID, task.AssignedTo)
		assert.Equal(t, sysadmin.ID, task.CreatedBy)
		assert.Equal(t, StatusPending, task.Status)
		assert.Equal(t, PriorityMedium, task.Priority)
		assert.Equal(t, directory.DepartmentIT, task.Department)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, 2026, task.DueDate.Year())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := service.Create(context.Background(), executive, CreateInput{Priority: "someday", AssignedTo: "bob", DueDate: "next week"})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.CodeValidation, ae.Code)
		assert.Len(t, ae.Details, 4)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	service := NewService(seeded(), discardLogger())

	task, err := service.UpdateStatus(context.Background(), modeler, "t-1", StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, task.Status)

	_, err = service.UpdateStatus(context.Background(), modeler, "t-3", StatusCompleted)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "another employee's task is invisible")

	_, err = service.UpdateStatus(context.Background(), modeler, "t-2", "Done")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestService_Delete(t *testing.T) {
	service := NewService(seeded(), discardLogger())

	assert.True(t, apperr.HasCode(service.Delete(context.Background(), modeler, "t-1"), apperr.CodeForbidden))
	assert.NoError(t, service.Delete(context.Background(), executive, "t-1"))
	assert.True(t, apperr.HasCode(service.Delete(context.Background(), executive, "t-1"), apperr.CodeNotFound))
}

/*
TestHandler verifies routing and the manage_tasks guard on the HTTP surface.
*/
func TestHandler(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(NewService(seeded(), discardLogger())).RegisterRoutes(router)

	call := func(profile *directory.Profile, method, target, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, target, strings.NewReader(body))
		request = request.WithContext(ctxutil.WithProfile(request.Context(), profile))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	list := call(modeler, http.MethodGet, "/?status=Pending,Bogus", "")
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"total":2`)

	assert.Equal(t, http.StatusForbidden, call(modeler, http.MethodPost, "/", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusCreated, call(executive, http.MethodPost, "/", `{"title":"Quarterly review"}`).Code)
	assert.Equal(t, http.StatusOK, call(seller, http.MethodPatch, "/t-3/status", `{"status":"In Progress"}`).Code)
	assert.Equal(t, http.StatusNotFound, call(seller, http.MethodGet, "/t-1", "").Code)
	assert.Equal(t, http.StatusNoContent, call(sysadmin, http.MethodDelete, "/t-2", "").Code)
}
