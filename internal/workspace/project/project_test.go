// Copyright (c) 2026 Promptix. All rights reserved.

package project

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/ctxutil"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
	"github.com/promptix/portal/pkg/pointer"
)

var projectCols = []string{
	"id", "title", "description", "client", "budget", "spent", "duedate", "priority",
	"status", "createdby", "department", "createdat", "updatedat", "members",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestBurn(t *testing.T) {
	tests := []struct {
		budget, spent float64
		progress      float64
		level         string
	}{
		{0, 500, 0, LevelSuccess},
		{1000, 500, 50, LevelSuccess},
		{1000, 750, 75, LevelSuccess},
		{1000, 760, 76, LevelWarning},
		{1000, 900, 90, LevelWarning},
		{1000, 950, 95, LevelDanger},
		{1000, 1200, 120, LevelDanger},
	}

	for _, tt := range tests {
		progress, level := Burn(tt.budget, tt.spent)
		assert.InDelta(t, tt.progress, progress, 0.001)
		assert.Equal(t, tt.level, level, "budget %v spent %v", tt.budget, tt.spent)
	}
}

/*
TestPostgresRepository_List_MemberScope verifies that a non-admin listing is
narrowed by project membership inside the query.
*/
func TestPostgresRepository_List_MemberScope(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	mock := newMock(t)
	mock.ExpectQuery(`FROM portal\.project p WHERE EXISTS \(SELECT 1 FROM portal\.project_member pm WHERE pm\.projectid = p\.id AND pm\.userid = \$1\) AND p\.status = ANY\(\$2\)`).
		WithArgs("u-3", []string{StatusInProgress}, 20, 0).
		WillReturnRows(mock.NewRows(append(projectCols, "total")).AddRow(
			"p-1", "Showroom", "", "Acme", 10000.0, 9500.0, pointer.To(now), PriorityHigh,
			StatusInProgress, "u-1", directory.DepartmentDesign, now, now, []string{"u-3", "u-4"}, 1,
		))

	scope, err := access.ScopeFor(&directory.Profile{ID: "u-3", Role: sec.Role3DModeler}, access.Projects)
	require.NoError(t, err)

	projects, total, err := NewPostgresRepository(mock).List(context.Background(), scope, Filter{Statuses: []string{StatusInProgress}}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, projects, 1)
	assert.Equal(t, []string{"u-3", "u-4"}, projects[0].Members)
	assert.Equal(t, LevelDanger, projects[0].ProgressLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	newProject := func() *Project {
		return &Project{
			Title: "Showroom", Client: "Acme", Budget: 10000, Priority: PriorityHigh,
			Status: StatusPending, CreatedBy: "u-1", Department: directory.DepartmentDesign,
			Members: []string{"u-3"},
		}
	}

	t.Run("commits project and members", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO portal\.project `).
			WillReturnRows(mock.NewRows([]string{"id", "createdat", "updatedat"}).AddRow("p-9", now, now))
		mock.ExpectExec(`INSERT INTO portal\.project_member \(projectid, userid\) SELECT \$1, unnest\(\$2::uuid\[\]\)`).
			WithArgs("p-9", []string{"u-3"}).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		project := newProject()
		require.NoError(t, NewPostgresRepository(mock).Create(context.Background(), project))
		assert.Equal(t, "p-9", project.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("member failure rolls back", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO portal\.project `).
			WillReturnRows(mock.NewRows([]string{"id", "createdat", "updatedat"}).AddRow("p-9", now, now))
		mock.ExpectExec(`INSERT INTO portal\.project_member`).WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := NewPostgresRepository(mock).Create(context.Background(), newProject())
		assert.True(t, apperr.HasCode(err, apperr.CodeFetch))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// stubRepository records the project passed to Create.
type stubRepository struct {
	Repository
	created *Project
}

func (stub *stubRepository) Create(_ context.Context, project *Project) error {
	project.ID = "p-new"
	stub.created = project
	return nil
}

func TestService_Create(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := &directory.Profile{ID: "0190a7e2-0000-7000-8000-00000000000a", Role: sec.RoleITManager, Department: directory.DepartmentIT}
	seller := &directory.Profile{ID: "0190a7e2-0000-7000-8000-00000000000b", Role: sec.RoleSales, Department: directory.DepartmentSales}

	t.Run("sales may not create", func(t *testing.T) {
		_, err := NewService(&stubRepository{}, logger).Create(context.Background(), seller, CreateInput{Title: "x"})
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	})

	t.Run("members are de-duplicated", func(t *testing.T) {
		repository := &stubRepository{}
		member := "0190a7e2-0000-7000-8000-00000000000c"
		project, err := NewService(repository, logger).Create(context.Background(), manager, CreateInput{
			Title:   "Network refresh",
			Budget:  2500,
			DueDate: "2026-06-30",
			Members: []string{member, member, manager.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{manager.ID, member}, project.Members)
		assert.Equal(t, StatusPending, project.Status)
		assert.Equal(t, directory.DepartmentIT, project.Department)
	})

	t.Run("negative budget", func(t *testing.T) {
		_, err := NewService(&stubRepository{}, logger).Create(context.Background(), manager, CreateInput{Title: "x", Budget: -1})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}

func TestHandler_Create(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(NewService(&stubRepository{}, slog.New(slog.NewTextHandler(io.Discard, nil)))).RegisterRoutes(router)

	post := func(profile *directory.Profile, body string) int {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		request = request.WithContext(ctxutil.WithProfile(request.Context(), profile))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder.Code
	}

	executive := &directory.Profile{ID: "0190a7e2-0000-7000-8000-00000000000e", Role: sec.RoleExecutive, Department: directory.DepartmentExecutive}
	seller := &directory.Profile{ID: "0190a7e2-0000-7000-8000-00000000000f", Role: sec.RoleSales, Department: directory.DepartmentSales}

	assert.Equal(t, http.StatusForbidden, post(seller, `{"title":"Expo booth"}`))
	assert.Equal(t, http.StatusCreated, post(executive, `{"title":"Expo booth","budget":1200}`))
	assert.Equal(t, http.StatusBadRequest, post(executive, `{"title":"Expo booth","colour":"red"}`))
}
