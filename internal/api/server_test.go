// Copyright (c) 2026 Promptix. All rights reserved.

package api

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptix/portal/internal/platform/config"
	"github.com/promptix/portal/internal/platform/constants"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/portal"
	"github.com/promptix/portal/internal/users/directory"
	"github.com/promptix/portal/internal/users/employee"
	"github.com/promptix/portal/internal/users/session"
	"github.com/promptix/portal/internal/workspace/budget"
	"github.com/promptix/portal/internal/workspace/project"
	"github.com/promptix/portal/internal/workspace/request"
	"github.com/promptix/portal/internal/workspace/task"
)

// fixedStore is a session store whose state the test sets directly.
type fixedStore struct {
	mu    sync.Mutex
	state session.State
}

func (store *fixedStore) set(state session.State) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state = state
}

func (store *fixedStore) Start(context.Context) error { return nil }
func (store *fixedStore) Close()                      {}

func (store *fixedStore) Snapshot() session.State {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state
}

func (store *fixedStore) Watch() (<-chan session.State, func()) {
	updates := make(chan session.State, 1)
	updates <- store.Snapshot()
	return updates, func() {}
}

func (store *fixedStore) SignIn(context.Context, string, string) (*session.Session, error) {
	return nil, errors.New("not supported")
}

func (store *fixedStore) SignOut(context.Context) error { return nil }

func (store *fixedStore) Refresh(context.Context, string) (*session.Session, error) {
	return nil, errors.New("not supported")
}

var modeler = &directory.Profile{ID: "u-1", Email: "ana@promptix.io", Role: sec.Role3DModeler, IsActive: true}

func signedIn() session.State {
	return session.State{
		Identity:  &session.Identity{UserID: modeler.ID, Email: modeler.Email},
		Profile:   modeler,
		SessionID: "s-1",
	}
}

type fixture struct {
	server *Server
	store  *fixedStore
	mock   pgxmock.PgxPoolIface
	tokens *sec.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &fixedStore{state: session.State{Loading: true}}
	agent := portal.New(store)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handlers := Handlers{
		Liveness:  func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) },
		Readiness: func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) },
		Session:   portal.NewHandler(agent),
		Tasks:     task.NewHandler(task.NewService(task.NewPostgresRepository(mock), logger)),
		Projects:  project.NewHandler(project.NewService(project.NewPostgresRepository(mock), logger)),
		Requests:  request.NewHandler(request.NewService(request.NewPostgresRepository(mock), logger)),
		Budgets:   budget.NewHandler(budget.NewService(budget.NewPostgresRepository(mock), logger)),
		Employees: employee.NewHandler(employee.NewService(directory.NewPostgresRepository(mock), logger)),
	}

	cfg := &config.Config{ServerPort: "0", Environment: "development"}
	return &fixture{
		server: NewServer(ctx, cfg, logger, tokens, agent, handlers),
		store:  store,
		mock:   mock,
		tokens: tokens,
	}
}

func (fixture *fixture) token(t *testing.T, sessionID string) string {
	t.Helper()
	token, _, err := fixture.tokens.GenerateAccessToken(modeler.ID, modeler.Email, sessionID, time.Minute)
	require.NoError(t, err)
	return token
}

func (fixture *fixture) get(target, token string) *httptest.ResponseRecorder {
	httpRequest := httptest.NewRequest(http.MethodGet, target, nil)
	httpRequest.RemoteAddr = "192.0.2.10:5000"
	if token != "" {
		httpRequest.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	}
	recorder := httptest.NewRecorder()
	fixture.server.Handler().ServeHTTP(recorder, httpRequest)
	return recorder
}

/*
TestServer_SessionGate verifies that workspace routes require a resolved
session and a token minted for it, while the session routes stay open.
*/
func TestServer_SessionGate(t *testing.T) {
	fixture := newFixture(t)

	assert.Equal(t, http.StatusOK, fixture.get("/health", "").Code)
	assert.Equal(t, http.StatusOK, fixture.get("/api/v1/session", "").Code, "loading is a valid session answer")

	loading := fixture.get("/api/v1/tasks", fixture.token(t, "s-1"))
	assert.Equal(t, http.StatusServiceUnavailable, loading.Code)
	assert.Contains(t, loading.Body.String(), "SESSION_LOADING")

	fixture.store.set(session.State{})
	assert.Equal(t, http.StatusUnauthorized, fixture.get("/api/v1/tasks", fixture.token(t, "s-1")).Code)

	fixture.store.set(signedIn())
	assert.Equal(t, http.StatusUnauthorized, fixture.get("/api/v1/tasks", "").Code)
	assert.Equal(t, http.StatusUnauthorized, fixture.get("/api/v1/tasks", fixture.token(t, "s-old")).Code)
	assert.Equal(t, http.StatusUnauthorized, fixture.get("/api/v1/tasks", "not-a-jwt").Code)
	assert.Equal(t, http.StatusForbidden, fixture.get("/api/v1/users", fixture.token(t, "s-1")).Code)

	assert.NoError(t, fixture.mock.ExpectationsWereMet(), "no query runs for rejected requests")
}

func TestServer_ScopedList(t *testing.T) {
	fixture := newFixture(t)
	fixture.store.set(signedIn())

	fixture.mock.ExpectQuery(`FROM portal\.task t WHERE t\.assignedto = \$1`).
		WithArgs(modeler.ID, 20, 0).
		WillReturnRows(fixture.mock.NewRows([]string{
			"id", "title", "description", "duedate", "priority", "status",
			"assignedto", "createdby", "department", "createdat", "updatedat", "total",
		}))

	recorder := fixture.get("/api/v1/tasks", fixture.token(t, "s-1"))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"data":[]`)
	assert.NoError(t, fixture.mock.ExpectationsWereMet())
}
