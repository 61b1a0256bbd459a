// Copyright (c) 2026 Promptix. All rights reserved.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/ctxutil"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
)

type stubVerifier map[string]*sec.AuthClaims

func (stub stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := stub[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

type stubSource struct {
	profile   *directory.Profile
	sessionID string
	err       error
}

func (stub stubSource) ActiveSession() (*directory.Profile, string, error) {
	return stub.profile, stub.sessionID, stub.err
}

type stubPolicy struct {
	development bool
}

func (stub stubPolicy) IsDevelopment() bool      { return stub.development }
func (stub stubPolicy) AllowedOrigins() []string { return []string{"https://portal.promptix.io"} }

func okHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

/*
TestRequireSession verifies the gate between the agent's session and the
caller's bearer token.
*/
func TestRequireSession(t *testing.T) {
	sales := &directory.Profile{ID: "u-1", Email: "ana@promptix.io", Role: sec.RoleSales, IsActive: true}
	verifier := stubVerifier{
		"good":          {UserID: "u-1", SessionID: "s-1"},
		"other-user":    {UserID: "u-2", SessionID: "s-1"},
		"other-session": {UserID: "u-1", SessionID: "s-0"},
	}

	tests := []struct {
		name   string
		source stubSource
		token  string
		status int
	}{
		{"loading", stubSource{err: apperr.SessionLoading()}, "good", http.StatusServiceUnavailable},
		{"signed out", stubSource{err: apperr.Unauthorized("No active session")}, "good", http.StatusUnauthorized},
		{"missing token", stubSource{profile: sales, sessionID: "s-1"}, "", http.StatusUnauthorized},
		{"invalid token", stubSource{profile: sales, sessionID: "s-1"}, "forged", http.StatusUnauthorized},
		{"token for another user", stubSource{profile: sales, sessionID: "s-1"}, "other-user", http.StatusUnauthorized},
		{"token for an older session", stubSource{profile: sales, sessionID: "s-1"}, "other-session", http.StatusUnauthorized},
		{"matching token", stubSource{profile: sales, sessionID: "s-1"}, "good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *directory.Profile
			handler := Authenticate(verifier)(RequireSession(tt.source)(http.HandlerFunc(
				func(writer http.ResponseWriter, request *http.Request) {
					seen = ctxutil.GetProfile(request.Context())
					writer.WriteHeader(http.StatusOK)
				})))

			request := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			if tt.token != "" {
				request.Header.Set("Authorization", "Bearer "+tt.token)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "u-1", seen.ID)
			}
		})
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	handler := Authenticate(stubVerifier{})(http.HandlerFunc(okHandler))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Basic abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"UNAUTHORIZED"`)
}

/*
TestGuards verifies the role guards against the profile attached to the request.
*/
func TestGuards(t *testing.T) {
	withProfile := func(role sec.Role) *http.Request {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		profile := &directory.Profile{ID: "u-1", Role: role}
		return request.WithContext(ctxutil.WithProfile(request.Context(), profile))
	}

	tests := []struct {
		name    string
		guard   func(http.Handler) http.Handler
		request *http.Request
		status  int
	}{
		{"admin guard admits it_manager", RequireAdmin, withProfile(sec.RoleITManager), http.StatusOK},
		{"admin guard rejects sales", RequireAdmin, withProfile(sec.RoleSales), http.StatusForbidden},
		{"admin guard rejects anonymous", RequireAdmin, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusUnauthorized},
		{"budget guard rejects systems_admin", RequireAction(sec.ActionManageBudget), withProfile(sec.RoleSystemsAdmin), http.StatusForbidden},
		{"budget guard admits executive", RequireAction(sec.ActionManageBudget), withProfile(sec.RoleExecutive), http.StatusOK},
		{"task guard admits systems_admin", RequireAction(sec.ActionManageTasks), withProfile(sec.RoleSystemsAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			tt.guard(http.HandlerFunc(okHandler)).ServeHTTP(recorder, tt.request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		origin      string
		allowed     bool
	}{
		{"configured origin", false, "https://portal.promptix.io", true},
		{"unknown origin in production", false, "https://evil.example", false},
		{"any origin in development", true, "https://evil.example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(stubPolicy{development: tt.development})(http.HandlerFunc(okHandler))

			request := httptest.NewRequest(http.MethodOptions, "/api/v1/session", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Request-ID", "req-42")
		handler.ServeHTTP(httptest.NewRecorder(), request)
		assert.Equal(t, "req-42", seen)
	})
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := RateLimit(ctx)(http.HandlerFunc(okHandler))

	var limited *httptest.ResponseRecorder
	for range 500 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.7:5555"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		if recorder.Code == http.StatusTooManyRequests {
			limited = recorder
			break
		}
	}

	require.NotNil(t, limited, "burst should be exhausted")
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", RealIP(request))
}
