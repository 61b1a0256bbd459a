// Copyright (c) 2026 Promptix. All rights reserved.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestConstructors verifies status and code pairs for every constructor the
portal renders.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Task"), CodeNotFound, http.StatusNotFound},
		{"unauthorized", Unauthorized("x"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("x"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("x"), CodeConflict, http.StatusConflict},
		{"auth", AuthError(ReasonPasswordMismatch, MsgInvalidCredentials, nil), CodeAuth, http.StatusUnauthorized},
		{"profile", ProfileNotFound(), CodeProfileNotFound, http.StatusUnauthorized},
		{"fetch", FetchError(errors.New("boom")), CodeFetch, http.StatusBadGateway},
		{"loading", SessionLoading(), CodeSessionLoading, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

/*
TestAs verifies that a wrapped AppError is recovered through fmt.Errorf chains
and that its cause stays reachable.
*/
func TestAs(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("list_tasks: %w", FetchError(cause))

	ae := As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, CodeFetch, ae.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, HasCode(wrapped, CodeFetch))
	assert.False(t, HasCode(cause, CodeFetch))
	assert.Nil(t, As(cause))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Project not found", NotFound("Project").Error())
}
