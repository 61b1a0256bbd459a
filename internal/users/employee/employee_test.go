// Copyright (c) 2026 Promptix. All rights reserved.

package employee

import (
	"context"
	"io"
	"log/slog"
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

// recordingLister remembers the last filter it was asked for.
type recordingLister struct {
	filter   directory.Filter
	profiles []*directory.Profile
	err      error
}

func (lister *recordingLister) List(_ context.Context, filter directory.Filter, limit, offset int) ([]*directory.Profile, int, error) {
	lister.filter = filter
	return lister.profiles, len(lister.profiles), lister.err
}

var (
	admin  = &directory.Profile{ID: "u-admin", Role: sec.RoleSystemsAdmin, IsActive: true}
	seller = &directory.Profile{ID: "u-sales", Role: sec.RoleSales, IsActive: true}
)

func newService(lister Lister) *Service {
	return NewService(lister, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_List(t *testing.T) {
	lister := &recordingLister{profiles: []*directory.Profile{admin, seller}}
	service := newService(lister)

	_, _, err := service.List(context.Background(), seller, directory.Filter{}, 20, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, _, err = service.List(context.Background(), nil, directory.Filter{}, 20, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	profiles, total, err := service.List(context.Background(), admin, directory.Filter{}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, profiles, 2)
}

func TestHandler_List(t *testing.T) {
	serve := func(lister *recordingLister, profile *directory.Profile, target string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, target, nil)
		request = request.WithContext(ctxutil.WithProfile(request.Context(), profile))
		recorder := httptest.NewRecorder()
		NewHandler(newService(lister)).Routes().ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("filters", func(t *testing.T) {
		lister := &recordingLister{}
		recorder := serve(lister, admin, "/?q=ana&role=sales&department=Sales&is_active=false")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "ana", lister.filter.Query)
		assert.Equal(t, string(sec.RoleSales), lister.filter.Role)
		assert.Equal(t, directory.DepartmentSales, lister.filter.Department)
		require.NotNil(t, lister.filter.IsActive)
		assert.False(t, *lister.filter.IsActive)
	})

	t.Run("unknown values are ignored", func(t *testing.T) {
		lister := &recordingLister{}
		serve(lister, admin, "/?role=wizard&department=Moon")

		assert.Empty(t, lister.filter.Role)
		assert.Empty(t, lister.filter.Department)
		assert.Nil(t, lister.filter.IsActive)
	})

	t.Run("non-admin", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(&recordingLister{}, seller, "/").Code)
	})
}
