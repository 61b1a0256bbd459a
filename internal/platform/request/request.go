// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package requestutil extracts typed values from HTTP requests: decoded bodies,
URL parameters, and the caller's resolved directory profile.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/ctxutil"
	"github.com/promptix/portal/internal/platform/validate"
	"github.com/promptix/portal/internal/users/directory"
)

/*
DecodeJSON reads the request body into target. Unknown fields are rejected.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID retrieves a named URL parameter holding a UUID or slug.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Profile returns the caller's directory profile, or nil on open routes.
func Profile(request *http.Request) *directory.Profile {
	return ctxutil.GetProfile(request.Context())
}

/*
RequiredProfile returns the caller's directory profile.

Returns:
  - *directory.Profile: the profile attached by the session middleware
  - error: apperr.Unauthorized when the route is reached without one
*/
func RequiredProfile(request *http.Request) (*directory.Profile, error) {
	profile := ctxutil.GetProfile(request.Context())
	if profile == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return profile, nil
}
