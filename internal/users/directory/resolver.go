// Copyright (c) 2026 Promptix. All rights reserved.

package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/promptix/portal/internal/platform/apperr"
)

// Resolver maps an authenticated identity's email to its directory profile.
type Resolver struct {
	repository Repository
	timeout    time.Duration
}

// NewResolver creates a Resolver. Each lookup is bounded by timeout.
func NewResolver(repository Repository, timeout time.Duration) *Resolver {
	return &Resolver{repository: repository, timeout: timeout}
}

/*
Resolve fetches exactly one profile by email.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *Profile: The resolved profile
  - error: PROFILE_NOT_FOUND when no row exists, FETCH_ERROR for any other failure
    (including the lookup deadline)
*/
func (resolver *Resolver) Resolve(ctx context.Context, email string) (*Profile, error) {
	if resolver.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, resolver.timeout)
		defer cancel()
	}

	profile, err := resolver.repository.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return profile, nil
	case apperr.HasCode(err, apperr.CodeNotFound):
		return nil, apperr.ProfileNotFound()
	case apperr.HasCode(err, apperr.CodeFetch):
		return nil, err
	default:
		return nil, apperr.FetchError(fmt.Errorf("resolve_profile: %w", err))
	}
}
