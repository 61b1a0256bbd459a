// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package portal distributes the signed-in employee's session to the rest of the
agent.

A single [Portal] is created in main and injected wherever the current identity,
profile, or role checks are needed. It wraps the session store and answers the
HTTP session endpoints.
*/
package portal

import (
	"context"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
	"github.com/promptix/portal/internal/users/session"
)

// SessionStore is the session store behind a [Portal].
type SessionStore interface {
	Start(ctx context.Context) error
	Close()
	Snapshot() session.State
	Watch() (<-chan session.State, func())
	SignIn(ctx context.Context, login, password string) (*session.Session, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*session.Session, error)
}

// Snapshot is the context value views read.
type Snapshot struct {
	Identity *session.Identity `json:"identity"`
	Profile  *directory.Profile `json:"profile"`
	Loading  bool               `json:"loading"`
	IsAdmin  bool               `json:"is_admin"`
}

// Portal is the agent-wide session context.
type Portal struct {
	store SessionStore
}

// New wraps store.
func New(store SessionStore) *Portal {
	return &Portal{store: store}
}

// # Lifecycle

// Start restores the persisted session and begins following provider events.
func (portal *Portal) Start(ctx context.Context) error {
	return portal.store.Start(ctx)
}

// Close stops following provider events.
func (portal *Portal) Close() {
	portal.store.Close()
}

// # Reads

// Snapshot returns the current identity, profile, loading flag, and admin flag.
func (portal *Portal) Snapshot() Snapshot {
	return fromState(portal.store.Snapshot())
}

// HasRole reports whether the signed-in profile holds one of roles.
func (portal *Portal) HasRole(roles ...sec.Role) bool {
	return access.HasRole(portal.store.Snapshot().Profile, roles...)
}

// Can reports whether the signed-in profile may perform action.
func (portal *Portal) Can(action sec.Action) bool {
	return access.Can(portal.store.Snapshot().Profile, action)
}

// Watch returns the underlying store's state changes and a stop function.
func (portal *Portal) Watch() (<-chan session.State, func()) {
	return portal.store.Watch()
}

/*
ActiveSession returns the resolved profile and the provider session id it
belongs to.

Returns:
  - *directory.Profile: the signed-in profile
  - string: the provider session id
  - error: SESSION_LOADING while resolving, UNAUTHORIZED when signed out
*/
func (portal *Portal) ActiveSession() (*directory.Profile, string, error) {
	state := portal.store.Snapshot()
	if state.Loading {
		return nil, "", apperr.SessionLoading()
	}
	if !state.SignedIn() {
		return nil, "", apperr.Unauthorized("No active session")
	}
	return state.Profile, state.SessionID, nil
}

// # Session Operations

// SignIn signs an employee in by email or username.
func (portal *Portal) SignIn(ctx context.Context, login, password string) (*session.Session, error) {
	return portal.store.SignIn(ctx, login, password)
}

// SignOut ends the current session. It is a no-op when nobody is signed in.
func (portal *Portal) SignOut(ctx context.Context) error {
	return portal.store.SignOut(ctx)
}

// Refresh rotates the current session's tokens.
func (portal *Portal) Refresh(ctx context.Context, refreshToken string) (*session.Session, error) {
	return portal.store.Refresh(ctx, refreshToken)
}

func fromState(state session.State) Snapshot {
	return Snapshot{
		Identity: state.Identity,
		Profile:  state.Profile,
		Loading:  state.Loading,
		IsAdmin:  state.Profile.IsAdmin(),
	}
}
