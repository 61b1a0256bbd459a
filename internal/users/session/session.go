// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package session owns the signed-in employee's session.

The [Store] holds the current identity and directory profile and keeps them in
step with the auth [Provider]. Every sign-in, restoration, and token refresh
triggers a profile resolution. A session whose identity has no resolvable,
active profile is torn down.

Resolutions may overlap when provider events arrive quickly. Each resolution is
tagged with a sequence number and only the most recently issued one is applied.
Older completions are discarded and never sign the employee out.
*/
package session

import (
	"context"
	"time"

	"github.com/promptix/portal/internal/users/directory"
)

// # Provider Types

// Identity is the authenticated principal issued by the provider.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Session is a provider session. Tokens are only populated on the value returned
// by [Provider.Exchange] and [Provider.Refresh]; they never travel in events.
type Session struct {
	ID           string    `json:"id"`
	Identity     Identity  `json:"identity"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// EventType names a provider session change.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventSignedOut      EventType = "SIGNED_OUT"
)

// Event is a session-change notification pushed by the provider.
type Event struct {
	Type    EventType `json:"type"`
	Session *Session  `json:"session,omitempty"`
}

// Provider is the external auth provider.
type Provider interface {
	// GetSession returns the persisted session for this device, or nil when there is none.
	GetSession(ctx context.Context) (*Session, error)

	// Exchange mints a provider session for an identity the directory has verified.
	Exchange(ctx context.Context, identity Identity) (*Session, error)

	// Refresh rotates the tokens of the current session.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)

	// SignOut ends the session with the given id, or the current one when id is empty.
	// Ending a session that does not exist is not an error.
	SignOut(ctx context.Context, sessionID string) error

	// Subscribe delivers session-change events in publication order until ctx ends.
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// # Directory Collaborators

// CredentialStore looks up the stored password hash for a login.
type CredentialStore interface {
	FindCredentials(ctx context.Context, login string) (*directory.Credentials, error)
}

// ProfileResolver resolves an identity's email to its directory profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, email string) (*directory.Profile, error)
}

// # Store State

// State is an immutable snapshot of the session.
//
// Identity and Profile are either both set or both nil once Loading is false.
type State struct {
	Identity  *Identity
	Profile   *directory.Profile
	SessionID string
	Loading   bool
}

// SignedIn reports whether the snapshot holds a resolved profile.
func (state State) SignedIn() bool {
	return state.Identity != nil && state.Profile != nil
}
