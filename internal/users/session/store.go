// Copyright (c) 2026 Promptix. All rights reserved.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
)

// errSuperseded marks a resolution whose result was discarded because a newer
// one was issued after it.
var errSuperseded = errors.New("session: profile resolution superseded")

// Store is the session store of one portal agent.
type Store struct {
	provider    Provider
	credentials CredentialStore
	resolver    ProfileResolver
	logger      *slog.Logger

	mu       sync.Mutex
	state    State
	issued   uint64
	pending  string
	watchers map[int]chan State
	nextID   int

	cancel      context.CancelFunc
	loop        sync.WaitGroup
	resolutions sync.WaitGroup
}

// NewStore creates a Store in the loading state.
func NewStore(provider Provider, credentials CredentialStore, resolver ProfileResolver, logger *slog.Logger) *Store {
	return &Store{
		provider:    provider,
		credentials: credentials,
		resolver:    resolver,
		logger:      logger,
		state:       State{Loading: true},
		watchers:    make(map[int]chan State),
	}
}

// # Lifecycle

/*
Start subscribes to provider events, restores any persisted session, and
starts consuming events in the background.

Description: Subscription happens before restoration so no event published
during restoration is lost. Start returns once restoration has finished, so
Snapshot().Loading is false afterwards.

Parameters:
  - ctx: context.Context (bounds the subscription and every background resolution)

Returns:
  - error: subscription failure; restoration failures are logged and leave the
    store signed out
*/
func (store *Store) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	events, err := store.provider.Subscribe(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("session_subscribe_failed: %w", err)
	}

	store.mu.Lock()
	store.cancel = cancel
	store.mu.Unlock()

	store.loop.Add(1)
	go store.run(runCtx, events)

	if err := store.RestoreSession(runCtx); err != nil {
		store.logger.Warn("session_restore_failed", slog.Any("error", err))
	}

	return nil
}

// Close stops event consumption and waits for in-flight resolutions.
func (store *Store) Close() {
	store.mu.Lock()
	cancel := store.cancel
	store.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	store.loop.Wait()
	store.resolutions.Wait()

	store.mu.Lock()
	for id, watcher := range store.watchers {
		close(watcher)
		delete(store.watchers, id)
	}
	store.mu.Unlock()
}

func (store *Store) run(ctx context.Context, events <-chan Event) {
	defer store.loop.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			store.handle(ctx, event)
		}
	}
}

// handle applies one provider event. Each event starts at most one resolution.
func (store *Store) handle(ctx context.Context, event Event) {
	store.logger.Debug("session_event_received", slog.String("type", string(event.Type)))

	if event.Type == EventSignedOut {
		store.signedOutRemotely(event.Session)
		return
	}

	if event.Session == nil {
		store.clear("event_without_session")
		return
	}

	switch event.Type {
	case EventSignedIn, EventTokenRefreshed:
	default:
		store.logger.Warn("session_event_unknown", slog.String("type", string(event.Type)))
		return
	}

	store.mu.Lock()
	// Sign-in already resolved, or is resolving, this exact session.
	if event.Type == EventSignedIn && store.pending == event.Session.ID {
		store.mu.Unlock()
		return
	}
	seq := store.issueLocked(event.Session)
	store.mu.Unlock()

	store.resolutions.Add(1)
	go func() {
		defer store.resolutions.Done()
		_ = store.resolve(ctx, seq, event.Session)
	}()
}

// # Session Operations

/*
RestoreSession loads the persisted provider session and resolves its profile.

Description: With no persisted session the store settles signed out. Loading
stays true until the triggered resolution completes.

Parameters:
  - ctx: context.Context

Returns:
  - error: provider failure (the store settles signed out)
*/
func (store *Store) RestoreSession(ctx context.Context) error {
	current, err := store.provider.GetSession(ctx)
	if err != nil {
		store.clear("restore_failed")
		return apperr.FetchError(fmt.Errorf("session_get_failed: %w", err))
	}

	if current == nil {
		store.clear("no_persisted_session")
		return nil
	}

	store.mu.Lock()
	seq := store.issueLocked(current)
	store.mu.Unlock()

	if err := store.resolve(ctx, seq, current); err != nil {
		// Failures are logged by resolve and have already signed the store out.
		return nil
	}

	store.logger.Info("session_restored", slog.String("session_id", current.ID))
	return nil
}

/*
SignIn verifies a login (email or username) and password against the directory,
opens a provider session, and resolves the profile.

Returns:
  - *Session: the provider session, including tokens
  - error: AUTH_ERROR with a reason, FETCH_ERROR, or PROFILE_NOT_FOUND
*/
func (store *Store) SignIn(ctx context.Context, login, password string) (*Session, error) {
	normalized := directory.NormalizeLogin(login)

	credentials, err := store.credentials.FindCredentials(ctx, normalized)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			store.logger.Info("session_sign_in_rejected", slog.String("reason", apperr.ReasonNoDirectoryRecord))
			return nil, apperr.AuthError(apperr.ReasonNoDirectoryRecord, apperr.MsgInvalidCredentials, nil)
		}
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.FetchError(fmt.Errorf("find_credentials: %w", err))
	}

	if !sec.CheckPasswordHash(password, credentials.PasswordHash) {
		store.logger.Info("session_sign_in_rejected",
			slog.String("reason", apperr.ReasonPasswordMismatch),
			slog.String("user_id", credentials.Profile.ID),
		)
		return nil, apperr.AuthError(apperr.ReasonPasswordMismatch, apperr.MsgInvalidCredentials, nil)
	}

	if !credentials.Profile.IsActive {
		store.logger.Info("session_sign_in_rejected",
			slog.String("reason", apperr.ReasonAccountInactive),
			slog.String("user_id", credentials.Profile.ID),
		)
		return nil, apperr.AuthError(apperr.ReasonAccountInactive, "This account has been deactivated", nil)
	}

	identity := Identity{UserID: credentials.Profile.ID, Email: credentials.Profile.Email}
	opened, err := store.provider.Exchange(ctx, identity)
	if err != nil {
		return nil, apperr.AuthError(apperr.ReasonProviderSessionFailed, "Could not start a session", err)
	}

	store.mu.Lock()
	seq := store.issueLocked(opened)
	store.mu.Unlock()

	if err := store.resolve(ctx, seq, opened); err != nil && !errors.Is(err, errSuperseded) {
		return nil, err
	}

	store.logger.Info("session_signed_in",
		slog.String("user_id", identity.UserID),
		slog.String("session_id", opened.ID),
	)
	return opened, nil
}

/*
SignOut ends the provider session and clears identity and profile.

Description: Local state is cleared first, so the store is signed out even when
the provider call fails. With no session this is a no-op: the provider is not
called, so a session being opened by a concurrent SignIn survives.
*/
func (store *Store) SignOut(ctx context.Context) error {
	sessionID := store.clear("signed_out")
	if sessionID == "" {
		return nil
	}

	if err := store.provider.SignOut(ctx, sessionID); err != nil {
		return apperr.FetchError(fmt.Errorf("provider_sign_out: %w", err))
	}

	store.logger.Info("session_signed_out", slog.String("session_id", sessionID))
	return nil
}

// Refresh rotates the current session's tokens. The provider's TOKEN_REFRESHED
// event re-resolves the profile.
func (store *Store) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	refreshed, err := store.provider.Refresh(ctx, refreshToken)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.FetchError(fmt.Errorf("provider_refresh: %w", err))
	}
	return refreshed, nil
}

// # Snapshots

// Snapshot returns a copy of the current state.
func (store *Store) Snapshot() State {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.snapshotLocked()
}

// Watch returns a channel that always holds the latest state after a change,
// and a function that stops the subscription.
func (store *Store) Watch() (<-chan State, func()) {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.nextID
	store.nextID++
	watcher := make(chan State, 1)
	store.watchers[id] = watcher
	watcher <- store.snapshotLocked()

	return watcher, func() {
		store.mu.Lock()
		defer store.mu.Unlock()
		if existing, ok := store.watchers[id]; ok {
			close(existing)
			delete(store.watchers, id)
		}
	}
}

func (store *Store) snapshotLocked() State {
	snapshot := State{SessionID: store.state.SessionID, Loading: store.state.Loading}
	if store.state.Identity != nil {
		identity := *store.state.Identity
		snapshot.Identity = &identity
	}
	if store.state.Profile != nil {
		profile := *store.state.Profile
		snapshot.Profile = &profile
	}
	return snapshot
}

// notifyLocked publishes the current state to every watcher, replacing any
// value a slow watcher has not read yet.
func (store *Store) notifyLocked() {
	snapshot := store.snapshotLocked()
	for _, watcher := range store.watchers {
		select {
		case <-watcher:
		default:
		}
		watcher <- snapshot
	}
}

// # Resolution

// issueLocked starts a new resolution for target and returns its sequence number.
// Every earlier resolution becomes stale.
func (store *Store) issueLocked(target *Session) uint64 {
	store.issued++
	store.pending = target.ID
	return store.issued
}

// resolve runs one resolution and applies its outcome if it is still the latest.
func (store *Store) resolve(ctx context.Context, seq uint64, target *Session) error {
	profile, err := store.resolver.Resolve(ctx, target.Identity.Email)
	if err == nil && !profile.IsActive {
		err = apperr.AuthError(apperr.ReasonAccountInactive, "This account has been deactivated", nil)
	}
	if err == nil && profile.ID != target.Identity.UserID {
		err = apperr.ProfileNotFound()
	}

	store.mu.Lock()
	if seq != store.issued {
		store.mu.Unlock()
		store.logger.Info("profile_resolution_discarded",
			slog.Uint64("seq", seq),
			slog.String("session_id", target.ID),
		)
		return errSuperseded
	}

	if err != nil {
		store.state = State{}
		store.pending = ""
		store.notifyLocked()
		store.mu.Unlock()

		store.logger.Warn("profile_resolution_failed",
			slog.String("session_id", target.ID),
			slog.Any("error", err),
		)
		if signOutErr := store.provider.SignOut(ctx, target.ID); signOutErr != nil {
			store.logger.Error("session_forced_sign_out_failed", slog.Any("error", signOutErr))
		}
		return err
	}

	identity := target.Identity
	store.state = State{Identity: &identity, Profile: profile, SessionID: target.ID}
	store.notifyLocked()
	store.mu.Unlock()

	store.logger.Debug("profile_resolved",
		slog.String("user_id", profile.ID),
		slog.String("role", string(profile.Role)),
	)
	return nil
}

// clear signs the store out locally, invalidating in-flight resolutions, and
// returns the session id that was current.
func (store *Store) clear(reason string) string {
	store.mu.Lock()
	defer store.mu.Unlock()

	sessionID := store.pending
	store.issued++
	store.pending = ""
	store.state = State{}
	store.notifyLocked()

	store.logger.Debug("session_cleared", slog.String("reason", reason))
	return sessionID
}

// signedOutRemotely clears the store when the provider ended the session it
// holds. Sign-outs of older sessions are ignored.
func (store *Store) signedOutRemotely(ended *Session) {
	store.mu.Lock()
	current := store.pending
	store.mu.Unlock()

	if ended != nil && ended.ID != "" && ended.ID != current {
		return
	}
	store.clear("provider_signed_out")
}
