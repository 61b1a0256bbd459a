// Copyright (c) 2026 Promptix. All rights reserved.

package session

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/constants"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/pkg/uuid"
)

// TokenIssuer signs access tokens for provider sessions.
type TokenIssuer interface {
	GenerateAccessToken(userID, email, sessionID string, timeToLive time.Duration) (string, time.Time, error)
}

// refreshTokenBytes is the entropy of an opaque refresh token.
const refreshTokenBytes = 32

// record is the persisted form of a device session. Only the refresh token's
// digest is stored.
type record struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Email            string    `json:"email"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// endSessionScript deletes the device session if it matches the expected id
// (any id when ARGV[1] is empty). It returns 1 when a session was deleted.
var endSessionScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
if ARGV[1] ~= '' then
	local current = cjson.decode(raw)
	if current['id'] ~= ARGV[1] then
		return 0
	end
end
redis.call('DEL', KEYS[1])
return 1
`)

// rotateSessionScript replaces the device session only while it is still the
// session ARGV[1] holding the refresh digest ARGV[2]. It returns 1 when the new
// record ARGV[3] was written with a TTL of ARGV[4] milliseconds.
var rotateSessionScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
local current = cjson.decode(raw)
if current['id'] ~= ARGV[1] or current['refresh_token_hash'] ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[3], 'PX', ARGV[4])
return 1
`)

var _ Provider = (*RedisProvider)(nil)

// RedisProvider implements [Provider] on Redis: one session record per device
// with a TTL, and session-change events over Pub/Sub.
type RedisProvider struct {
	client     *redis.Client
	tokens     TokenIssuer
	logger     *slog.Logger
	key        string
	channel    string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewRedisProvider creates a provider scoped to deviceID.
func NewRedisProvider(client *redis.Client, tokens TokenIssuer, deviceID string, logger *slog.Logger) *RedisProvider {
	return &RedisProvider{
		client:     client,
		tokens:     tokens,
		logger:     logger,
		key:        constants.RedisPrefixSession + deviceID,
		channel:    constants.RedisPrefixEvents + deviceID,
		accessTTL:  constants.AccessTokenTTL,
		refreshTTL: constants.RefreshTokenTTL,
	}
}

/*
GetSession returns the persisted session for this device.

Returns:
  - *Session: the session without tokens, or nil when none is persisted
  - error: Redis or decoding failures
*/
func (provider *RedisProvider) GetSession(context context.Context) (*Session, error) {
	current, err := provider.load(context)
	if err != nil || current == nil {
		return nil, err
	}
	return current.session(), nil
}

/*
Exchange opens a new session for a verified identity, replacing any previous
session of this device, and publishes SIGNED_IN.

Parameters:
  - context: context.Context
  - identity: Identity (already verified against the directory)

Returns:
  - *Session: the new session with its tokens
  - error: token signing or Redis failures
*/
func (provider *RedisProvider) Exchange(context context.Context, identity Identity) (*Session, error) {
	current := &record{
		ID:               uuid.New(),
		UserID:           identity.UserID,
		Email:            identity.Email,
		RefreshExpiresAt: time.Now().Add(provider.refreshTTL),
	}

	opened, payload, err := provider.issue(current)
	if err != nil {
		return nil, err
	}

	if err := provider.client.Set(context, provider.key, payload, provider.refreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("redis_session_set_failed: %w", err)
	}

	provider.publish(context, EventSignedIn, current.session())
	return opened, nil
}

/*
Refresh validates a refresh token against the current session, rotates both
tokens, and publishes TOKEN_REFRESHED.

Description: The new record is written by a script that first re-checks the
session id and refresh digest, so a session ended mid-refresh stays ended and
a refresh token rotates at most once.

Returns:
  - *Session: the session with its new tokens
  - error: UNAUTHORIZED when there is no session or the token does not match
*/
func (provider *RedisProvider) Refresh(context context.Context, refreshToken string) (*Session, error) {
	current, err := provider.load(context)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.Unauthorized("No active session")
	}

	digest := sec.HashToken(refreshToken)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(current.RefreshTokenHash)) != 1 {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	current.RefreshExpiresAt = time.Now().Add(provider.refreshTTL)
	refreshed, payload, err := provider.issue(current)
	if err != nil {
		return nil, err
	}

	rotated, err := rotateSessionScript.Run(context, provider.client, []string{provider.key},
		current.ID, digest, payload, provider.refreshTTL.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("redis_session_rotate_failed: %w", err)
	}
	if rotated != 1 {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	provider.publish(context, EventTokenRefreshed, current.session())
	return refreshed, nil
}

/*
SignOut deletes the device session and publishes SIGNED_OUT.

Description: With a non-empty sessionID only that session is ended, so a late
forced sign-out cannot end a newer session. Nothing is published when no
session was deleted.
*/
func (provider *RedisProvider) SignOut(context context.Context, sessionID string) error {
	deleted, err := endSessionScript.Run(context, provider.client, []string{provider.key}, sessionID).Int()
	if err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	if deleted == 1 {
		var ended *Session
		if sessionID != "" {
			ended = &Session{ID: sessionID}
		}
		provider.publish(context, EventSignedOut, ended)
	}
	return nil
}

/*
Subscribe starts delivering this device's session events.

Description: The subscription is confirmed before Subscribe returns. The
returned channel is closed when ctx ends.
*/
func (provider *RedisProvider) Subscribe(context context.Context) (<-chan Event, error) {
	pubsub := provider.client.Subscribe(context, provider.channel)
	if _, err := pubsub.Receive(context); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis_session_subscribe_failed: %w", err)
	}

	events := make(chan Event, 16)
	messages := pubsub.Channel()

	go func() {
		defer close(events)
		defer pubsub.Close()

		for {
			select {
			case <-context.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
					provider.logger.Warn("session_event_decode_failed", slog.Any("error", err))
					continue
				}

				select {
				case events <- event:
				case <-context.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// # Helpers

// issue mints fresh tokens for current and returns the session with its tokens
// and the encoded record to persist.
func (provider *RedisProvider) issue(current *record) (*Session, []byte, error) {
	accessToken, expiresAt, err := provider.tokens.GenerateAccessToken(current.UserID, current.Email, current.ID, provider.accessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("session_token_sign_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return nil, nil, err
	}

	current.RefreshTokenHash = sec.HashToken(refreshToken)
	current.ExpiresAt = expiresAt

	payload, err := json.Marshal(current)
	if err != nil {
		return nil, nil, fmt.Errorf("session_encode_failed: %w", err)
	}

	issued := current.session()
	issued.AccessToken = accessToken
	issued.RefreshToken = refreshToken
	return issued, payload, nil
}

func (provider *RedisProvider) load(context context.Context) (*record, error) {
	raw, err := provider.client.Get(context, provider.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	current := &record{}
	if err := json.Unmarshal(raw, current); err != nil {
		return nil, fmt.Errorf("session_decode_failed: %w", err)
	}

	if time.Now().After(current.RefreshExpiresAt) {
		return nil, nil
	}
	return current, nil
}

// publish announces a session change. A failed publish is logged, not returned.
func (provider *RedisProvider) publish(context context.Context, eventType EventType, changed *Session) {
	payload, err := json.Marshal(Event{Type: eventType, Session: changed})
	if err != nil {
		provider.logger.Error("session_event_encode_failed", slog.Any("error", err))
		return
	}

	if err := provider.client.Publish(context, provider.channel, payload).Err(); err != nil {
		provider.logger.Warn("session_event_publish_failed",
			slog.String("type", string(eventType)),
			slog.Any("error", err),
		)
	}
}

func (current *record) session() *Session {
	return &Session{
		ID:        current.ID,
		Identity:  Identity{UserID: current.UserID, Email: current.Email},
		ExpiresAt: current.ExpiresAt,
	}
}
