// Copyright (c) 2026 Promptix. All rights reserved.

package middleware

import (
	"net/http"
	"strings"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/constants"
	"github.com/promptix/portal/internal/platform/ctxutil"
	"github.com/promptix/portal/internal/platform/respond"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
)

// TokenVerifier verifies provider access tokens.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// SessionSource exposes the agent's active session to the middleware.
type SessionSource interface {
	// ActiveSession returns the resolved profile and its provider session id.
	// It fails with SESSION_LOADING while the session is resolving and with
	// UNAUTHORIZED when nobody is signed in.
	ActiveSession() (*directory.Profile, string, error)
}

/*
Authenticate verifies the bearer token when one is sent.

Description: Requests without an Authorization header proceed anonymously. A
malformed or invalid token is rejected with 401. Verified claims are attached
to the request context.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, strings.TrimSpace(constants.BearerPrefix)) || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			recordUser(request.Context(), claims.UserID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithClaims(request.Context(), claims)))
		})
	}
}

/*
RequireSession admits a request only when the agent holds a resolved session and
the caller's bearer token was issued for exactly that session.

Description: Must be mounted after [Authenticate]. The active profile is
attached to the request context for handlers and the authorization guards.
*/
func RequireSession(source SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			profile, sessionID, err := source.ActiveSession()
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			claims := ctxutil.GetClaims(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if claims.UserID != profile.ID || claims.SessionID != sessionID {
				respond.Error(writer, request, apperr.Unauthorized("Token does not belong to the active session"))
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithProfile(request.Context(), profile)))
		})
	}
}

// RequireAdmin blocks callers whose role is not an administrative one.
// Must be mounted after [RequireSession].
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := access.RequireAdmin(ctxutil.GetProfile(request.Context())); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAction blocks callers whose role may not perform action.
// Must be mounted after [RequireSession].
func RequireAction(action sec.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if err := access.RequireAction(ctxutil.GetProfile(request.Context()), action); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
