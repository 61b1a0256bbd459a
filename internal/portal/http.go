// Copyright (c) 2026 Promptix. All rights reserved.

package portal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/ctxutil"
	requestutil "github.com/promptix/portal/internal/platform/request"
	"github.com/promptix/portal/internal/platform/respond"
	"github.com/promptix/portal/internal/platform/validate"
	"github.com/promptix/portal/internal/users/session"
)

const (
	FieldLogin        = "login"
	FieldPassword     = "password"
	FieldRefreshToken = "refresh_token"
)

// Handler serves the session endpoints.
type Handler struct {
	portal *Portal
}

// NewHandler constructs a [Handler].
func NewHandler(portal *Portal) *Handler {
	return &Handler{portal: portal}
}

// Routes mounts the session endpoints. They sit outside the session gate, so
// reading or ending a held session checks the bearer token here.
//
// # Endpoints
//   - GET    /         : Current snapshot (loading is a valid answer)
//   - POST   /         : Sign in
//   - DELETE /         : Sign out
//   - POST   /refresh  : Rotate tokens
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.current)
	router.Post("/", handler.signIn)
	router.Delete("/", handler.signOut)
	router.Post("/refresh", handler.refresh)

	return router
}

// # Payloads

type signInRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// tokens is only present on sign-in and refresh responses.
type tokens struct {
	SessionID    string    `json:"session_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type sessionResponse struct {
	Snapshot
	Tokens *tokens `json:"tokens,omitempty"`
}

func withTokens(snapshot Snapshot, issued *session.Session) sessionResponse {
	return sessionResponse{
		Snapshot: snapshot,
		Tokens: &tokens{
			SessionID:    issued.ID,
			AccessToken:  issued.AccessToken,
			RefreshToken: issued.RefreshToken,
			ExpiresAt:    issued.ExpiresAt,
		},
	}
}

// owner reports whether the agent holds a resolved session and, if so, checks
// that the caller's bearer token was issued for it.
func (handler *Handler) owner(request *http.Request) (bool, error) {
	profile, sessionID, err := handler.portal.ActiveSession()
	if err != nil {
		if apperr.HasCode(err, apperr.CodeUnauthorized) {
			return false, nil
		}
		return false, err
	}

	claims := ctxutil.GetClaims(request.Context())
	if claims == nil {
		return true, apperr.Unauthorized("Authentication required")
	}
	if claims.UserID != profile.ID || claims.SessionID != sessionID {
		return true, apperr.Unauthorized("Token does not belong to the active session")
	}
	return true, nil
}

/*
GET /api/v1/session

Response:
  - 200: sessionResponse without tokens (loading and signed out need no token)
  - 401: UNAUTHORIZED when a session is held and the token is not its own
*/
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	if _, err := handler.owner(request); err != nil && !apperr.HasCode(err, apperr.CodeSessionLoading) {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sessionResponse{Snapshot: handler.portal.Snapshot()})
}

/*
POST /api/v1/session

Request:
  - Body: signInRequest (Login is an email or username)

Response:
  - 200: sessionResponse with tokens
  - 400: VALIDATION_ERROR
  - 401: AUTH_ERROR "Invalid email or password", or PROFILE_NOT_FOUND
  - 502: FETCH_ERROR
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).
		MaxLen(FieldLogin, input.Login, 254).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.portal.SignIn(request.Context(), input.Login, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, withTokens(handler.portal.Snapshot(), issued))
}

/*
DELETE /api/v1/session

Response:
  - 204: signed out (also when nobody was signed in)
  - 401: UNAUTHORIZED when the token is not the held session's own
  - 503: SESSION_LOADING
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	held, err := handler.owner(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !held {
		respond.NoContent(writer)
		return
	}

	if err := handler.portal.SignOut(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/session/refresh

Request:
  - Body: refreshRequest

Response:
  - 200: sessionResponse with the rotated tokens
  - 401: UNAUTHORIZED when there is no session or the token is wrong
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldRefreshToken, input.RefreshToken)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	refreshed, err := handler.portal.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, withTokens(handler.portal.Snapshot(), refreshed))
}
