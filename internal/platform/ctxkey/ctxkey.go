// Copyright (c) 2026 Promptix. All rights reserved.

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// An unexported key type keeps these values from colliding with keys set by
// other packages, since context lookups compare both type and value.
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyClaims is the context key for verified access-token claims.
	KeyClaims key = "claims"

	// KeyProfile is the context key for the signed-in directory profile.
	KeyProfile key = "profile"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
