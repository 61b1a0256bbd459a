// Copyright (c) 2026 Promptix. All rights reserved.

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/promptix/portal/internal/platform/ctxkey"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithClaims returns a new context with verified access-token claims attached.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClaims, claims)
}

// GetClaims retrieves the [*sec.AuthClaims] from the context, or nil.
func GetClaims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyClaims).(*sec.AuthClaims)
	return claims
}

// WithProfile returns a new context carrying the signed-in directory profile.
func WithProfile(ctx context.Context, profile *directory.Profile) context.Context {
	return context.WithValue(ctx, ctxkey.KeyProfile, profile)
}

// GetProfile retrieves the signed-in [*directory.Profile], or nil when the
// request did not pass through the session middleware.
func GetProfile(ctx context.Context) *directory.Profile {
	profile, _ := ctx.Value(ctxkey.KeyProfile).(*directory.Profile)
	return profile
}
