// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package constants provides centralized, immutable values for the portal agent.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: token lifetimes, Redis key prefixes, and resolution deadlines.
  - HTTP: header names used by middleware.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "promptix-portal"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS      = 100.0
	DefaultRateLimitBurst    = 150
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Session

const (
	// AuthIssuer is the standard 'iss' claim in access tokens.
	AuthIssuer = "portal.promptix.app"

	// AccessTokenTTL is the lifetime of an access token issued by the provider.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a provider session without refresh.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// DefaultResolveTimeout bounds a single directory profile lookup.
	DefaultResolveTimeout = 10 * time.Second
)

// # HTTP Headers

const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderOrigin         = "Origin"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderAuthorization  = "Authorization"
	HeaderRetryAfter     = "Retry-After"
	HeaderContentType    = "Content-Type"
	BearerPrefix         = "Bearer "
	ContentTypeJSON      = "application/json"
	ContentTypeJSONUTF8  = "application/json; charset=utf-8"
	DefaultLocalOrigin   = "http://localhost:3000"
	DefaultLocalOriginIP = "http://127.0.0.1:3000"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaPortal = "portal"
)

// # Redis Prefixes

const (
	RedisPrefixSession = "portal:session:"
	RedisPrefixEvents  = "portal:session_events:"
)
