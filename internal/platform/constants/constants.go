// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, session parameters, and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: Token issuer and session cookie configuration.
  - Caching: Redis key taxonomy.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bisik-api"
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

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "bisik.app"

	// SessionTokenTTL is how long a session token (and its cookie) lives.
	// Sessions end after exactly 7 days or at explicit logout, whichever
	// comes first.
	SessionTokenTTL = 7 * 24 * time.Hour

	// SessionCookieName is the name of the cookie carrying the signed session token.
	SessionCookieName = "auth-token"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaUsers     = "users"
	SchemaMessaging = "messaging"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixDirectory = "directory:"
)
