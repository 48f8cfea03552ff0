// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session binds signed identity tokens to the HTTP request/response cycle.

It implements the dual-mode session strategy:

  - Trusted-cookie mode: the signed token travels in an HttpOnly cookie and is
    cryptographically verified on every read. This is the only mode with a
    security guarantee.
  - Local-fallback mode: the session payload is handed to caller-owned
    persistence and is treated as advisory on read. It exists so the same flow
    can run without a trusted cookie issuance pathway (e.g. local tooling) and
    must never face untrusted clients.

The mode is selected exactly once, at process start, from configuration. No
per-request value ever participates in mode selection — the two modes have
different trust guarantees and must not be mixed within a deployment.
*/
package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taibuivan/bisik/internal/platform/config"
	"github.com/taibuivan/bisik/internal/platform/constants"
	"github.com/taibuivan/bisik/internal/platform/sec"
)

// Transport establishes, reads, and clears a session on a request/response pair.
//
// Read is pure: it never mutates the request or any shared state, and returns
// nil for every flavour of absent/invalid session. Establish and Clear mutate
// only the outgoing response headers (or the caller store in local mode).
type Transport interface {
	Establish(writer http.ResponseWriter, claims *sec.SessionClaims) error
	Read(request *http.Request) *sec.SessionClaims
	Clear(writer http.ResponseWriter)
}

// New selects the process-wide transport strategy from configuration.
//
// localStore may be nil in cookie mode; it is required in local mode.
func New(cfg *config.Config, codec *sec.TokenCodec, localStore LocalStore) (Transport, error) {
	switch cfg.SessionMode {
	case config.SessionModeCookie:
		return &CookieTransport{codec: codec}, nil
	case config.SessionModeLocal:
		if localStore == nil {
			return nil, fmt.Errorf("session: local mode requires a caller-supplied store")
		}
		return &LocalTransport{store: localStore}, nil
	default:
		return nil, fmt.Errorf("session: unknown transport mode %q", cfg.SessionMode)
	}
}

// # Trusted-Cookie Mode

// CookieTransport carries the signed session token in an HttpOnly cookie.
type CookieTransport struct {
	codec *sec.TokenCodec
}

// NewCookieTransport constructs the trusted-cookie strategy directly.
func NewCookieTransport(codec *sec.TokenCodec) *CookieTransport {
	return &CookieTransport{codec: codec}
}

// Establish signs the claims and attaches the token to the outgoing response.
//
// Cookie attributes are fixed: site-wide path, HttpOnly (no page-script
// access), Secure (HTTPS only), SameSite=Strict (never sent cross-site),
// Max-Age equal to the token lifetime.
func (transport *CookieTransport) Establish(writer http.ResponseWriter, claims *sec.SessionClaims) error {
	token, err := transport.codec.Sign(claims.UserID, claims.Username, claims.DisplayName)
	if err != nil {
		return fmt.Errorf("session: failed to sign token: %w", err)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(transport.codec.TTL().Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return nil
}

// Read extracts the cookie from the incoming request and verifies it.
//
// Returns nil when the cookie is missing or the token fails verification for
// any reason — the distinction is deliberately collapsed.
func (transport *CookieTransport) Read(request *http.Request) *sec.SessionClaims {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return transport.codec.Verify(cookie.Value)
}

// Clear issues an expired cookie (Max-Age=0), removing the session immediately.
func (transport *CookieTransport) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1, // serializes as Max-Age=0
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// # Local-Fallback Mode

// LocalStore is the caller-owned persistence for local-fallback sessions.
// The payload is opaque to this package.
type LocalStore interface {
	// Save persists the serialized session payload.
	Save(payload []byte) error
	// Load returns the previously saved payload, or nil if none exists.
	Load() []byte
	// Drop discards any saved payload.
	Drop()
}

// LocalTransport hands the session payload to caller-owned persistence.
//
// It performs NO cryptographic verification on read — the payload is advisory,
// not a trust boundary. Never select this mode in a deployment serving
// untrusted clients.
type LocalTransport struct {
	store LocalStore
}

// NewLocalTransport constructs the local-fallback strategy directly.
func NewLocalTransport(store LocalStore) *LocalTransport {
	return &LocalTransport{store: store}
}

// Establish serializes the claims into the caller store. The response writer
// is untouched; there is no cookie in this mode.
func (transport *LocalTransport) Establish(_ http.ResponseWriter, claims *sec.SessionClaims) error {
	payload, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("session: failed to serialize claims: %w", err)
	}
	if err := transport.store.Save(payload); err != nil {
		return fmt.Errorf("session: local store save failed: %w", err)
	}
	return nil
}

// Read deserializes whatever the caller store holds. No signature, no expiry.
func (transport *LocalTransport) Read(_ *http.Request) *sec.SessionClaims {
	payload := transport.store.Load()
	if len(payload) == 0 {
		return nil
	}

	claims := &sec.SessionClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil
	}
	return claims
}

// Clear discards the caller-held payload.
func (transport *LocalTransport) Clear(_ http.ResponseWriter) {
	transport.store.Drop()
}
