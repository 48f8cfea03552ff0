// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bisik/internal/platform/config"
	"github.com/taibuivan/bisik/internal/platform/constants"
	"github.com/taibuivan/bisik/internal/platform/sec"
	"github.com/taibuivan/bisik/internal/platform/session"
)

func newTestCodec(t *testing.T) *sec.TokenCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec("transport-test-secret", constants.AuthIssuer, constants.SessionTokenTTL)
	require.NoError(t, err)
	return codec
}

func testClaims() *sec.SessionClaims {
	return &sec.SessionClaims{
		UserID:      "user-123",
		Username:    "alice",
		DisplayName: "Alice A.",
	}
}

// memoryStore is an in-memory LocalStore for tests.
type memoryStore struct {
	payload []byte
}

func (s *memoryStore) Save(payload []byte) error { s.payload = payload; return nil }
func (s *memoryStore) Load() []byte              { return s.payload }
func (s *memoryStore) Drop()                     { s.payload = nil }

/*
TestNew_ModeSelection verifies the transport strategy is chosen from
configuration, and that local mode refuses to start without a store.
*/
func TestNew_ModeSelection(t *testing.T) {
	codec := newTestCodec(t)

	cookieTransport, err := session.New(&config.Config{SessionMode: config.SessionModeCookie}, codec, nil)
	require.NoError(t, err)
	assert.IsType(t, &session.CookieTransport{}, cookieTransport)

	localTransport, err := session.New(&config.Config{SessionMode: config.SessionModeLocal}, codec, &memoryStore{})
	require.NoError(t, err)
	assert.IsType(t, &session.LocalTransport{}, localTransport)

	_, err = session.New(&config.Config{SessionMode: config.SessionModeLocal}, codec, nil)
	assert.Error(t, err)

	_, err = session.New(&config.Config{SessionMode: "carrier-pigeon"}, codec, nil)
	assert.Error(t, err)
}

/*
TestCookieTransport_Establish verifies every security attribute of the
session cookie.
*/
func TestCookieTransport_Establish(t *testing.T) {
	transport := session.NewCookieTransport(newTestCodec(t))
	recorder := httptest.NewRecorder()

	require.NoError(t, transport.Establish(recorder, testClaims()))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

/*
TestCookieTransport_RoundTrip verifies a session established on a response
is readable from a request carrying the same cookie.
*/
func TestCookieTransport_RoundTrip(t *testing.T) {
	transport := session.NewCookieTransport(newTestCodec(t))
	recorder := httptest.NewRecorder()

	require.NoError(t, transport.Establish(recorder, testClaims()))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}

	claims := transport.Read(request)
	require.NotNil(t, claims)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Alice A.", claims.DisplayName)
}

/*
TestCookieTransport_Read_Invalid verifies every flavour of bad cookie yields
a nil session.
*/
func TestCookieTransport_Read_Invalid(t *testing.T) {
	transport := session.NewCookieTransport(newTestCodec(t))

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"missing_cookie", nil},
		{"empty_value", &http.Cookie{Name: constants.SessionCookieName, Value: ""}},
		{"garbage_token", &http.Cookie{Name: constants.SessionCookieName, Value: "not.a.token"}},
		{"wrong_cookie_name", &http.Cookie{Name: "other-cookie", Value: "whatever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				request.AddCookie(tt.cookie)
			}
			assert.Nil(t, transport.Read(request))
		})
	}
}

/*
TestCookieTransport_Clear verifies logout issues an immediately-expiring
cookie (Max-Age=0 on the wire).
*/
func TestCookieTransport_Clear(t *testing.T) {
	transport := session.NewCookieTransport(newTestCodec(t))
	recorder := httptest.NewRecorder()

	transport.Clear(recorder)

	header := recorder.Header().Get("Set-Cookie")
	assert.Contains(t, header, constants.SessionCookieName+"=")
	assert.True(t, strings.Contains(header, "Max-Age=0"), "expected Max-Age=0, got %q", header)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

/*
TestLocalTransport_RoundTrip verifies the caller-store strategy: Establish
hands the payload to the store, Read hydrates it back, Clear drops it.
*/
func TestLocalTransport_RoundTrip(t *testing.T) {
	store := &memoryStore{}
	transport := session.NewLocalTransport(store)

	recorder := httptest.NewRecorder()
	require.NoError(t, transport.Establish(recorder, testClaims()))

	// No cookie is ever written in local mode.
	assert.Empty(t, recorder.Header().Get("Set-Cookie"))
	assert.NotEmpty(t, store.payload)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := transport.Read(request)
	require.NotNil(t, claims)
	assert.Equal(t, "user-123", claims.UserID)

	transport.Clear(recorder)
	assert.Nil(t, transport.Read(request))
}

/*
TestFileStore_RoundTrip verifies the disk-backed local store the server
binary uses in local mode: a full transport cycle through a real file, and
graceful behavior when the file is absent.
*/
func TestFileStore_RoundTrip(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state", "session.json")
	store := session.NewFileStore(statePath)

	// Absent file reads as no session.
	assert.Nil(t, store.Load())

	transport, err := session.New(
		&config.Config{SessionMode: config.SessionModeLocal},
		newTestCodec(t),
		store,
	)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	require.NoError(t, transport.Establish(recorder, testClaims()))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := transport.Read(request)
	require.NotNil(t, claims)
	assert.Equal(t, "user-123", claims.UserID)

	// Owner-only permissions: the payload is an unverified identity.
	info, err := os.Stat(statePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	transport.Clear(recorder)
	assert.Nil(t, transport.Read(request))

	// Dropping twice is harmless.
	store.Drop()
}

/*
TestLocalTransport_Read_Empty verifies an empty or corrupt store reads as
anonymous.
*/
func TestLocalTransport_Read_Empty(t *testing.T) {
	store := &memoryStore{}
	transport := session.NewLocalTransport(store)
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Nil(t, transport.Read(request))

	store.payload = []byte("{corrupt")
	assert.Nil(t, transport.Read(request))
}
