// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/bisik/internal/platform/apperr"
	"github.com/taibuivan/bisik/internal/platform/ctxutil"
	"github.com/taibuivan/bisik/internal/platform/respond"
	"github.com/taibuivan/bisik/internal/platform/session"
)

// Authenticate resolves the session for every incoming request.
//
// # Flow
//  1. Ask the process-wide [session.Transport] to read the request.
//  2. A nil result means anonymous — the request proceeds unauthenticated.
//  3. A non-nil result is injected into the context as the SessionContext,
//     derived fresh per request and never cached across requests.
//
// Missing, malformed, tampered, and expired tokens are indistinguishable
// here: all of them simply leave the request anonymous.
func Authenticate(transport session.Transport) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := transport.Read(request)
			if claims == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithSession(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
