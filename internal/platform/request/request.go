// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bisik/internal/platform/apperr"
	"github.com/taibuivan/bisik/internal/platform/ctxutil"
	"github.com/taibuivan/bisik/internal/platform/sec"
	"github.com/taibuivan/bisik/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session extracts the resolved session claims from the request context.

Returns nil if the request is not authenticated.
*/
func Session(request *http.Request) *sec.SessionClaims {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request is authenticated and returns the claims.

Returns:
  - *sec.SessionClaims: The authenticated session identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*sec.SessionClaims, error) {

	// Get session claims
	claims := ctxutil.GetSession(request.Context())

	// If the request is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get session claims
	claims, err := RequiredSession(request)

	// If the request is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}
