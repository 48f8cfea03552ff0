// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP delivery layer for the authentication flow.

It implements the gateway for the login ritual — username identification,
first-time password provisioning, credential verification — plus session
establishment and teardown.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Delegates session attachment to the process-wide [session.Transport].
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bisik/internal/platform/apperr"
	"github.com/taibuivan/bisik/internal/platform/middleware"
	requestutil "github.com/taibuivan/bisik/internal/platform/request"
	"github.com/taibuivan/bisik/internal/platform/respond"
	"github.com/taibuivan/bisik/internal/platform/sec"
	"github.com/taibuivan/bisik/internal/platform/session"
	"github.com/taibuivan/bisik/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
	transport   session.Transport
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, transport session.Transport) *Handler {
	return &Handler{authService: service, transport: transport}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /check-username : IDENTIFY step of the login ritual.
//   - POST /login          : VERIFY step; establishes a session.
//   - POST /set-password   : PROVISION step; establishes a session.
//   - POST /logout         : Clears the session.
//   - POST /set-cookie     : Bridges a client-held identity into a cookie session.
//   - GET  /me             : Returns the resolved session identity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/check-username", handler.checkUsername)
	router.Post("/login", handler.login)
	router.Post("/set-password", handler.setPassword)
	router.Post("/logout", handler.logout)
	router.Post("/set-cookie", handler.setCookie)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type checkUsernameRequest struct {
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type setPasswordRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// ConfirmPassword is optional: the web client enforces the match itself,
	// but when present the server re-checks it.
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

type setCookieRequest struct {
	User *PublicUser `json:"user"`
}

/*
CheckUsername resolves a username into its login route.

POST /auth/check-username

Description: IDENTIFY step. Looks the username up in the Directory and tells
the client whether to provision a first password or verify an existing one.

Request:
  - Body: checkUsernameRequest (Username)

Response:
  - 200: IdentifyResult: {exists, hasPassword, user}
  - 404: ErrNotFound: Unknown username (terminal, never falls through)
*/
func (handler *Handler) checkUsername(writer http.ResponseWriter, request *http.Request) {
	var input checkUsernameRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.CheckUsername(request.Context(), input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Login authenticates a user and establishes a session.

POST /auth/login

Description: VERIFY step. Validates credentials and attaches the session to
the response via the process-wide transport (a signed cookie in trusted mode).

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: {user} plus session attachment
  - 401: ErrUnauthorized: Invalid credentials (reason never distinguished)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.establish(writer, user); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser: user,
	})
}

/*
SetPassword provisions a first-time password and establishes a session.

POST /auth/set-password

Description: PROVISION step. Policy violations (too short, mismatch) are
rejected before the Directory is contacted; a concurrent provisioning race
surfaces as 409.

Request:
  - Body: setPasswordRequest (Username, Password, optional ConfirmPassword)

Response:
  - 200: {message, user} plus session attachment
  - 400: ErrValidation: Weak password or persistence failure
  - 409: ErrConflict: Password already provisioned
*/
func (handler *Handler) setPassword(writer http.ResponseWriter, request *http.Request) {
	var input setPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.authService.SetPassword(request.Context(), SetPasswordInput{
		Username:        input.Username,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.establish(writer, user); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Password set successfully",
		FieldUser:    user,
	})
}

/*
Logout terminates the current session.

POST /auth/logout

Description: Clears the session cookie (Max-Age=0) in trusted mode, or drops
the caller-held payload in local mode. Idempotent — logging out twice is fine.

Response:
  - 200: {message}: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.transport.Clear(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out successfully",
	})
}

/*
SetCookie establishes a session from a client-held identity.

POST /auth/set-cookie

Description: Bridge for clients that completed the login flow while holding
the identity locally (local-fallback deployments migrating to trusted
cookies). The payload is the public identity triple only.

Request:
  - Body: setCookieRequest (User)

Response:
  - 200: {message}: Cookie set
  - 400: ErrValidation: Missing user payload
*/
func (handler *Handler) setCookie(writer http.ResponseWriter, request *http.Request) {
	var input setCookieRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.User == nil {
		respond.Error(writer, request, validate.RequiredError(FieldUser, "is required"))
		return
	}

	if err := handler.establish(writer, input.User); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Cookie set successfully",
	})
}

/*
Me returns the identity resolved from the incoming session.

GET /auth/me

Response:
  - 200: {user}: The session claims as a public summary
  - 401: ErrUnauthorized: No valid session on the request
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser: &PublicUser{
			ID:          claims.UserID,
			Username:    claims.Username,
			DisplayName: claims.DisplayName,
		},
	})
}

// establish attaches a session for the given user to the outgoing response.
func (handler *Handler) establish(writer http.ResponseWriter, user *PublicUser) error {
	return handler.transport.Establish(writer, &sec.SessionClaims{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
}
