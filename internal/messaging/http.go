// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package messaging

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bisik/internal/platform/middleware"
	requestutil "github.com/taibuivan/bisik/internal/platform/request"
	"github.com/taibuivan/bisik/internal/platform/respond"
	"github.com/taibuivan/bisik/internal/platform/validate"
	"github.com/taibuivan/bisik/pkg/pagination"
)

// Handler implements the anonymous messaging HTTP endpoints.
type Handler struct {
	messagingService *Service
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service) *Handler {
	return &Handler{messagingService: service}
}

// Routes returns a [chi.Router] configured with messaging routes.
//
// Both endpoints require a session: members write to each other. Anonymity is
// preserved by storage, not by skipping authentication — the sender identity
// is simply never recorded.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.send)
		r.Get("/", handler.inbox)
	})

	return router
}

type sendRequest struct {
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"message"`
}

/*
Send delivers an anonymous message.

POST /messages

Description: The caller must hold a session, but their identity stops at this
handler — nothing sender-related is passed to the service or stored. The
receiver comes from the directory picker.

Request:
  - Body: sendRequest (ReceiverID, Body)

Response:
  - 201: Message: The persisted message
  - 400: ErrValidation: Missing or oversized fields
  - 401: ErrUnauthorized: No valid session
  - 404: ErrNotFound: Unknown receiver
*/
func (handler *Handler) send(writer http.ResponseWriter, request *http.Request) {
	var input sendRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	message, err := handler.messagingService.Send(request.Context(), SendInput{
		ReceiverID: input.ReceiverID,
		Body:       input.Body,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, message)
}

/*
Inbox returns the authenticated member's messages, newest first.

GET /messages?page=&limit=

Response:
  - 200: []Message with pagination metadata
  - 401: ErrUnauthorized: No valid session
*/
func (handler *Handler) inbox(writer http.ResponseWriter, request *http.Request) {
	receiverID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	messages, meta, err := handler.messagingService.Inbox(request.Context(), receiverID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, messages, meta)
}
