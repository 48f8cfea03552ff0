// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bisik/internal/platform/respond"
)

// Handler implements the member directory HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with directory routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listUsers)
	return router
}

/*
ListUsers returns the public member directory.

GET /users

Response:
  - 200: []Summary: Every member as a public identity triple
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	summaries, err := handler.accountService.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summaries)
}
