// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/cabinet/internal/platform/request"
	"github.com/taibuivan/cabinet/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the auth gateway HTTP endpoints.
//
// Both endpoints answer with a bare {"authToken": "..."} body, without the data
// envelope, because existing clients read the token from the top level.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login   : Exchanges a username and password for an auth token.
//   - POST /refresh : Exchanges a valid bearer token for a new one.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	return router
}

/*
Login authenticates a user with a password.

POST /auth/login

Request:
  - Body: LoginInput (userName, password)

Response:
  - 200: TokenGrant
  - 400: VALIDATION_ERROR: Invalid JSON or a missing field
  - 401: UNAUTHORIZED: "Incorrect username or password" for every rejection
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	grant, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, grant)
}

/*
Refresh re-issues the caller's auth token.

POST /auth/refresh

Request:
  - Header: Authorization: Bearer <token>

Response:
  - 200: TokenGrant
  - 401: UNAUTHORIZED: Missing, expired, tampered or malformed token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	grant, err := handler.authService.Refresh(request.Context(), requestutil.BearerToken(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, grant)
}
