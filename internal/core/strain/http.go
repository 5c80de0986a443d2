// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package strain

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/cabinet/internal/platform/request"
	"github.com/taibuivan/cabinet/internal/platform/respond"
	"github.com/taibuivan/cabinet/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the strain catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new strain [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalogue endpoints.
//
// # Routing Strategy
//
//   - Browsing (Public): list and fetch.
//   - Management (Bearer): requireAuth guards every mutation, comments included.
func (handler *Handler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// ## Public Browsing
	router.Get("/", handler.listStrains)
	router.Get("/{id}", handler.getStrain)

	// ## Catalogue Management
	router.Group(func(member chi.Router) {
		member.Use(requireAuth)

		member.Post("/", handler.createStrain)
		member.Put("/{id}", handler.updateStrain)
		member.Delete("/{id}", handler.deleteStrain)

		// Comments
		member.Post("/{id}", handler.addComment)
		member.Delete("/{id}/{commentID}", handler.removeComment)
	})

	return router
}

/*
GET /strains

Request:
  - Query: page, limit

Response:
  - 200: PaginatedEnvelope of []*Strain sorted by name
*/
func (handler *Handler) listStrains(writer http.ResponseWriter, request *http.Request) {
	strains, meta, err := handler.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, strains, meta)
}

/*
GET /strains/{id}

Response:
  - 200: Strain
  - 404: NOT_FOUND
*/
func (handler *Handler) getStrain(writer http.ResponseWriter, request *http.Request) {
	strain, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, strain)
}

/*
POST /strains

Request:
  - Body: CreateInput (name, type, description, flavor)

Response:
  - 201: Strain
  - 400: VALIDATION_ERROR: Missing field or "Strain already exists"
*/
func (handler *Handler) createStrain(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	strain, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, strain)
}

/*
PUT /strains/{id}

Request:
  - Body: UpdateInput (id must equal the path id)

Response:
  - 200: Strain
  - 400: VALIDATION_ERROR: Id mismatch or invalid field
  - 404: NOT_FOUND
*/
func (handler *Handler) updateStrain(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	strain, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, strain)
}

func (handler *Handler) deleteStrain(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /strains/{id}

Request:
  - Body: CommentInput ({"comment": {"content": "...", "author": "..."}})

Response:
  - 201: {"message": "Comment added to strain"}
  - 400: VALIDATION_ERROR: Missing comment or content
  - 404: NOT_FOUND
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CommentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.AddComment(request.Context(), requestutil.ID(request, "id"), principal.Username, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, http.StatusCreated, "Comment added to strain")
}

func (handler *Handler) removeComment(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.RemoveComment(request.Context(),
		requestutil.ID(request, "id"),
		requestutil.ID(request, "commentID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
