// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/cabinet/internal/platform/request"
	"github.com/taibuivan/cabinet/internal/platform/respond"
	"github.com/taibuivan/cabinet/internal/users/auth"
)

// # Handler Implementation

// Handler manages the HTTP layer for accounts and collections.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the /users prefix.
//
// # Endpoints
//   - POST   /               : Register (public).
//   - GET    /me            : Current profile.
//   - PATCH  /me            : Update first and last name.
//   - GET    /strains       : Strains in the caller's collection.
//   - PUT    /strains/{id}  : Add a strain to the collection.
//   - DELETE /strains/{id}  : Remove a strain from the collection.
func (handler *Handler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.register)

	router.Group(func(member chi.Router) {
		member.Use(requireAuth)

		member.Get("/me", handler.getMe)
		member.Patch("/me", handler.updateMe)

		member.Get("/strains", handler.listStrains)
		member.Put("/strains/{id}", handler.addStrain)
		member.Delete("/strains/{id}", handler.removeStrain)
	})

	return router
}

// registrationFromBody applies the presence and type rules, in that order,
// to a decoded registration body.
func registrationFromBody(body map[string]any) (RegisterInput, error) {
	for _, field := range []string{auth.FieldUsername, auth.FieldPassword} {
		if _, ok := body[field]; !ok {
			return RegisterInput{}, registrationError(field, "Missing field")
		}
	}

	values := map[string]string{}
	for _, field := range []string{auth.FieldUsername, auth.FieldPassword, auth.FieldFirstName, auth.FieldLastName} {
		raw, ok := body[field]
		if !ok {
			continue
		}
		value, isString := raw.(string)
		if !isString {
			return RegisterInput{}, registrationError(field, "Incorrect field type: expected string")
		}
		values[field] = value
	}

	return RegisterInput{
		Username:  values[auth.FieldUsername],
		Password:  values[auth.FieldPassword],
		FirstName: values[auth.FieldFirstName],
		LastName:  values[auth.FieldLastName],
	}, nil
}

/*
POST /users

Request:
  - Body: {userName, password, firstName?, lastName?}

Response:
  - 201: sec.Principal
  - 400: VALIDATION_ERROR: Invalid JSON
  - 422: UNPROCESSABLE: details[0].field names the offending field
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var body map[string]any
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := registrationFromBody(body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user.Principal())
}

func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /users/me

Request:
  - Body: UpdateProfileInput

Response:
  - 200: auth.User
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateProfileInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
GET /users/strains

Response:
  - 200: StrainsView ({"strains": [...]})
*/
func (handler *Handler) listStrains(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	strains, err := handler.service.ListStrains(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, StrainsView{Strains: strains})
}

/*
PUT /users/strains/{id}

Response:
  - 200: {"message": "Strain added to user"}
  - 404: NOT_FOUND: No such strain
*/
func (handler *Handler) addStrain(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddStrain(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, http.StatusOK, "Strain added to user")
}

func (handler *Handler) removeStrain(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveStrain(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
