// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package strain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/validate"
	"github.com/taibuivan/cabinet/pkg/pagination"
	"github.com/taibuivan/cabinet/pkg/pointer"
	"github.com/taibuivan/cabinet/pkg/slug"
	"github.com/taibuivan/cabinet/pkg/uuid"
)

// # Inputs

// CreateInput is the body of POST /strains. A nil field was absent from the JSON.
type CreateInput struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Flavor      *string `json:"flavor"`
}

// UpdateInput is the body of PUT /strains/{id}. Nil fields stay unchanged.
type UpdateInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Flavor      *string `json:"flavor"`
}

// CommentInput is the body of POST /strains/{id}.
type CommentInput struct {
	Comment *CommentBody `json:"comment"`
}

// CommentBody carries the comment text and an optional display author.
type CommentBody struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

var errStrainExists = apperr.ValidationError("Strain already exists")

// # Service

// Service implements the catalogue use cases.
type Service struct {
	repo   Repository
	cache  CatalogCache
	logger *slog.Logger
}

// NewService constructs a [Service]. cache may be nil, in which case every
// read goes to the repository.
func NewService(repo Repository, cache CatalogCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

/*
List returns one page of the name-sorted catalogue.

Description: The full catalogue is served from the cache when present and
rebuilt from the repository on a miss. Cache faults are logged and ignored.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Strain: The requested page
  - pagination.Meta: Page metadata
  - error: Repository errors
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*Strain, pagination.Meta, error) {
	strains, err := service.catalog(context)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	start, end := params.Bounds(len(strains))
	return strains[start:end], pagination.NewMeta(params.Page, params.Limit, len(strains)), nil
}

func (service *Service) catalog(context context.Context) ([]*Strain, error) {
	if service.cache != nil {
		strains, hit, err := service.cache.Get(context)
		if err != nil {
			service.logger.WarnContext(context, "strain_catalog_cache_failed", slog.Any("error", err))
		}
		if hit {
			return strains, nil
		}
	}

	strains, err := service.repo.List(context)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.Set(context, strains); err != nil {
			service.logger.WarnContext(context, "strain_catalog_cache_failed", slog.Any("error", err))
		}
	}
	return strains, nil
}

// invalidate drops the cached catalogue after a mutation.
func (service *Service) invalidate(context context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(context); err != nil {
		service.logger.WarnContext(context, "strain_catalog_invalidate_failed", slog.Any("error", err))
	}
}

// Get returns a single strain. Ids that are not UUIDs are reported as not found.
func (service *Service) Get(context context.Context, id string) (*Strain, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Strain")
	}
	return service.repo.FindByID(context, id)
}

/*
Create adds a strain to the catalogue.

Description: All four fields must be present. Two names with the same slug
count as the same strain.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Strain: The stored strain
  - error: Validation errors, "Strain already exists", or repository errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Strain, error) {

	// Presence first, in a fixed order, so the message names one field
	required := []struct {
		field string
		value *string
	}{
		{FieldName, input.Name},
		{FieldType, input.Type},
		{FieldDescription, input.Description},
		{FieldFlavor, input.Flavor},
	}
	for _, r := range required {
		if r.value == nil {
			return nil, missingField(r.field)
		}
	}

	strain := &Strain{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(*input.Name),
		Type:        strings.TrimSpace(*input.Type),
		Description: strings.TrimSpace(*input.Description),
		Flavor:      strings.TrimSpace(*input.Flavor),
	}
	strain.Slug = slug.From(strain.Name)

	if err := validateStrain(strain); err != nil {
		return nil, err
	}

	exists, err := service.repo.ExistsBySlug(context, strain.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errStrainExists
	}

	if err := service.repo.Create(context, strain); err != nil {
		if isConflict(err) {
			return nil, errStrainExists
		}
		return nil, err
	}

	service.invalidate(context)
	service.logger.InfoContext(context, "strain_created",
		slog.String("strain_id", strain.ID),
		slog.String("slug", strain.Slug),
	)
	return strain, nil
}

/*
Update changes any of name, type, description and flavor.

Parameters:
  - context: context.Context
  - id: string (path id)
  - input: UpdateInput (input.ID must equal id)

Returns:
  - *Strain: The updated strain
  - error: 400 on an id mismatch or invalid field, 404 when absent
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Strain, error) {
	if id == "" || input.ID != id {
		return nil, apperr.ValidationError(
			fmt.Sprintf("Request path id %s and request body id %s must match", id, input.ID),
			apperr.FieldError{Field: FieldID, Message: "Must match the path id"},
		)
	}

	strain, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		strain.Name = strings.TrimSpace(*input.Name)
		strain.Slug = slug.From(strain.Name)
	}
	strain.Type = strings.TrimSpace(pointer.Val(pointerOr(input.Type, strain.Type)))
	strain.Description = strings.TrimSpace(pointer.Val(pointerOr(input.Description, strain.Description)))
	strain.Flavor = strings.TrimSpace(pointer.Val(pointerOr(input.Flavor, strain.Flavor)))

	if err := validateStrain(strain); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, strain); err != nil {
		if isConflict(err) {
			return nil, errStrainExists
		}
		return nil, err
	}

	service.invalidate(context)
	return strain, nil
}

// Delete removes a strain. Deleting an unknown strain succeeds.
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return nil
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.invalidate(context)
	service.logger.InfoContext(context, "strain_deleted", slog.String("strain_id", id))
	return nil
}

/*
AddComment appends a comment to a strain.

Parameters:
  - context: context.Context
  - strainID: string
  - username: string (used when the body names no author)
  - input: CommentInput

Returns:
  - *Comment: The stored comment
  - error: 400 on a missing comment, 404 when the strain is absent
*/
func (service *Service) AddComment(context context.Context, strainID, username string, input CommentInput) (*Comment, error) {
	if input.Comment == nil {
		return nil, missingField(FieldComment)
	}

	comment := Comment{
		ID:        uuid.New(),
		Content:   strings.TrimSpace(input.Comment.Content),
		Author:    strings.TrimSpace(input.Comment.Author),
		CreatedAt: time.Now().UTC(),
	}
	if comment.Author == "" {
		comment.Author = username
	}

	v := &validate.Validator{}
	v.Required(FieldContent, comment.Content).
		MaxLen(FieldContent, comment.Content, MaxCommentLength).
		MaxLen(FieldAuthor, comment.Author, MaxAuthorLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if !uuid.IsValid(strainID) {
		return nil, apperr.NotFound("Strain")
	}
	if err := service.repo.AddComment(context, strainID, comment); err != nil {
		return nil, err
	}

	service.invalidate(context)
	return &comment, nil
}

// RemoveComment deletes a comment. An unknown comment id is not an error.
func (service *Service) RemoveComment(context context.Context, strainID, commentID string) error {
	if !uuid.IsValid(strainID) {
		return apperr.NotFound("Strain")
	}
	if err := service.repo.RemoveComment(context, strainID, commentID); err != nil {
		return err
	}

	service.invalidate(context)
	return nil
}

// # Helpers

func missingField(field string) *apperr.AppError {
	return apperr.ValidationError(
		fmt.Sprintf("Missing %s in request body", field),
		apperr.FieldError{Field: field, Message: "This field is required"},
	)
}

func validateStrain(strain *Strain) error {
	v := &validate.Validator{}
	v.Required(FieldName, strain.Name).
		MaxLen(FieldName, strain.Name, MaxNameLength).
		Custom(FieldName, strain.Name != "" && strain.Slug == "", "Must contain a letter or digit").
		Required(FieldType, strain.Type).
		MaxLen(FieldType, strain.Type, MaxTypeLength).
		Required(FieldDescription, strain.Description).
		MaxLen(FieldDescription, strain.Description, MaxDescriptionLength).
		Required(FieldFlavor, strain.Flavor).
		MaxLen(FieldFlavor, strain.Flavor, MaxFlavorLength)
	return v.Err()
}

// pointerOr returns p, or a pointer to fallback when p is nil.
func pointerOr(p *string, fallback string) *string {
	if p == nil {
		return pointer.To(fallback)
	}
	return p
}

func isConflict(err error) bool {
	var appErr *apperr.AppError
	return errors.As(err, &appErr) && appErr.Code == "CONFLICT"
}
