// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package strain

import "context"

// Repository is the persistence contract for the catalogue.
type Repository interface {

	// List returns every strain ordered by name.
	List(context context.Context) ([]*Strain, error)

	// FindByID returns apperr.NotFound when the strain does not exist.
	FindByID(context context.Context, id string) (*Strain, error)

	// FindByIDs returns the strains that exist, in the order of ids.
	FindByIDs(context context.Context, ids []string) ([]*Strain, error)

	// ExistsBySlug reports whether a strain already uses slug.
	ExistsBySlug(context context.Context, slug string) (bool, error)

	// Create returns apperr.Conflict when the slug is taken.
	Create(context context.Context, strain *Strain) error

	// Update persists name, slug, type, description and flavor.
	Update(context context.Context, strain *Strain) error

	// Delete is idempotent.
	Delete(context context.Context, id string) error

	// AddComment appends comment; apperr.NotFound when the strain is missing.
	AddComment(context context.Context, strainID string, comment Comment) error

	// RemoveComment drops the comment with commentID if present.
	RemoveComment(context context.Context, strainID, commentID string) error
}

// CatalogCache holds the full, name-sorted catalogue.
//
// A cache failure never fails a request: the service logs it and falls back
// to the repository.
type CatalogCache interface {

	// Get returns (nil, false, nil) on a miss.
	Get(context context.Context) ([]*Strain, bool, error)

	Set(context context.Context, strains []*Strain) error

	Invalidate(context context.Context) error
}
