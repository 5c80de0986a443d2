// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles registration, the caller's profile and their personal
strain collection.

# Architecture

  - Entities: This package reuses [auth.User]; it owns no entity of its own.
  - Collection: a user keeps references to catalogue strains in users.collection.
  - Domain: It depends on the strain catalogue only through [StrainCatalog].
*/
package account

import (
	"context"

	"github.com/taibuivan/cabinet/internal/core/strain"
)

// # Inputs

// RegisterInput is a registration request whose fields already passed the
// presence and type checks. Optional names default to "".
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UpdateProfileInput holds the editable profile fields. Nil leaves a field unchanged.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// StrainsView is the body of GET /users/strains.
type StrainsView struct {
	Strains []*strain.Strain `json:"strains"`
}

// Registration length limits. The password maximum is bcrypt's input limit in bytes.
const (
	MinUsernameLength = 1
	MinPasswordLength = 10
	MaxPasswordLength = 72
	MaxNameLength     = 100
)

// # Contracts

// CollectionRepository persists the strains a user keeps.
type CollectionRepository interface {

	/*
		Add links a strain to a user. Adding the same strain twice is a no-op.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - strainID: string

		Returns:
		  - error: apperr.NotFound when either side is missing, or storage failures
	*/
	Add(context context.Context, userID, strainID string) error

	// Remove unlinks a strain. Removing an absent link is a no-op.
	Remove(context context.Context, userID, strainID string) error
}

// StrainCatalog is the read access to the strain catalogue this package needs.
type StrainCatalog interface {
	FindByID(context context.Context, id string) (*strain.Strain, error)
	FindByIDs(context context.Context, ids []string) ([]*strain.Strain, error)
}

// PasswordHasher produces the stored hash of a new password.
type PasswordHasher interface {
	Hash(context context.Context, plainTextPassword string) (string, error)
}
