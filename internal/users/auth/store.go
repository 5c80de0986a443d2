// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # Credential Access

// CredentialStore is the read-only lookup the password strategy depends on.
type CredentialStore interface {

	/*
		FindByUsername returns the account with the given username.

		The match is exact and case-sensitive.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity including the password hash and strain ids
		  - error: apperr.NotFound when absent, or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)
}

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	CredentialStore

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		ExistsByUsername reports whether the username is already taken.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - bool: true when an account holds the username
		  - error: Database retrieval failures
	*/
	ExistsByUsername(context context.Context, username string) (bool, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on a duplicate username, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateProfile persists changes to the first and last name.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateProfile(context context.Context, user *User) error
}
