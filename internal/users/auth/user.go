// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the authentication core of the Cabinet API.

It owns the account entity, the two authentication strategies (password and
bearer token) and the gateway that exchanges credentials for auth tokens.

# Architecture

  - Entities: [User] is the stored account; [sec.Principal] is the safe view of it.
  - Strategies: [PasswordAuthenticator] and [TokenAuthenticator] both satisfy
    [Authenticator] and are picked explicitly per route.
  - Gateway: [Service] and [Handler] serve POST /auth/login and POST /auth/refresh.

Tokens are stateless. Nothing here writes to storage during authentication.
*/
package auth

import (
	"time"

	"github.com/taibuivan/cabinet/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the cabinet.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"userName"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Strains      []string  `json:"strains"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal returns the client-safe identity embedded in auth tokens.
func (user *User) Principal() sec.Principal {
	strains := user.Strains
	if strains == nil {
		strains = []string{}
	}
	return sec.Principal{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Strains:   strains,
	}
}

// # Field Identifiers

// JSON field names used in validation details for the authentication domain.
const (
	FieldUsername  = "userName"
	FieldPassword  = "password"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
)
