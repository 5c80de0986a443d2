// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/sec"
)

// # Strategy Contract

// Authenticator turns a credential of type In into an authentication outcome.
//
// A rejected credential is a [sec.Result] with a Reason, never an error. The
// error return is reserved for infrastructure faults such as an unreachable store.
type Authenticator[In any] interface {
	Authenticate(context context.Context, credential In) (sec.Result, error)
}

// PasswordHasher is the subset of [sec.Hasher] the password strategy depends on.
type PasswordHasher interface {
	Verify(context context.Context, plainTextPassword, existingHash string) (bool, error)
}

// TokenVerifier is the subset of [sec.TokenCodec] the token strategy depends on.
type TokenVerifier interface {
	Verify(token string) sec.Result
}

// # Password Strategy

// PasswordCredentials is the input of [PasswordAuthenticator].
type PasswordCredentials struct {
	Username string
	Password string
}

// PasswordAuthenticator checks a username and password against stored accounts.
//
// It never writes: there are no lockout counters and no last-login stamps.
type PasswordAuthenticator struct {
	store  CredentialStore
	hasher PasswordHasher
}

// NewPasswordAuthenticator builds a [PasswordAuthenticator].
func NewPasswordAuthenticator(store CredentialStore, hasher PasswordHasher) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store, hasher: hasher}
}

/*
Authenticate verifies credentials and returns the account's principal on success.

Description: The username match is exact and case-sensitive. Rejections carry
distinct reasons for server-side logging; callers must not expose them.

Parameters:
  - context: context.Context
  - credentials: PasswordCredentials

Returns:
  - sec.Result: Authenticated principal, or Rejected with a reason
  - error: Store or hasher infrastructure failures only
*/
func (authenticator *PasswordAuthenticator) Authenticate(context context.Context, credentials PasswordCredentials) (sec.Result, error) {
	if credentials.Username == "" || credentials.Password == "" {
		return sec.Rejected(sec.ReasonMissingCredentials), nil
	}

	user, err := authenticator.store.FindByUsername(context, credentials.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return sec.Rejected(sec.ReasonUnknownUser), nil
		}
		return sec.Result{}, fmt.Errorf("auth_password_lookup_failed: %w", err)
	}

	matched, err := authenticator.hasher.Verify(context, credentials.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, sec.ErrMalformedHash) {
			return sec.Rejected(sec.ReasonMalformed), nil
		}
		return sec.Result{}, fmt.Errorf("auth_password_verify_failed: %w", err)
	}
	if !matched {
		return sec.Rejected(sec.ReasonBadPassword), nil
	}

	return sec.Authenticated(user.Principal(), user.Username, time.Time{}), nil
}

// # Token Strategy

// TokenAuthenticator validates a bearer token. It never touches storage, so the
// principal it returns is the one embedded at issuance.
type TokenAuthenticator struct {
	verifier TokenVerifier
}

// NewTokenAuthenticator builds a [TokenAuthenticator].
func NewTokenAuthenticator(verifier TokenVerifier) *TokenAuthenticator {
	return &TokenAuthenticator{verifier: verifier}
}

// Authenticate verifies token. An empty token is rejected as missing credentials.
func (authenticator *TokenAuthenticator) Authenticate(_ context.Context, token string) (sec.Result, error) {
	if token == "" {
		return sec.Rejected(sec.ReasonMissingCredentials), nil
	}
	return authenticator.verifier.Verify(token), nil
}

// Compile-time checks that both strategies satisfy the shared contract.
var (
	_ Authenticator[PasswordCredentials] = (*PasswordAuthenticator)(nil)
	_ Authenticator[string]              = (*TokenAuthenticator)(nil)
)
