// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/constants"
	"github.com/taibuivan/cabinet/internal/platform/ctxutil"
	"github.com/taibuivan/cabinet/internal/platform/sec"
	"github.com/taibuivan/cabinet/internal/platform/validate"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting auth tokens.
type TokenIssuer interface {
	// Issue signs a token embedding principal for subject, valid for timeToLive.
	Issue(principal sec.Principal, subject string, timeToLive time.Duration) (string, error)

	// DefaultTTL reports the lifetime given to freshly issued tokens.
	DefaultTTL() time.Duration
}

// Service is the auth gateway: it exchanges credentials for auth tokens.
//
// # Review Process
//
// This service is critical for security. Any change to how rejections are
// reported must keep every failed login indistinguishable to the client.
type Service struct {
	passwords Authenticator[PasswordCredentials]
	tokens    Authenticator[string]
	issuer    TokenIssuer
	now       func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	passwords Authenticator[PasswordCredentials],
	tokens Authenticator[string],
	issuer TokenIssuer,
) *Service {
	return &Service{
		passwords: passwords,
		tokens:    tokens,
		issuer:    issuer,
		now:       time.Now,
	}
}

// TokenGrant is the body returned by login and refresh.
type TokenGrant struct {
	AuthToken string `json:"authToken"`
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

/*
Login validates user credentials and issues an auth token.

Description: Shape validation runs before any lookup, so a request without a
username or password never reaches the password strategy. Every rejection
returns the same client message; the reason is logged server-side only.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *TokenGrant: The signed auth token
  - error: VALIDATION_ERROR, UNAUTHORIZED or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*TokenGrant, error) {

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	result, err := service.passwords.Authenticate(context, PasswordCredentials{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_failed: %w", err)
	}

	logger := ctxutil.GetLogger(context)
	if !result.OK() {
		level := slog.LevelInfo
		if result.Reason == sec.ReasonMalformed {
			// A stored hash bcrypt cannot parse is a data fault, not a user mistake
			level = slog.LevelError
		}
		logger.Log(context, level, "auth_login_rejected", slog.String("reason", string(result.Reason)))
		return nil, apperr.Unauthorized(constants.MsgLoginRejected).WithCause(result.Err())
	}

	token, err := service.issuer.Issue(result.Principal, result.Subject, service.issuer.DefaultTTL())
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	logger.Info("auth_login_succeeded", slog.String("user_id", result.Principal.ID))

	return &TokenGrant{AuthToken: token}, nil
}

// # Token Refresh

/*
Refresh exchanges a still-valid auth token for a new one.

Description: The new token carries the principal and subject embedded in the
presented token; storage is not consulted, so profile changes appear only after
the next login. The new expiry is never earlier than the old one.

Parameters:
  - context: context.Context
  - bearerToken: string (the raw token without the "Bearer " prefix)

Returns:
  - *TokenGrant: The re-issued auth token
  - error: UNAUTHORIZED or internal failures
*/
func (service *Service) Refresh(context context.Context, bearerToken string) (*TokenGrant, error) {
	result, err := service.tokens.Authenticate(context, bearerToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_failed: %w", err)
	}

	if !result.OK() {
		ctxutil.GetLogger(context).Info("auth_refresh_rejected", slog.String("reason", string(result.Reason)))
		return nil, apperr.Unauthorized(constants.MsgTokenRejected).WithCause(result.Err())
	}

	timeToLive := service.issuer.DefaultTTL()
	if remaining := result.ExpiresAt.Sub(service.now()); remaining > timeToLive {
		timeToLive = remaining
	}

	token, err := service.issuer.Issue(result.Principal, result.Subject, timeToLive)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return &TokenGrant{AuthToken: token}, nil
}
