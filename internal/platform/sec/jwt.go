// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. The users/auth package builds its authenticators on top of
// [Hasher] and [TokenCodec].
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an auth token when JWT_EXPIRY is not set.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrMissingSecret is returned when the codec is built without a signing secret.
var ErrMissingSecret = errors.New("sec: JWT signing secret is required")

// signingMethod is pinned server-side. The "alg" header of incoming tokens is
// never trusted to pick the verification algorithm.
var signingMethod = jwt.SigningMethodHS256

// TokenClaims is the payload embedded inside an auth token.
//
// The registered subject holds the username; the full [Principal] rides along
// under "user" so protected routes never need a database round-trip.
type TokenClaims struct {
	jwt.RegisteredClaims

	User Principal `json:"user"`
}

// TokenCodec signs and verifies HS256 auth tokens with a process-wide secret.
//
// It is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// CodecOption customises a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) {
		codec.now = now
	}
}

// NewTokenCodec creates a [TokenCodec]. A non-positive ttl falls back to [DefaultTokenTTL].
func NewTokenCodec(secret string, ttl time.Duration, options ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	codec := &TokenCodec{
		secret:     []byte(secret),
		defaultTTL: ttl,
		now:        time.Now,
	}
	for _, option := range options {
		option(codec)
	}
	return codec, nil
}

// DefaultTTL reports the configured token lifetime.
func (codec *TokenCodec) DefaultTTL() time.Duration {
	return codec.defaultTTL
}

// Issue signs a new token for principal with the given subject and lifetime.
func (codec *TokenCodec) Issue(principal Principal, subject string, timeToLive time.Duration) (string, error) {
	currentTime := codec.now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		User: principal,
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature, algorithm and expiry of tokenString.
//
// Every failure is reported as a rejected [Result]; Verify never panics and
// never returns a bare error.
func (codec *TokenCodec) Verify(tokenString string) Result {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, codec.keyFunc,
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(codec.now),
	)
	if err != nil {
		return Rejected(reasonFor(err))
	}

	if !token.Valid || claims.Subject == "" {
		return Rejected(ReasonMalformed)
	}

	return Authenticated(claims.User, claims.Subject, claims.ExpiresAt.Time)
}

// keyFunc returns the HMAC secret after re-checking the method type.
func (codec *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
	}
	return codec.secret, nil
}

// reasonFor maps a jwt parse error to a rejection reason.
func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonMalformed
	}
}
