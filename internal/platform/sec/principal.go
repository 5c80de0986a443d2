// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "time"

// # Identity

// Principal is the authenticated identity embedded in a token.
//
// It only carries fields that are safe to hand back to the client; the password
// hash never appears here.
type Principal struct {
	ID        string   `json:"id"`
	Username  string   `json:"userName"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Strains   []string `json:"strains"`
}

// # Authentication Outcome

// Reason explains why an authentication attempt was rejected.
type Reason string

const (
	ReasonMissingCredentials Reason = "missing-credentials"
	ReasonUnknownUser        Reason = "unknown-user"
	ReasonBadPassword        Reason = "bad-password"
	ReasonInvalidSignature   Reason = "invalid-signature"
	ReasonExpired            Reason = "expired"
	ReasonMalformed          Reason = "malformed"
)

// Result is the outcome of an authentication attempt: either Authenticated
// (Reason is empty) or Rejected with a Reason.
type Result struct {
	Principal Principal
	// Subject is the token subject (the username the identity was issued for).
	Subject string
	// ExpiresAt is set when the identity came from a token.
	ExpiresAt time.Time
	Reason    Reason
}

// Authenticated builds a successful [Result].
func Authenticated(principal Principal, subject string, expiresAt time.Time) Result {
	return Result{Principal: principal, Subject: subject, ExpiresAt: expiresAt}
}

// Rejected builds a failed [Result].
func Rejected(reason Reason) Result {
	return Result{Reason: reason}
}

// OK reports whether the attempt was authenticated.
func (result Result) OK() bool {
	return result.Reason == ""
}

// Err returns a [*RejectionError] for a rejected result and nil otherwise.
func (result Result) Err() error {
	if result.OK() {
		return nil
	}
	return &RejectionError{Reason: result.Reason}
}

// RejectionError carries the rejection reason through the error chain for
// server-side logging. Its text is never sent to clients.
type RejectionError struct {
	Reason Reason
}

func (e *RejectionError) Error() string {
	return "authentication rejected: " + string(e.Reason)
}
