// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultHashCost matches the 10 rounds the cabinet has always used for stored passwords.
const DefaultHashCost = 10

// ErrMalformedHash is returned by [Hasher.Verify] when the stored value is not a bcrypt hash.
var ErrMalformedHash = errors.New("sec: stored password hash is malformed")

// # Password Hashing

// Hasher hashes and verifies passwords with bcrypt.
//
// # Concurrency
//
// bcrypt is deliberately CPU-heavy. Every call takes a slot from a weighted
// semaphore so that a burst of logins queues instead of starving the rest of
// the server. Slot acquisition honours context cancellation.
type Hasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewHasher builds a [Hasher] with the given bcrypt cost and concurrency limit.
// A cost outside bcrypt's range falls back to [DefaultHashCost]; a limit below 1
// uses the number of CPUs.
func NewHasher(cost, concurrency int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Hasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(concurrency)),
	}
}

// Cost reports the bcrypt work factor used for new hashes.
func (hasher *Hasher) Cost() int {
	return hasher.cost
}

// Hash returns a salted bcrypt hash of plainTextPassword.
func (hasher *Hasher) Hash(ctx context.Context, plainTextPassword string) (string, error) {
	if err := hasher.slots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("sec: hash slot unavailable: %w", err)
	}
	defer hasher.slots.Release(1)

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares plainTextPassword against existingHash.
//
// A mismatch is (false, nil). A stored value that bcrypt cannot parse is
// (false, [ErrMalformedHash]); it points at a data integrity fault, not at the caller.
func (hasher *Hasher) Verify(ctx context.Context, plainTextPassword, existingHash string) (bool, error) {
	if err := hasher.slots.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("sec: hash slot unavailable: %w", err)
	}
	defer hasher.slots.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
