// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package hashers

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptWorkFactor is the primitive's documented default cost.
const DefaultBcryptWorkFactor = uint32(bcrypt.DefaultCost)

// BcryptOptions are the tunable bcrypt cost parameters.
type BcryptOptions struct {
	WorkFactor uint32
}

// Bcrypt hashes passwords with bcrypt. The work factor is handed to
// the primitive as-is: an out-of-range cost surfaces as a hash failure
// rather than an option error, matching what the primitive itself
// enforces. Salting and digest encoding (modular crypt format) are
// handled entirely inside the primitive.
type Bcrypt struct {
	cost int
}

// NewBcrypt constructs a Bcrypt hasher. Unlike NewArgon2 it performs
// no validation of its own.
func NewBcrypt(opts BcryptOptions) *Bcrypt {
	return &Bcrypt{cost: int(opts.WorkFactor)}
}

// Algorithm implements Hasher.
func (b *Bcrypt) Algorithm() string { return "bcrypt" }

// Hash implements Hasher.
func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify implements Hasher. Only a clean mismatch reports
// (false, nil); every other failure, malformed hash strings included,
// is a plain error and never ErrInvalidHash.
func (b *Bcrypt) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("error verifying password: %w", err)
	}
}
