// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package hashers

// Hasher is an interface for creating and verifying salted password
// digests. An implementation must generate a fresh random salt for
// every Hash call and produce a self-describing digest string that
// Verify can check without any parameters stored elsewhere.
type Hasher interface {
	// Algorithm returns the name of the hashing algorithm.
	Algorithm() string

	// Hash derives a salted digest of password and returns it as an
	// encoded string.
	Hash(password string) (string, error)

	// Verify checks password against a previously produced digest.
	// A wrong password is reported as (false, nil), never as an error.
	Verify(password, hash string) (bool, error)
}

var (
	_ Hasher = (*Argon2)(nil)
	_ Hasher = (*Bcrypt)(nil)
)
