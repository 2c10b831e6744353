// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package hashers

import "errors"

var (
	// ErrInvalidOptions is returned when a hasher is constructed with a
	// parameter tuple outside the range accepted by the primitive.
	ErrInvalidOptions = errors.New("hashers: invalid options for hash algorithm")

	// ErrInvalidHash is returned by Verify when the hash string cannot
	// be parsed as a digest produced by this algorithm.
	ErrInvalidHash = errors.New("hashers: invalid or unrecognised password hash")
)
