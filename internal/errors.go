// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package internal

import (
	"errors"
	"net/http"

	"github.com/mstephen77/cryptoflare/internal/hashers"
)

// Error is a client-visible request failure with a fixed, non-sensitive
// message and HTTP status code. Internal error details never cross this
// boundary.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface
func (e *Error) Error() string { return e.Message }

// The full taxonomy of client-visible failures. Every internal error is
// converted to exactly one of these at the handler boundary.
var (
	ErrInvalidRoute        = &Error{Status: http.StatusNotFound, Message: "Not found."}
	ErrBadRequest          = &Error{Status: http.StatusBadRequest, Message: "Bad request."}
	ErrInternalServerError = &Error{Status: http.StatusInternalServerError, Message: "Internal server error."}
	ErrInvalidHashOptions  = &Error{Status: http.StatusBadRequest, Message: "Invalid option for specified hash algorithm."}
	ErrHashFailed          = &Error{Status: http.StatusInternalServerError, Message: "Hash failed."}
	ErrInvalidPasswordHash = &Error{Status: http.StatusBadRequest, Message: "Invalid hash"}
	ErrVerifyFailed        = &Error{Status: http.StatusInternalServerError, Message: "Verification failed."}
)

// classifyHashError maps a hasher failure during a hash operation.
// Anything that is not a rejected option tuple counts as an internal
// hash failure.
func classifyHashError(err error) *Error {
	if errors.Is(err, hashers.ErrInvalidOptions) {
		return ErrInvalidHashOptions
	}
	return ErrHashFailed
}

// classifyVerifyError maps a hasher failure during a verify operation.
// Only an unparseable hash string is client-correctable; note that the
// bcrypt hasher never reports one, so all of its failures land on
// ErrVerifyFailed.
func classifyVerifyError(err error) *Error {
	if errors.Is(err, hashers.ErrInvalidHash) {
		return ErrInvalidPasswordHash
	}
	return ErrVerifyFailed
}
