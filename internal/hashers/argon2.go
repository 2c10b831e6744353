// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package hashers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// DefaultArgon2MemoryCost is the default memory cost in KiB (19 MiB),
	// the RFC 9106 low-memory recommendation.
	DefaultArgon2MemoryCost uint32 = 19 * 1024

	// DefaultArgon2TimeCost is the default number of iterations.
	DefaultArgon2TimeCost uint32 = 2

	// DefaultArgon2Parallelism is the default number of lanes.
	DefaultArgon2Parallelism uint32 = 1

	argon2KeyLength  uint32 = 32
	argon2SaltLength        = 16

	// Minimum decoded salt and digest lengths accepted when verifying.
	// Anything shorter is not a digest any sane producer emits.
	argon2MinSaltLength = 8
	argon2MinKeyLength  = 10
)

// Argon2Options are the tunable Argon2id cost parameters. MemoryCost is
// in KiB.
type Argon2Options struct {
	MemoryCost  uint32
	TimeCost    uint32
	Parallelism uint32
}

// DefaultArgon2Options returns the parameters used when a request
// carries no explicit options.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		MemoryCost:  DefaultArgon2MemoryCost,
		TimeCost:    DefaultArgon2TimeCost,
		Parallelism: DefaultArgon2Parallelism,
	}
}

// Argon2 hashes passwords with Argon2id. The algorithm is fixed to the
// id variant; the i and d variants are deliberately not supported.
//
// Output is a PHC formatted string:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt b64>$<digest b64>
//
// using the standard base64 alphabet without padding. Verification
// reads all parameters back out of the string itself.
type Argon2 struct {
	opts Argon2Options
}

// NewArgon2 constructs an Argon2 hasher, validating the option tuple
// against the ranges the primitive accepts. An invalid tuple is
// reported as ErrInvalidOptions so callers can tell a correctable
// request apart from an internal failure.
func NewArgon2(opts Argon2Options) (*Argon2, error) {
	if err := validateArgon2Options(opts); err != nil {
		return nil, err
	}
	return &Argon2{opts: opts}, nil
}

func validateArgon2Options(opts Argon2Options) error {
	if opts.TimeCost < 1 {
		return fmt.Errorf("%w: time_cost must be at least 1, got %d",
			ErrInvalidOptions, opts.TimeCost)
	}
	// The primitive takes an 8-bit lane count.
	if opts.Parallelism < 1 || opts.Parallelism > math.MaxUint8 {
		return fmt.Errorf("%w: parallelism must be between 1 and %d, got %d",
			ErrInvalidOptions, math.MaxUint8, opts.Parallelism)
	}
	if opts.MemoryCost < 8*opts.Parallelism {
		return fmt.Errorf("%w: memory_cost (%d KiB) must be at least 8 KiB per lane (%d KiB)",
			ErrInvalidOptions, opts.MemoryCost, 8*opts.Parallelism)
	}
	return nil
}

// Algorithm implements Hasher.
func (a *Argon2) Algorithm() string { return "argon2id" }

// Hash implements Hasher. A fresh 16-byte random salt is generated for
// every call.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password), salt,
		a.opts.TimeCost, a.opts.MemoryCost, uint8(a.opts.Parallelism),
		argon2KeyLength,
	)

	return encodeArgon2Hash(a.opts, salt, key), nil
}

// Verify implements Hasher. The digest is recomputed with the
// parameters and salt embedded in hash and compared in constant time.
// A hash that does not parse as an argon2id PHC string is reported as
// ErrInvalidHash; a parseable hash whose parameters this primitive
// cannot compute (wrong version, out-of-range lanes) is a plain error.
func (a *Argon2) Verify(password, hash string) (bool, error) {
	decoded, err := decodeArgon2Hash(hash)
	if err != nil {
		return false, err
	}

	if decoded.version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %d", decoded.version)
	}
	if err := validateArgon2Options(decoded.opts); err != nil {
		return false, fmt.Errorf("hash parameters outside supported range: %v", err)
	}

	computed := argon2.IDKey(
		[]byte(password), decoded.salt,
		decoded.opts.TimeCost, decoded.opts.MemoryCost, uint8(decoded.opts.Parallelism),
		uint32(len(decoded.key)),
	)

	return subtle.ConstantTimeCompare(computed, decoded.key) == 1, nil
}

type argon2Hash struct {
	version int
	opts    Argon2Options
	salt    []byte
	key     []byte
}

func encodeArgon2Hash(opts Argon2Options, salt, key []byte) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, opts.MemoryCost, opts.TimeCost, opts.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// decodeArgon2Hash parses a PHC string of the exact shape produced by
// encodeArgon2Hash. Structural problems and unknown algorithm tags are
// ErrInvalidHash.
func decodeArgon2Hash(encoded string) (*argon2Hash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 5 dollar-delimited segments, got %d",
			ErrInvalidHash, len(parts)-1)
	}

	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("%w: unknown algorithm tag %q", ErrInvalidHash, parts[1])
	}

	var decoded argon2Hash

	if _, err := fmt.Sscanf(parts[2], "v=%d", &decoded.version); err != nil {
		return nil, fmt.Errorf("%w: malformed version segment %q", ErrInvalidHash, parts[2])
	}

	if _, err := fmt.Sscanf(
		parts[3], "m=%d,t=%d,p=%d",
		&decoded.opts.MemoryCost, &decoded.opts.TimeCost, &decoded.opts.Parallelism,
	); err != nil {
		return nil, fmt.Errorf("%w: malformed parameter segment %q", ErrInvalidHash, parts[3])
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt encoding", ErrInvalidHash)
	}
	if len(salt) < argon2MinSaltLength {
		return nil, fmt.Errorf("%w: salt too short (%d bytes)", ErrInvalidHash, len(salt))
	}
	decoded.salt = salt

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid digest encoding", ErrInvalidHash)
	}
	if len(key) < argon2MinKeyLength {
		return nil, fmt.Errorf("%w: digest too short (%d bytes)", ErrInvalidHash, len(key))
	}
	decoded.key = key

	return &decoded, nil
}
