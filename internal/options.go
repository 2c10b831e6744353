// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package internal

import (
	"github.com/mstephen77/cryptoflare/internal/hashers"
)

const (
	// DefaultDebug is the default debug mode
	DefaultDebug = false

	// DefaultBind is the default bind address to listen on
	DefaultBind = "0.0.0.0:8000"

	// DefaultMaxRequestSize is the default maximum size of an inbound
	// request body (1 MB)
	DefaultMaxRequestSize = 1 << 20
)

// NewConfig returns a default configuration
func NewConfig() *Config {
	return &Config{
		Version: version,

		Debug: DefaultDebug,

		Argon2Defaults:   hashers.DefaultArgon2Options(),
		BcryptWorkFactor: hashers.DefaultBcryptWorkFactor,

		MaxRequestSize: DefaultMaxRequestSize,
	}
}

// Option is a function that takes a config struct and modifies it
type Option func(*Config) error

// WithDebug sets the debug mode flag
func WithDebug(debug bool) Option {
	return func(cfg *Config) error {
		cfg.Debug = debug
		return nil
	}
}

// WithArgon2Defaults sets the Argon2id parameters used when a hash
// request carries no options
func WithArgon2Defaults(opts hashers.Argon2Options) Option {
	return func(cfg *Config) error {
		cfg.Argon2Defaults = opts
		return nil
	}
}

// WithBcryptWorkFactor sets the bcrypt cost used when a hash request
// carries no options
func WithBcryptWorkFactor(workFactor uint32) Option {
	return func(cfg *Config) error {
		cfg.BcryptWorkFactor = workFactor
		return nil
	}
}

// WithMaxRequestSize sets the maximum size of an inbound request body
func WithMaxRequestSize(size int64) Option {
	return func(cfg *Config) error {
		cfg.MaxRequestSize = size
		return nil
	}
}

// WithSettings loads a settings file and overrides the hashing
// defaults with any non-zero values it contains
func WithSettings(path string) Option {
	return func(cfg *Config) error {
		settings, err := LoadSettings(path)
		if err != nil {
			return err
		}

		if settings.Argon2MemoryCost > 0 {
			cfg.Argon2Defaults.MemoryCost = settings.Argon2MemoryCost
		}
		if settings.Argon2TimeCost > 0 {
			cfg.Argon2Defaults.TimeCost = settings.Argon2TimeCost
		}
		if settings.Argon2Parallelism > 0 {
			cfg.Argon2Defaults.Parallelism = settings.Argon2Parallelism
		}
		if settings.BcryptWorkFactor > 0 {
			cfg.BcryptWorkFactor = settings.BcryptWorkFactor
		}
		if settings.MaxRequestSize > 0 {
			cfg.MaxRequestSize = settings.MaxRequestSize
		}

		return nil
	}
}
