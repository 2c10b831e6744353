package internal

import (
	"io/ioutil"

	"github.com/goccy/go-yaml"

	"github.com/mstephen77/cryptoflare"
	"github.com/mstephen77/cryptoflare/internal/hashers"
)

var version SoftwareConfig

func init() {
	version = SoftwareConfig{
		Software:    "cryptoflared",
		Author:      "Cryptoflare",
		Copyright:   "Copyright (C) 2023-present Cryptoflare Authors",
		License:     "MIT License",
		FullVersion: cryptoflare.FullVersion(),
		Version:     cryptoflare.Version,
		Commit:      cryptoflare.Commit,
	}
}

// Settings contains hashing defaults that can be customised via a YAML
// file without rebuilding the daemon. Zero values leave the built-in
// default untouched.
type Settings struct {
	Argon2MemoryCost  uint32 `yaml:"argon2_memory_cost"`
	Argon2TimeCost    uint32 `yaml:"argon2_time_cost"`
	Argon2Parallelism uint32 `yaml:"argon2_parallelism"`
	BcryptWorkFactor  uint32 `yaml:"bcrypt_work_factor"`
	MaxRequestSize    int64  `yaml:"max_request_size"`
}

// SoftwareConfig contains the server version information
type SoftwareConfig struct {
	Software string

	FullVersion string
	Version     string
	Commit      string

	Author    string
	License   string
	Copyright string
}

// Config contains the server configuration parameters
type Config struct {
	Version SoftwareConfig

	Debug bool

	// Argon2Defaults and BcryptWorkFactor apply when a hash request
	// carries no options of its own.
	Argon2Defaults   hashers.Argon2Options
	BcryptWorkFactor uint32

	MaxRequestSize int64
}

// LoadSettings loads server settings from the given path
func LoadSettings(path string) (*Settings, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}
