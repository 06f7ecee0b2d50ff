// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// hybrid encryption service. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// KeyManager holds key-lifecycle settings: preset, persistence path,
	// expiry, rotation schedule, and grace period.
	KeyManager KeyManager `envPrefix:"KEYMANAGER_"`

	// Server holds network address and timeout settings for the HTTP
	// transport exposing the key server's public endpoints.
	Server Server `envPrefix:"SERVER_"`

	// Client holds settings for the client-side public-key cache and its
	// HTTP fetcher. Populated only for cmd/keyclient.
	Client Client `envPrefix:"CLIENT_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// KeyManager mirrors the service's KeyManagerConfig: the enumerated options
// that drive key generation, persistence, and rotation.
type KeyManager struct {
	// Preset selects the algorithm-parameter bundle ("normal" or
	// "high-security"). Env: KEYMANAGER_PRESET
	Preset string `env:"PRESET" envDefault:"normal"`

	// CertPath is the directory under which the key store's public key,
	// secret key, metadata, rotation history, and backups are written.
	// Env: KEYMANAGER_CERT_PATH
	CertPath string `env:"CERT_PATH" envDefault:"./certs"`

	// KeyExpiryMonths is how many calendar months a generated key pair
	// remains valid before it is considered expired. Must be > 0.
	// Env: KEYMANAGER_KEY_EXPIRY_MONTHS
	KeyExpiryMonths int `env:"KEY_EXPIRY_MONTHS" envDefault:"12"`

	// AutoGenerate, when true, generates a fresh key pair if none is found
	// on disk at startup instead of failing.
	// Env: KEYMANAGER_AUTO_GENERATE
	AutoGenerate bool `env:"AUTO_GENERATE" envDefault:"true"`

	// EnableFileBackup, when true, copies the previous key pair into
	// certs/backup/ before each rotation.
	// Env: KEYMANAGER_ENABLE_FILE_BACKUP
	EnableFileBackup bool `env:"ENABLE_FILE_BACKUP" envDefault:"true"`

	// RotationGracePeriodMinutes is how long, after a rotation, the
	// previous key pair remains usable for decryption. Must be >= 0.
	// Env: KEYMANAGER_ROTATION_GRACE_PERIOD_MINUTES
	RotationGracePeriodMinutes int `env:"ROTATION_GRACE_PERIOD_MINUTES" envDefault:"60"`

	// RotationIntervalWeeks is how often the background rotation runner
	// triggers an automatic rotation. Must be within 1..=30.
	// Env: KEYMANAGER_ROTATION_INTERVAL_WEEKS
	RotationIntervalWeeks int `env:"ROTATION_INTERVAL_WEEKS" envDefault:"4"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8443").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" envDefault:"0.0.0.0:8443"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Client holds settings for a remote consumer of the key server's public
// key, including its local cache and HTTP fetcher.
type Client struct {
	// PublicKeyURL is the key server's base URL (e.g.
	// "https://keyserver.internal"); the client cache fetches the current
	// public key from its /public-key path.
	// Env: CLIENT_PUBLIC_KEY_URL
	PublicKeyURL string `env:"PUBLIC_KEY_URL"`

	// CacheTTL bounds how long a fetched public key is reused before the
	// client refetches it. Defaults to 86,400,000ms (24h).
	// Env: CLIENT_CACHE_TTL
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	// FetchTimeout bounds a single HTTP fetch of the public key.
	// Env: CLIENT_FETCH_TIMEOUT
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"5s"`

	// FetchRetries is how many additional attempts the client makes after
	// an initial failed fetch.
	// Env: CLIENT_FETCH_RETRIES
	FetchRetries int `env:"FETCH_RETRIES" envDefault:"3"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
