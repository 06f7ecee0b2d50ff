package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] and
// [ClientConfig.validate] when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidKeyManagerConfigs indicates invalid key-manager settings
	// (for example, an unknown preset, empty cert path, or an
	// out-of-range rotation interval).
	ErrInvalidKeyManagerConfigs = errors.New("invalid key manager configuration")
	// ErrInvalidServerConfigs indicates invalid server transport settings
	// (for example, a missing HTTP address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidClientConfigs indicates invalid client cache/transport
	// settings (for example, a missing public key URL or non-positive
	// timeout).
	ErrInvalidClientConfigs = errors.New("invalid client configuration")
)
