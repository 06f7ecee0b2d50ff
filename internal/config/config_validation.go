// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// key manager's enumerated invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.KeyManager.Preset != "normal" && cfg.KeyManager.Preset != "high-security" {
		return ErrInvalidKeyManagerConfigs
	}

	if cfg.KeyManager.CertPath == "" {
		return ErrInvalidKeyManagerConfigs
	}

	if cfg.KeyManager.KeyExpiryMonths <= 0 {
		return ErrInvalidKeyManagerConfigs
	}

	if cfg.KeyManager.RotationGracePeriodMinutes < 0 {
		return ErrInvalidKeyManagerConfigs
	}

	if cfg.KeyManager.RotationIntervalWeeks < 1 || cfg.KeyManager.RotationIntervalWeeks > 30 {
		return ErrInvalidKeyManagerConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}

// validate checks that the final merged [ClientConfig] satisfies the
// client cache's invariants.
func (cfg *ClientConfig) validate() error {
	if cfg.PublicKeyURL == "" {
		return ErrInvalidClientConfigs
	}

	if cfg.CacheTTL <= 0 {
		return ErrInvalidClientConfigs
	}

	if cfg.FetchTimeout <= 0 {
		return ErrInvalidClientConfigs
	}

	if cfg.FetchRetries < 0 {
		return ErrInvalidClientConfigs
	}

	return nil
}
