// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"KEYMANAGER_PRESET":                        "high-security",
		"KEYMANAGER_CERT_PATH":                     "/var/certs",
		"KEYMANAGER_KEY_EXPIRY_MONTHS":             "6",
		"KEYMANAGER_AUTO_GENERATE":                 "false",
		"KEYMANAGER_ENABLE_FILE_BACKUP":            "false",
		"KEYMANAGER_ROTATION_GRACE_PERIOD_MINUTES": "30",
		"KEYMANAGER_ROTATION_INTERVAL_WEEKS":       "2",

		"SERVER_ADDRESS":         "localhost:8443",
		"SERVER_REQUEST_TIMEOUT": "30s",

		"CLIENT_PUBLIC_KEY_URL": "https://keyserver/public-key",
		"CLIENT_CACHE_TTL":      "1h",
		"CLIENT_FETCH_TIMEOUT":  "5s",
		"CLIENT_FETCH_RETRIES":  "3",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "high-security", cfg.KeyManager.Preset)
	assert.Equal(t, "/var/certs", cfg.KeyManager.CertPath)
	assert.Equal(t, 6, cfg.KeyManager.KeyExpiryMonths)
	assert.False(t, cfg.KeyManager.AutoGenerate)
	assert.False(t, cfg.KeyManager.EnableFileBackup)
	assert.Equal(t, 30, cfg.KeyManager.RotationGracePeriodMinutes)
	assert.Equal(t, 2, cfg.KeyManager.RotationIntervalWeeks)

	assert.Equal(t, "localhost:8443", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "https://keyserver/public-key", cfg.Client.PublicKeyURL)
	assert.Equal(t, time.Hour, cfg.Client.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Client.FetchTimeout)
	assert.Equal(t, 3, cfg.Client.FetchRetries)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"KEYMANAGER_CERT_PATH": "/partial-certs",
		"SERVER_ADDRESS":       "localhost:8443",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/partial-certs", cfg.KeyManager.CertPath)
	assert.Equal(t, "localhost:8443", cfg.Server.HTTPAddress)

	assert.Empty(t, cfg.Client.PublicKeyURL)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv_UsesDefaults(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// envDefault tags populate these even with no environment set.
	assert.Equal(t, "normal", cfg.KeyManager.Preset)
	assert.Equal(t, "./certs", cfg.KeyManager.CertPath)
	assert.Equal(t, 12, cfg.KeyManager.KeyExpiryMonths)
	assert.True(t, cfg.KeyManager.AutoGenerate)
	assert.True(t, cfg.KeyManager.EnableFileBackup)
	assert.Equal(t, 60, cfg.KeyManager.RotationGracePeriodMinutes)
	assert.Equal(t, 4, cfg.KeyManager.RotationIntervalWeeks)

	assert.Equal(t, "0.0.0.0:8443", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Empty(t, cfg.Client.PublicKeyURL)
	assert.Equal(t, 24*time.Hour, cfg.Client.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Client.FetchTimeout)
	assert.Equal(t, 3, cfg.Client.FetchRetries)

	assert.Equal(t, "", cfg.JSONFilePath)
}

func TestParseEnv_PresetIsLowercased(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"KEYMANAGER_PRESET": "HIGH-SECURITY",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "high-security", cfg.KeyManager.Preset)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CLIENT_CACHE_TTL": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"SERVER_REQUEST_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg := &StructuredConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Server.RequestTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"KEYMANAGER_PRESET",
		"KEYMANAGER_CERT_PATH",
		"KEYMANAGER_KEY_EXPIRY_MONTHS",
		"KEYMANAGER_AUTO_GENERATE",
		"KEYMANAGER_ENABLE_FILE_BACKUP",
		"KEYMANAGER_ROTATION_GRACE_PERIOD_MINUTES",
		"KEYMANAGER_ROTATION_INTERVAL_WEEKS",

		"SERVER_ADDRESS",
		"SERVER_REQUEST_TIMEOUT",

		"CLIENT_PUBLIC_KEY_URL",
		"CLIENT_CACHE_TTL",
		"CLIENT_FETCH_TIMEOUT",
		"CLIENT_FETCH_RETRIES",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
