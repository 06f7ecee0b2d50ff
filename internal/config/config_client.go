package config

import (
	"fmt"
	"time"
)

// ClientConfig is the flattened client-side view of [StructuredConfig]: the
// subset of settings a public-key cache and its HTTP fetcher need.
type ClientConfig struct {
	// Preset must match the server's KeyManager preset; it selects the
	// algorithm parameters the client uses when encrypting.
	Preset string
	// PublicKeyURL is the key server's base URL; the cache fetches the
	// current public key from its /public-key path.
	PublicKeyURL string
	// CacheTTL bounds how long a fetched public key is reused.
	CacheTTL time.Duration
	// FetchTimeout bounds a single HTTP fetch of the public key.
	FetchTimeout time.Duration
	// FetchRetries is how many additional attempts follow an initial
	// failed fetch.
	FetchRetries int
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client cache, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Preset:       cfg.KeyManager.Preset,
		PublicKeyURL: cfg.Client.PublicKeyURL,
		CacheTTL:     cfg.Client.CacheTTL,
		FetchTimeout: cfg.Client.FetchTimeout,
		FetchRetries: cfg.Client.FetchRetries,
	}

	return clientCfg, clientCfg.validate()
}
