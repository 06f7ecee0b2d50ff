// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clientcache implements the client-side public-key cache: a
// single memoized entry keyed by base URL, refreshed over HTTP once its TTL
// elapses. Construction configures a resty.Client directly with a base
// timeout and retry count, wrapped in a small struct that owns its own
// mutex-protected state.
package clientcache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
)

// DefaultTTL is the cache entry lifetime used when Config.TTL is zero.
const DefaultTTL = 24 * time.Hour

// DefaultFetchTimeout is the HTTP request timeout used when
// Config.FetchTimeout is zero.
const DefaultFetchTimeout = 5 * time.Second

// DefaultFetchRetries is the retry count used when Config.FetchRetries is
// zero.
const DefaultFetchRetries = 3

// Config configures a [Cache]'s TTL and HTTP fetch behavior.
type Config struct {
	TTL           time.Duration
	FetchTimeout  time.Duration
	FetchRetries  int
}

// publicKeyResponse is the JSON shape GET {base_url}/public-key returns.
type publicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

// entry is the single memoized cache slot.
type entry struct {
	url        string
	publicKey  []byte
	cachedAt   time.Time
}

// Cache holds at most one cached public key at a time, keyed by base URL.
// Replacing the URL invalidates the cached bytes.
type Cache struct {
	client *resty.Client
	ttl    time.Duration

	mu    sync.Mutex
	entry entry
}

// New constructs a Cache with the given configuration, defaulting any
// zero-valued field.
func New(cfg Config) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	retries := cfg.FetchRetries
	if retries <= 0 {
		retries = DefaultFetchRetries
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries)

	return &Cache{client: client, ttl: ttl}
}

// GetKey returns the public key bytes for baseURL, fetching over HTTP if
// the cache is empty, holds a different URL, or has exceeded its TTL.
func (c *Cache) GetKey(baseURL string) ([]byte, error) {
	const op = "clientcache.GetKey"

	c.mu.Lock()
	if c.entry.url == baseURL && time.Since(c.entry.cachedAt) < c.ttl {
		key := c.entry.publicKey
		c.mu.Unlock()
		return key, nil
	}
	c.mu.Unlock()

	key, err := c.fetch(baseURL)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindPublicKeyFetch, op, err, "failed to fetch public key")
	}

	c.mu.Lock()
	c.entry = entry{url: baseURL, publicKey: key, cachedAt: time.Now()}
	c.mu.Unlock()

	return key, nil
}

func (c *Cache) fetch(baseURL string) ([]byte, error) {
	url := strings.TrimRight(baseURL, "/") + "/public-key"

	resp, err := c.client.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("public key request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("public key request returned status %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	var body publicKeyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decoding public key response: %w", err)
	}
	if body.PublicKey == "" {
		return nil, fmt.Errorf("public key response missing \"publicKey\" field")
	}

	key, err := base64.StdEncoding.DecodeString(body.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("decoding public key base64: %w", err)
	}

	return key, nil
}
