// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jimzord12/hybrid-kem-go/internal/clientcache"
	"github.com/jimzord12/hybrid-kem-go/internal/config"
	"github.com/jimzord12/hybrid-kem-go/internal/hybrid"
	"github.com/jimzord12/hybrid-kem-go/internal/logger"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("keyclient")
	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting client configs: %v\n", err)
		os.Exit(1)
	}

	cache := clientcache.New(clientcache.Config{
		TTL:          cfg.CacheTTL,
		FetchTimeout: cfg.FetchTimeout,
		FetchRetries: cfg.FetchRetries,
	})

	log.Info().Str("url", cfg.PublicKeyURL).Msg("fetching public key")
	publicKey, err := cache.GetKey(cfg.PublicKeyURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error fetching public key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Enter a JSON payload to encrypt (one line), or Ctrl-D to exit:")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var payload any
		if err := json.Unmarshal(scanner.Bytes(), &payload); err != nil {
			fmt.Fprintf(os.Stderr, "invalid JSON: %v\n", err)
			continue
		}

		envelope, err := hybrid.Encrypt(payload, publicKey, preset.Preset(cfg.Preset))
		if err != nil {
			fmt.Fprintf(os.Stderr, "encryption failed: %v\n", err)
			continue
		}

		encoded, err := json.Marshal(envelope)
		if err != nil {
			fmt.Fprintf(os.Stderr, "encoding envelope failed: %v\n", err)
			continue
		}

		fmt.Println(string(encoded))
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
