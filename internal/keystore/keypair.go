// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keystore persists ML-KEM key pairs to disk: the raw public and
// secret key binaries, their metadata, and a backup directory of superseded
// keys; the rotation history is kept by the rotation package. It generalizes the teacher's
// file-backed vault storage stub into a complete binary-file store with
// atomic writes and restrictive permissions.
package keystore

import (
	"time"

	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

// KeyPair is the full in-memory representation of one generated key pair,
// including the metadata the store persists alongside the raw key bytes.
type KeyPair struct {
	Preset       preset.Preset
	PublicKey    []byte
	SecretKey    []byte
	Version      uint32
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastRotation time.Time
}

// Metadata is the JSON shape written to key-metadata.json.
type Metadata struct {
	Preset         preset.Preset `json:"preset"`
	Version        uint32        `json:"version"`
	CreatedAt      time.Time     `json:"created_at"`
	LastRotation   time.Time     `json:"last_rotation"`
	PublicKeyPath  string        `json:"public_key_path"`
	PrivateKeyPath string        `json:"private_key_path"`
}
