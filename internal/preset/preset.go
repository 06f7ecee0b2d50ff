// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package preset defines the Preset enumeration that drives every algorithm
// parameter of the hybrid encryption service in one place: the KEM variant,
// KEM key/ciphertext byte lengths, AEAD key/nonce sizes, and the HKDF hash.
package preset

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
)

// Preset names an algorithm-parameter bundle chosen once per deployment.
type Preset string

const (
	// Normal selects ML-KEM-768 with a SHA-256 HKDF hash and a 12-byte AEAD
	// nonce.
	Normal Preset = "normal"

	// HighSecurity selects ML-KEM-1024 with a SHA-512 HKDF hash and a
	// 16-byte AEAD nonce.
	HighSecurity Preset = "high-security"
)

// KEMScheme names the underlying ML-KEM variant circl's scheme registry
// exposes for a given Preset.
func (p Preset) KEMScheme() (string, error) {
	switch p {
	case Normal:
		return "ML-KEM-768", nil
	case HighSecurity:
		return "ML-KEM-1024", nil
	default:
		return "", hyerrors.New(hyerrors.KindValidation, "preset.KEMScheme", "unknown preset")
	}
}

// KEMPublicKeyLen returns the ML-KEM encapsulation-key byte length for p.
func (p Preset) KEMPublicKeyLen() int {
	if p == HighSecurity {
		return 1568
	}
	return 1184
}

// KEMSecretKeyLen returns the ML-KEM decapsulation-key byte length for p.
func (p Preset) KEMSecretKeyLen() int {
	if p == HighSecurity {
		return 3168
	}
	return 2400
}

// KEMCiphertextLen returns the ML-KEM ciphertext byte length for p.
func (p Preset) KEMCiphertextLen() int {
	if p == HighSecurity {
		return 1568
	}
	return 1088
}

// SharedSecretLen returns the ML-KEM shared-secret byte length, identical
// across presets.
func (p Preset) SharedSecretLen() int {
	return 32
}

// AEADKeyLen returns the AES-GCM key byte length, identical across presets
// (256-bit key).
func (p Preset) AEADKeyLen() int {
	return 32
}

// NonceLen returns the AEAD nonce byte length for p.
func (p Preset) NonceLen() int {
	if p == HighSecurity {
		return 16
	}
	return 12
}

// HKDFHash returns the constructor for the HKDF hash function used by p.
func (p Preset) HKDFHash() func() hash.Hash {
	if p == HighSecurity {
		return sha512.New
	}
	return sha256.New
}

// Valid reports whether p is one of the known presets.
func (p Preset) Valid() bool {
	return p == Normal || p == HighSecurity
}

// String implements fmt.Stringer, returning the canonical lowercase
// kebab-case wire label.
func (p Preset) String() string {
	return string(p)
}

// Validate returns an error with [hyerrors.KindValidation] if p is not a
// known preset.
func (p Preset) Validate(op string) error {
	if !p.Valid() {
		return hyerrors.New(hyerrors.KindValidation, op, "unknown preset: "+string(p))
	}
	return nil
}
