// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package lifecycle implements key-pair generation, expiry, validation, and
// zeroization — the four operations a [keystore.KeyPair] goes through from
// birth to destruction. It composes the kem package the way the teacher's
// Argon2 parameter struct composes tunable hashing parameters: a small
// struct of configuration driving a handful of pure functions.
package lifecycle

import (
	"time"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/kem"
	"github.com/jimzord12/hybrid-kem-go/internal/keystore"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

// Lifecycle generates and validates key pairs for a single expiry policy.
type Lifecycle struct {
	ExpiryMonths int
}

// New returns a Lifecycle that expires generated keys after expiryMonths
// calendar months.
func New(expiryMonths int) Lifecycle {
	return Lifecycle{ExpiryMonths: expiryMonths}
}

// Generate produces a fresh key pair for p, stamped with created_at = now
// and expires_at = now + ExpiryMonths calendar months. Version is left at
// zero; the caller (the key manager, from the rotation history's next
// version) assigns it.
func (l Lifecycle) Generate(p preset.Preset) (keystore.KeyPair, error) {
	const op = "lifecycle.Generate"

	kp, err := kem.Generate(p)
	if err != nil {
		return keystore.KeyPair{}, hyerrors.Wrap(hyerrors.KindKeyManagerRotation, op, err, "failed to generate key pair").WithPreset(string(p))
	}

	now := time.Now()

	return keystore.KeyPair{
		Preset:       p,
		PublicKey:    kp.PublicKey,
		SecretKey:    kp.SecretKey,
		CreatedAt:    now,
		ExpiresAt:    now.AddDate(0, l.ExpiryMonths, 0),
		LastRotation: now,
	}, nil
}

// IsExpired reports whether now has reached or passed keys.ExpiresAt.
func IsExpired(keys keystore.KeyPair, now time.Time) bool {
	return !now.Before(keys.ExpiresAt)
}

// ValidationResult reports per-field validation status for observability.
type ValidationResult struct {
	OK     bool
	Errors []string
}

// Validate checks that keys carries non-empty public and secret keys of
// the correct length for its preset, and — when roundTrip is true —
// performs an encapsulate/decapsulate round trip against the key pair to
// confirm the secret key actually corresponds to the public key.
func Validate(keys keystore.KeyPair, roundTrip bool) ValidationResult {
	var errs []string

	if !keys.Preset.Valid() {
		errs = append(errs, "unknown preset")
		return ValidationResult{OK: false, Errors: errs}
	}

	if len(keys.PublicKey) == 0 {
		errs = append(errs, "public key is empty")
	} else if len(keys.PublicKey) != keys.Preset.KEMPublicKeyLen() {
		errs = append(errs, "public key has wrong length for preset")
	}

	if len(keys.SecretKey) == 0 {
		errs = append(errs, "secret key is empty")
	} else if len(keys.SecretKey) != keys.Preset.KEMSecretKeyLen() {
		errs = append(errs, "secret key has wrong length for preset")
	}

	if len(errs) > 0 {
		return ValidationResult{OK: false, Errors: errs}
	}

	if roundTrip {
		enc, err := kem.Encapsulate(keys.Preset, keys.PublicKey)
		if err != nil {
			errs = append(errs, "encapsulation round-trip failed: "+err.Error())
			return ValidationResult{OK: false, Errors: errs}
		}
		ss, err := kem.Decapsulate(keys.Preset, enc.CipherText, keys.SecretKey)
		if err != nil {
			errs = append(errs, "decapsulation round-trip failed: "+err.Error())
			return ValidationResult{OK: false, Errors: errs}
		}
		if !equalBytes(ss, enc.SharedSecret) {
			errs = append(errs, "round-trip shared secret mismatch: secret key does not correspond to public key")
			return ValidationResult{OK: false, Errors: errs}
		}
	}

	return ValidationResult{OK: true}
}

// Zeroize overwrites keys' public and secret key buffers with zero bytes.
// Call this once a key pair has been superseded and its grace window has
// passed, before letting it be garbage collected.
func Zeroize(keys *keystore.KeyPair) {
	if keys == nil {
		return
	}
	for i := range keys.PublicKey {
		keys.PublicKey[i] = 0
	}
	for i := range keys.SecretKey {
		keys.SecretKey[i] = 0
	}
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
