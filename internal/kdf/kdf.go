// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package kdf wraps HKDF key derivation for the hybrid encryption service.
// It derives a 32-byte AEAD key from an ML-KEM shared secret using a
// deterministic, self-derived salt so that the decrypting party never needs
// the salt transmitted alongside the ciphertext: it recomputes the same
// salt from the same shared secret.
package kdf

import (
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

const (
	saltInfo = "HKDF-SALT-DERIVATION"
	keyInfo  = "HybridEncryption-v2.0"

	minSharedSecretLen = 16
	derivedKeyLen      = 32
)

// DeriveKey derives the 32-byte AEAD key used to encrypt or decrypt an
// envelope under p from sharedSecret, the ML-KEM shared secret produced by
// encapsulation or decapsulation.
//
// Derivation is two steps, both over the hash preset p selects:
//  1. salt = HKDF(ikm=sharedSecret, salt=nil, info="HKDF-SALT-DERIVATION",
//     L = 32 for [preset.Normal], 64 for [preset.HighSecurity])
//  2. key = HKDF(ikm=sharedSecret, salt=salt, info="HybridEncryption-v2.0", L=32)
//
// Both info strings are fixed constants and must never vary per message:
// varying them would break the decrypting side's ability to recompute the
// same salt and key from the same shared secret.
//
// Returns an error with [hyerrors.KindValidation] if sharedSecret is shorter
// than 16 bytes, or [hyerrors.KindAlgorithmKDF] if the underlying HKDF
// expansion fails.
func DeriveKey(p preset.Preset, sharedSecret []byte) ([]byte, error) {
	const op = "kdf.DeriveKey"

	if len(sharedSecret) < minSharedSecretLen {
		return nil, hyerrors.New(hyerrors.KindValidation, op, "shared secret shorter than 16 bytes").WithPreset(string(p))
	}

	saltLen := 32
	if p == preset.HighSecurity {
		saltLen = 64
	}

	salt, err := expand(p, sharedSecret, nil, saltInfo, saltLen)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindAlgorithmKDF, op, err, "failed to derive salt").WithPreset(string(p))
	}

	key, err := expand(p, sharedSecret, salt, keyInfo, derivedKeyLen)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindAlgorithmKDF, op, err, "failed to derive key").WithPreset(string(p))
	}

	return key, nil
}

func expand(p preset.Preset, ikm, salt []byte, info string, length int) ([]byte, error) {
	reader := hkdf.New(p.HKDFHash(), ikm, salt, []byte(info))
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
