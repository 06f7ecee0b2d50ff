// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package aead wraps AES-256-GCM, taking the nonce as an explicit argument
// rather than generating or storing one internally. This mirrors how the
// hybrid envelope carries its own nonce field alongside the ciphertext, so
// the caller — internal/hybrid — owns nonce freshness.
package aead

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

// Seal encrypts plainText under key using nonce, authenticating
// additionalData if present. Returns an error with
// [hyerrors.KindAlgorithmSymmetric] if key or nonce has the wrong length
// for p, or if the underlying cipher cannot be constructed.
func Seal(p preset.Preset, key, nonce, plainText, additionalData []byte) ([]byte, error) {
	const op = "aead.Seal"

	gcm, err := newGCM(p, key, nonce, op)
	if err != nil {
		return nil, err
	}

	return gcm.Seal(nil, nonce, plainText, additionalData), nil
}

// Open decrypts cipherText under key using nonce, verifying
// additionalData if present. Returns an error with
// [hyerrors.KindAlgorithmSymmetric] if key or nonce has the wrong length
// for p, or [hyerrors.KindAeadAuthFailure] if authentication fails — the
// latter is the only place a wrong key or tampered ciphertext is ever
// actually detected in the hybrid pipeline.
func Open(p preset.Preset, key, nonce, cipherText, additionalData []byte) ([]byte, error) {
	const op = "aead.Open"

	gcm, err := newGCM(p, key, nonce, op)
	if err != nil {
		return nil, err
	}

	plain, err := gcm.Open(nil, nonce, cipherText, additionalData)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindAeadAuthFailure, op, err, "authentication failed").WithPreset(string(p))
	}

	return plain, nil
}

func newGCM(p preset.Preset, key, nonce []byte, op string) (cipher.AEAD, error) {
	if len(key) != p.AEADKeyLen() {
		return nil, hyerrors.New(hyerrors.KindAlgorithmSymmetric, op, "key has the wrong length").WithPreset(string(p))
	}
	if len(nonce) != p.NonceLen() {
		return nil, hyerrors.New(hyerrors.KindAlgorithmSymmetric, op, "nonce has the wrong length").WithPreset(string(p))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindAlgorithmSymmetric, op, err, "failed to construct AES cipher").WithPreset(string(p))
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, len(nonce))
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindAlgorithmSymmetric, op, err, "failed to construct GCM mode").WithPreset(string(p))
	}

	return gcm, nil
}
