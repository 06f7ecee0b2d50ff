// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package hybrid orchestrates the KEM, KDF, and AEAD primitives into the
// hybrid encrypt/decrypt operations the rest of the service builds on. It
// owns the encrypted-envelope wire format and the grace-period multi-key
// decrypt that lets an in-flight ciphertext, encrypted under a key that has
// since rotated out, still be recovered during the grace window.
package hybrid

import (
	"fmt"

	"github.com/jimzord12/hybrid-kem-go/internal/aead"
	"github.com/jimzord12/hybrid-kem-go/internal/codec"
	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/kdf"
	"github.com/jimzord12/hybrid-kem-go/internal/kem"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
	"github.com/jimzord12/hybrid-kem-go/internal/serializer"
)

// Encrypt serializes payload, encapsulates a fresh shared secret under
// publicKey, derives an AEAD key from it, and seals the serialized payload
// under a freshly drawn random nonce, returning the resulting envelope.
func Encrypt(payload any, publicKey []byte, p preset.Preset) (EncryptedEnvelope, error) {
	const op = "hybrid.Encrypt"

	if err := p.Validate(op); err != nil {
		return EncryptedEnvelope{}, err
	}
	if len(publicKey) != p.KEMPublicKeyLen() {
		return EncryptedEnvelope{}, hyerrors.New(hyerrors.KindValidation, op, "public key length does not match preset").WithPreset(string(p))
	}

	plainText, err := serializer.Encode(payload)
	if err != nil {
		return EncryptedEnvelope{}, err
	}

	enc, err := kem.Encapsulate(p, publicKey)
	if err != nil {
		return EncryptedEnvelope{}, err
	}

	key, err := kdf.DeriveKey(p, enc.SharedSecret)
	if err != nil {
		return EncryptedEnvelope{}, err
	}

	nonce, err := codec.SecureRandomBytes(p.NonceLen())
	if err != nil {
		return EncryptedEnvelope{}, hyerrors.Wrap(hyerrors.KindAlgorithmSymmetric, op, err, "failed to draw a random nonce").WithPreset(string(p))
	}

	content, err := aead.Seal(p, key, nonce, plainText, nil)
	if err != nil {
		return EncryptedEnvelope{}, err
	}

	envelope := EncryptedEnvelope{
		Preset:           p,
		CipherText:       codec.EncodeBase64(enc.CipherText),
		Nonce:            codec.EncodeBase64(nonce),
		EncryptedContent: codec.EncodeBase64(content),
	}

	if _, err := validateAndDecode(envelope); err != nil {
		return EncryptedEnvelope{}, err
	}

	return envelope, nil
}

// Decrypt recovers the original payload from envelope using secretKey. It
// validates the envelope shape before any cryptographic operation runs;
// the only point at which a wrong key or tampered ciphertext is actually
// detected is the AEAD authentication check inside aead.Open.
func Decrypt(envelope EncryptedEnvelope, secretKey []byte) (any, error) {
	const op = "hybrid.Decrypt"

	d, err := validateAndDecode(envelope)
	if err != nil {
		return nil, err
	}
	if len(secretKey) != d.preset.KEMSecretKeyLen() {
		return nil, hyerrors.New(hyerrors.KindValidation, op, "secret key length does not match preset").WithPreset(string(d.preset))
	}

	ss, err := kem.Decapsulate(d.preset, d.cipherText, secretKey)
	if err != nil {
		return nil, err
	}

	key, err := kdf.DeriveKey(d.preset, ss)
	if err != nil {
		return nil, err
	}

	plainText, err := aead.Open(d.preset, key, d.nonce, d.content, nil)
	if err != nil {
		return nil, err
	}

	return serializer.Decode(plainText)
}

// DecryptWithGrace tries secretKeys in order — ordinarily [current,
// previous] during a rotation grace window — returning the first
// successful decryption. If every key fails, it surfaces a single
// [hyerrors.KindGracePeriodFailed] error carrying the last underlying
// cause and the number of keys attempted.
func DecryptWithGrace(envelope EncryptedEnvelope, secretKeys [][]byte) (any, error) {
	const op = "hybrid.DecryptWithGrace"

	if len(secretKeys) == 0 {
		return nil, hyerrors.New(hyerrors.KindValidation, op, "no secret keys supplied").WithPreset(string(envelope.Preset))
	}

	var lastErr error
	for _, sk := range secretKeys {
		payload, err := Decrypt(envelope, sk)
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}

	return nil, hyerrors.Wrap(
		hyerrors.KindGracePeriodFailed,
		op,
		lastErr,
		fmt.Sprintf("all %d candidate key(s) failed to decrypt", len(secretKeys)),
	).WithPreset(string(envelope.Preset))
}
