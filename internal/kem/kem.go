// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package kem wraps ML-KEM-768 / ML-KEM-1024 key generation, encapsulation,
// and decapsulation via cloudflare/circl's kem.Scheme registry.
//
// circl is used in place of the standard library's crypto/mlkem because
// circl's PrivateKey.MarshalBinary round-trips the full expanded ML-KEM
// secret key (2400 bytes for ML-KEM-768, 3168 for ML-KEM-1024) — matching
// the byte lengths this service's KeyPair invariants require — whereas
// crypto/mlkem only exposes a 64-byte generation seed.
//
// Callers never see a decapsulation error for a malformed-but-correctly-
// sized ciphertext: ML-KEM's implicit rejection means Decapsulate always
// succeeds, returning a pseudorandom shared secret when the ciphertext or
// key don't actually match. The only errors this package returns are for
// inputs of the wrong length or shape; the AEAD authentication step in
// internal/aead is the sole place a wrong key or corrupted ciphertext is
// actually detected.
package kem

import (
	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/schemes"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

// KeyPair holds the raw ML-KEM public and secret key bytes for one preset.
type KeyPair struct {
	PublicKey []byte
	SecretKey []byte
}

// Encapsulated holds the result of an encapsulation: the shared secret and
// the ciphertext that lets the holder of the matching secret key recover it.
type Encapsulated struct {
	SharedSecret []byte
	CipherText   []byte
}

func scheme(p preset.Preset, op string) (kem.Scheme, error) {
	name, err := p.KEMScheme()
	if err != nil {
		return nil, err
	}
	s := schemes.ByName(name)
	if s == nil {
		return nil, hyerrors.New(hyerrors.KindAlgorithmAsymmetric, op, "unknown KEM scheme: "+name).WithPreset(string(p))
	}
	return s, nil
}

// Generate creates a fresh ML-KEM key pair for preset p. Returns an error
// with [hyerrors.KindAlgorithmAsymmetric] if key generation fails.
func Generate(p preset.Preset) (KeyPair, error) {
	const op = "kem.Generate"

	s, err := scheme(p, op)
	if err != nil {
		return KeyPair{}, err
	}

	pub, priv, err := s.GenerateKeyPair()
	if err != nil {
		return KeyPair{}, hyerrors.Wrap(hyerrors.KindAlgorithmAsymmetric, op, err, "key generation failed").WithPreset(string(p))
	}

	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return KeyPair{}, hyerrors.Wrap(hyerrors.KindAlgorithmAsymmetric, op, err, "failed to marshal public key").WithPreset(string(p))
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return KeyPair{}, hyerrors.Wrap(hyerrors.KindAlgorithmAsymmetric, op, err, "failed to marshal secret key").WithPreset(string(p))
	}

	return KeyPair{PublicKey: pubBytes, SecretKey: privBytes}, nil
}

// Encapsulate generates a shared secret and a ciphertext under publicKey
// for preset p. Returns an error with [hyerrors.KindAlgorithmAsymmetric] if
// publicKey is not exactly p.KEMPublicKeyLen() bytes, or if the underlying
// scheme's encapsulation fails.
func Encapsulate(p preset.Preset, publicKey []byte) (Encapsulated, error) {
	const op = "kem.Encapsulate"

	if len(publicKey) != p.KEMPublicKeyLen() {
		return Encapsulated{}, hyerrors.New(hyerrors.KindAlgorithmAsymmetric, op, "public key has the wrong length").WithPreset(string(p))
	}

	s, err := scheme(p, op)
	if err != nil {
		return Encapsulated{}, err
	}

	pub, err := s.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return Encapsulated{}, hyerrors.Wrap(hyerrors.KindAlgorithmAsymmetric, op, err, "invalid public key encoding").WithPreset(string(p))
	}

	ct, ss, err := s.Encapsulate(pub)
	if err != nil {
		return Encapsulated{}, hyerrors.Wrap(hyerrors.KindAlgorithmAsymmetric, op, err, "encapsulation failed").WithPreset(string(p))
	}

	return Encapsulated{SharedSecret: ss, CipherText: ct}, nil
}

// Decapsulate recovers the shared secret for cipherText under secretKey for
// preset p. Only wrong-length or malformed-key inputs produce an error;
// a ciphertext that does not actually match secretKey silently yields a
// pseudorandom shared secret (implicit rejection, see package doc).
func Decapsulate(p preset.Preset, cipherText, secretKey []byte) ([]byte, error) {
	const op = "kem.Decapsulate"

	if len(secretKey) != p.KEMSecretKeyLen() {
		return nil, hyerrors.New(hyerrors.KindAlgorithmAsymmetric, op, "secret key has the wrong length").WithPreset(string(p))
	}
	if len(cipherText) != p.KEMCiphertextLen() {
		return nil, hyerrors.New(hyerrors.KindAlgorithmAsymmetric, op, "ciphertext has the wrong length").WithPreset(string(p))
	}

	s, err := scheme(p, op)
	if err != nil {
		return nil, err
	}

	priv, err := s.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindAlgorithmAsymmetric, op, err, "invalid secret key encoding").WithPreset(string(p))
	}

	ss, err := s.Decapsulate(priv, cipherText)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindAlgorithmAsymmetric, op, err, "decapsulation failed").WithPreset(string(p))
	}

	return ss, nil
}
