// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec implements the lowest-level primitives the hybrid encryption
// service builds on: strict Base64 encoding/decoding, UTF-8 validation,
// constant-time byte comparison, and CSPRNG byte generation. It has no
// knowledge of presets, envelopes, or key material — callers above this
// package are responsible for attaching meaning to the bytes it moves.
package codec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
)

// EncodeBase64 encodes data using the standard Base64 alphabet with padding.
// Empty input is valid and encodes to an empty string.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes s using the standard Base64 alphabet
// ([A-Za-z0-9+/] with '=' padding), rejecting any other character. Empty
// input is valid and decodes to an empty (non-nil) byte slice.
func DecodeBase64(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	// base64.StdEncoding silently skips '\r' and '\n'; reject them here.
	if strings.ContainsAny(s, "\r\n") {
		return nil, hyerrors.New(hyerrors.KindFormat, "codec.DecodeBase64", "invalid base64 encoding")
	}

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindFormat, "codec.DecodeBase64", err, "invalid base64 encoding")
	}
	return decoded, nil
}

// EncodeUTF8 returns the UTF-8 byte representation of s. Go strings are
// already UTF-8 byte sequences internally, so this is a pure type
// conversion, kept as a named operation for symmetry with DecodeUTF8 and
// to give callers one place to route both directions through.
func EncodeUTF8(s string) []byte {
	return []byte(s)
}

// DecodeUTF8 validates that data is well-formed UTF-8 and returns it as a
// string. Returns an error with [hyerrors.KindFormat] if data contains any
// invalid UTF-8 sequence.
func DecodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", hyerrors.New(hyerrors.KindFormat, "codec.DecodeUTF8", "invalid UTF-8 sequence")
	}
	return string(data), nil
}

// SecureRandomBytes returns n cryptographically random bytes read from the
// OS CSPRNG. Returns an error if the random read is short or fails.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindFormat, "codec.SecureRandomBytes", err, "failed to read random bytes")
	}
	return buf, nil
}

// ConstantTimeEqual reports whether a and b are equal using a comparison
// whose running time does not depend on where the first differing byte
// occurs. Unequal lengths are reported unequal without a timing leak beyond
// the length itself, matching [crypto/subtle.ConstantTimeCompare]'s contract.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
