// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package hyerrors implements the cross-cutting error taxonomy used by every
// layer of the hybrid encryption service: the codec, serializer, KDF, KEM,
// AEAD, hybrid engine, key store, rotation history, lifecycle, key manager,
// and client cache all return a *hyerrors.Error rather than an ad-hoc
// sentinel, so that callers at any layer can switch on [Kind] without
// knowing which package produced the failure.
package hyerrors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of failure. Kind values are comparable and
// exhaustive: every error this service returns carries exactly one.
type Kind string

const (
	// KindValidation marks inputs malformed at an API boundary: wrong shape,
	// empty envelope fields, a non-serializable payload.
	KindValidation Kind = "validation"

	// KindFormat marks a Base64/UTF-8 decode failure or a JSON parse failure.
	KindFormat Kind = "format"

	// KindAlgorithmAsymmetric marks a KEM key or ciphertext of the wrong length.
	KindAlgorithmAsymmetric Kind = "algorithm_asymmetric"

	// KindAlgorithmSymmetric marks an AEAD key or nonce of the wrong length.
	KindAlgorithmSymmetric Kind = "algorithm_symmetric"

	// KindAeadAuthFailure marks an AEAD authentication failure: wrong key,
	// corrupted ciphertext, or a tampered tag.
	KindAeadAuthFailure Kind = "aead_auth_failure"

	// KindAlgorithmKDF marks an internal KDF failure or invalid parameters.
	KindAlgorithmKDF Kind = "algorithm_kdf"

	// KindKeyManagerInit marks a failed key-manager initialization: missing
	// keys with auto-generate disabled, an unreachable cert directory, or
	// invalid configuration.
	KindKeyManagerInit Kind = "key_manager_initialization"

	// KindKeyManagerRotation marks a failure during generation, validation,
	// or persistence of a new key pair during rotation.
	KindKeyManagerRotation Kind = "key_manager_rotation"

	// KindKeyManagerStorage marks a filesystem error during save, load, or
	// backup of key material.
	KindKeyManagerStorage Kind = "key_manager_storage"

	// KindKeyManagerRetrieval marks the absence of any usable key pair after
	// ensure_valid_keys has run.
	KindKeyManagerRetrieval Kind = "key_manager_retrieval"

	// KindConfig marks an invalid configuration parameter.
	KindConfig Kind = "config"

	// KindGracePeriodFailed wraps every attempted key's last error when
	// grace-period multi-key decryption exhausts its candidates.
	KindGracePeriodFailed Kind = "grace_period_decryption_failed"

	// KindPublicKeyFetch marks a client-side public-key HTTP fetch failure
	// or a malformed response body.
	KindPublicKeyFetch Kind = "public_key_fetch"
)

// Error is the single error type returned by the packages listed in the
// package doc; config, server and transport return plain errors.
// It never embeds key material or plaintext — only the kind, the operation
// name, an optional preset label, and the underlying cause.
type Error struct {
	// Kind categorizes the failure; see the Kind* constants.
	Kind Kind
	// Op names the operation that failed, e.g. "hybrid.Encrypt" or
	// "keystore.Load".
	Op string
	// Preset is the preset label in effect when the error occurred, if any.
	Preset string
	// Err is the underlying cause, if any. May be nil for pure validation
	// failures that carry only a human-readable Msg.
	Err error
	// Msg is a human-readable description safe to surface to a caller. It
	// never contains key bytes or plaintext.
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

// Unwrap allows errors.Is and errors.As to see through to the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an *Error with no underlying cause, used for pure
// validation failures detected before any call into a lower layer.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap constructs an *Error around an existing cause.
func Wrap(kind Kind, op string, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err, Msg: msg}
}

// WithPreset returns a copy of e with Preset set, useful when a preset label
// is only known at the call site that constructs the final error.
func (e *Error) WithPreset(preset string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Preset = preset
	return &cp
}

// Is reports whether err carries the given Kind, walking the chain via
// errors.As so wrapped errors are still recognized.
func Is(err error, kind Kind) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind == kind
	}
	return false
}
