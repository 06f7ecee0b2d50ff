// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport layer exposed by the key
// server: public key distribution, manual rotation, and decryption of
// client-submitted envelopes. It follows the teacher's internal/handler/http
// convention — a [Handler] struct holding the domain collaborators, with
// route registration split into its own file.
package http

import (
	"github.com/jimzord12/hybrid-kem-go/internal/hybrid"
	"github.com/jimzord12/hybrid-kem-go/internal/keymanager"
	"github.com/jimzord12/hybrid-kem-go/internal/logger"
	"github.com/jimzord12/hybrid-kem-go/internal/rotation"
)

// Handler is the root HTTP handler wiring the key manager and hybrid
// engine into the service's route groups.
//
// Handler is constructed once at startup via [NewHandler]; it is not safe
// to copy after construction.
type Handler struct {
	keys   *keymanager.Manager
	logger *logger.Logger
}

// NewHandler constructs a [Handler] bound to the given key manager and
// logger. keys must already be initialized.
func NewHandler(keys *keymanager.Manager, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	log.Debug().Msg("http handler created")
	return &Handler{keys: keys, logger: log}
}

// decryptEnvelope decrypts envelope with hybrid.DecryptWithGrace against
// every key the key manager currently offers (the current key plus, during
// a grace window, the previous one).
func (h *Handler) decryptEnvelope(envelope hybrid.EncryptedEnvelope) (any, error) {
	secretKeys, err := h.keys.DecryptionKeys()
	if err != nil {
		return nil, err
	}
	payload, err := hybrid.DecryptWithGrace(envelope, secretKeys)
	if err != nil {
		h.logger.WithPreset(string(envelope.Preset)).Warn().Err(err).Msg("envelope decryption failed")
		return nil, err
	}
	return payload, nil
}

// rotate triggers a manual rotation via the key manager.
func (h *Handler) rotate() error {
	h.logger.Info().Msg("manual key rotation requested")
	return h.keys.RotateKeys(rotation.ManualRotation)
}
