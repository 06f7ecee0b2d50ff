// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init constructs a fully configured [chi.Mux] exposing the key server's
// three routes:
//
//	GET  /public-key    — current public key, base64-encoded, public.
//	POST /rotate-keys   — trigger a manual rotation, 204 on success.
//	POST /decrypt       — decrypt a client-submitted envelope.
//
// Every request passes through [middleware.Recoverer] so a panic in a
// handler returns HTTP 500 instead of crashing the process.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/public-key", h.handlePublicKey)
	router.Post("/rotate-keys", h.handleRotateKeys)
	router.Post("/decrypt", h.handleDecrypt)

	return router
}
