// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
)

// kindStatusMap maps each hyerrors.Kind to the HTTP status code it
// surfaces as. A kind not listed here falls back to 500.
var kindStatusMap = map[hyerrors.Kind]int{
	hyerrors.KindValidation:              http.StatusBadRequest,
	hyerrors.KindFormat:                  http.StatusBadRequest,
	hyerrors.KindAlgorithmAsymmetric:     http.StatusBadRequest,
	hyerrors.KindAlgorithmSymmetric:      http.StatusBadRequest,
	hyerrors.KindAeadAuthFailure:         http.StatusUnauthorized,
	hyerrors.KindAlgorithmKDF:            http.StatusInternalServerError,
	hyerrors.KindKeyManagerInit:          http.StatusInternalServerError,
	hyerrors.KindKeyManagerRotation:      http.StatusInternalServerError,
	hyerrors.KindKeyManagerStorage:       http.StatusInternalServerError,
	hyerrors.KindKeyManagerRetrieval:     http.StatusServiceUnavailable,
	hyerrors.KindConfig:                  http.StatusInternalServerError,
	hyerrors.KindGracePeriodFailed:       http.StatusUnauthorized,
	hyerrors.KindPublicKeyFetch:          http.StatusBadGateway,
}

// writeError maps err to an HTTP status via its hyerrors.Kind and writes a
// JSON body carrying the kind, operation, and message — never key bytes or
// plaintext.
func writeError(w http.ResponseWriter, err error) {
	var he *hyerrors.Error
	if !errors.As(err, &he) {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status, ok := kindStatusMap[he.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]string{
		"kind":      string(he.Kind),
		"operation": he.Op,
		"message":   he.Msg,
	})
}
