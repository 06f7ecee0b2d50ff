// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/jimzord12/hybrid-kem-go/internal/hybrid"
)

type publicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

func (h *Handler) handlePublicKey(w http.ResponseWriter, r *http.Request) {
	encoded, err := h.keys.CurrentPublicKeyBase64()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, publicKeyResponse{PublicKey: encoded})
}

func (h *Handler) handleRotateKeys(w http.ResponseWriter, r *http.Request) {
	if err := h.rotate(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decryptRequest is the envelope of the request body the decrypt endpoint
// accepts: data is either a JSON object matching [hybrid.EncryptedEnvelope]
// or a JSON-stringified encoding of the same.
type decryptRequest struct {
	Data json.RawMessage `json:"data"`
}

func (h *Handler) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req decryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	envelope, err := parseEnvelope(req.Data)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "data field is not a valid encrypted envelope")
		return
	}

	payload, err := h.decryptEnvelope(envelope)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// parseEnvelope decodes data either as a direct JSON object or, when it is
// itself a JSON string, as a JSON-stringified envelope nested one level
// deeper — per the spec's "<envelope or JSON-stringified envelope>"
// allowance.
func parseEnvelope(data json.RawMessage) (hybrid.EncryptedEnvelope, error) {
	var envelope hybrid.EncryptedEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Preset != "" {
		return envelope, nil
	}

	var nested string
	if err := json.Unmarshal(data, &nested); err != nil {
		return hybrid.EncryptedEnvelope{}, err
	}
	if err := json.Unmarshal([]byte(nested), &envelope); err != nil {
		return hybrid.EncryptedEnvelope{}, err
	}

	return envelope, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
