// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package hybrid

import (
	"github.com/jimzord12/hybrid-kem-go/internal/codec"
	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

// EncryptedEnvelope is the wire format a client ships to a server: the four
// Base64 fields required to recover the original payload given the matching
// secret key. Field names and casing are fixed by the external JSON
// contract and must not change.
type EncryptedEnvelope struct {
	Preset           preset.Preset `json:"preset"`
	CipherText       string        `json:"cipherText"`
	Nonce            string        `json:"nonce"`
	EncryptedContent string        `json:"encryptedContent"`
}

// decoded holds an envelope's four fields after Base64 decoding, along with
// the preset they were validated against.
type decoded struct {
	preset     preset.Preset
	cipherText []byte
	nonce      []byte
	content    []byte
}

// validateAndDecode checks that all four envelope fields are present,
// non-empty, decodable, and that their decoded lengths match e.Preset. The
// engine runs it before any decryption touches the fields, and on the
// freshly assembled envelope before Encrypt returns it.
func validateAndDecode(e EncryptedEnvelope) (decoded, error) {
	const op = "hybrid.validateEnvelope"

	if err := e.Preset.Validate(op); err != nil {
		return decoded{}, err
	}

	if e.CipherText == "" || e.Nonce == "" || e.EncryptedContent == "" {
		return decoded{}, hyerrors.New(hyerrors.KindValidation, op, "envelope is missing one or more required fields").WithPreset(string(e.Preset))
	}

	ct, err := codec.DecodeBase64(e.CipherText)
	if err != nil {
		return decoded{}, hyerrors.Wrap(hyerrors.KindValidation, op, err, "cipherText is not valid base64").WithPreset(string(e.Preset))
	}
	nonce, err := codec.DecodeBase64(e.Nonce)
	if err != nil {
		return decoded{}, hyerrors.Wrap(hyerrors.KindValidation, op, err, "nonce is not valid base64").WithPreset(string(e.Preset))
	}
	content, err := codec.DecodeBase64(e.EncryptedContent)
	if err != nil {
		return decoded{}, hyerrors.Wrap(hyerrors.KindValidation, op, err, "encryptedContent is not valid base64").WithPreset(string(e.Preset))
	}

	if len(ct) != e.Preset.KEMCiphertextLen() {
		return decoded{}, hyerrors.New(hyerrors.KindValidation, op, "cipherText length does not match preset").WithPreset(string(e.Preset))
	}
	if len(nonce) != e.Preset.NonceLen() {
		return decoded{}, hyerrors.New(hyerrors.KindValidation, op, "nonce length does not match preset").WithPreset(string(e.Preset))
	}
	if len(content) < 16 {
		return decoded{}, hyerrors.New(hyerrors.KindValidation, op, "encryptedContent is shorter than the auth tag").WithPreset(string(e.Preset))
	}

	return decoded{preset: e.Preset, cipherText: ct, nonce: nonce, content: content}, nil
}
