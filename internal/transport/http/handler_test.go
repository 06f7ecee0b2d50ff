package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimzord12/hybrid-kem-go/internal/hybrid"
	"github.com/jimzord12/hybrid-kem-go/internal/keymanager"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

func newTestRouter(t *testing.T) (*Handler, *keymanager.Manager) {
	t.Helper()
	certPath := t.TempDir()
	t.Chdir(certPath)
	cfg := keymanager.Config{
		Preset:                     preset.Normal,
		CertPath:                   certPath,
		KeyExpiryMonths:            12,
		AutoGenerate:               true,
		EnableFileBackup:           true,
		RotationGracePeriodMinutes: 60,
		RotationIntervalWeeks:      4,
	}
	mgr := keymanager.New(cfg, nil)
	require.NoError(t, mgr.Initialize())
	return NewHandler(mgr, nil), mgr
}

func TestHandlePublicKey_ReturnsBase64Key(t *testing.T) {
	h, mgr := newTestRouter(t)
	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/public-key", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body publicKeyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.PublicKey)

	expected, err := mgr.CurrentPublicKeyBase64()
	require.NoError(t, err)
	assert.Equal(t, expected, body.PublicKey)
}

func TestHandleRotateKeys_Returns204AndBumpsVersion(t *testing.T) {
	h, mgr := newTestRouter(t)
	router := h.Init()

	before := mgr.Status().CurrentVersion

	req := httptest.NewRequest(http.MethodPost, "/rotate-keys", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, before+1, mgr.Status().CurrentVersion)
}

func TestHandleDecrypt_RoundTripsEnvelope(t *testing.T) {
	h, mgr := newTestRouter(t)
	router := h.Init()

	pub, err := mgr.CurrentPublicKey()
	require.NoError(t, err)

	envelope, err := hybrid.Encrypt(map[string]any{"hello": "world"}, pub, preset.Normal)
	require.NoError(t, err)

	envelopeJSON, err := json.Marshal(envelope)
	require.NoError(t, err)

	reqBody, err := json.Marshal(map[string]json.RawMessage{"data": envelopeJSON})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/decrypt", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "world", payload["hello"])
}

func TestHandleDecrypt_TamperedEnvelopeReturns401(t *testing.T) {
	h, mgr := newTestRouter(t)
	router := h.Init()

	pub, err := mgr.CurrentPublicKey()
	require.NoError(t, err)

	envelope, err := hybrid.Encrypt(map[string]any{"hello": "world"}, pub, preset.Normal)
	require.NoError(t, err)
	envelope.EncryptedContent = envelope.EncryptedContent[:len(envelope.EncryptedContent)-4] + "AAAA"

	envelopeJSON, err := json.Marshal(envelope)
	require.NoError(t, err)
	reqBody, err := json.Marshal(map[string]json.RawMessage{"data": envelopeJSON})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/decrypt", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleDecrypt_MalformedBodyReturns400(t *testing.T) {
	h, _ := newTestRouter(t)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/decrypt", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
