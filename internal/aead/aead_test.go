package aead

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jimzord12/hybrid-kem-go/internal/codec"
	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	for _, p := range []preset.Preset{preset.Normal, preset.HighSecurity} {
		key, err := codec.SecureRandomBytes(p.AEADKeyLen())
		require.NoError(t, err)
		nonce, err := codec.SecureRandomBytes(p.NonceLen())
		require.NoError(t, err)

		plain := []byte("the quick brown fox jumps over the lazy dog")

		ct, err := Seal(p, key, nonce, plain, nil)
		require.NoError(t, err)

		out, err := Open(p, key, nonce, ct, nil)
		require.NoError(t, err)
		require.Equal(t, plain, out)
	}
}

func TestOpen_TamperedCipherTextFailsAuth(t *testing.T) {
	key, err := codec.SecureRandomBytes(preset.Normal.AEADKeyLen())
	require.NoError(t, err)
	nonce, err := codec.SecureRandomBytes(preset.Normal.NonceLen())
	require.NoError(t, err)

	ct, err := Seal(preset.Normal, key, nonce, []byte("secret payload"), nil)
	require.NoError(t, err)

	tampered := append([]byte{}, ct...)
	tampered[0] ^= 0x01

	_, err = Open(preset.Normal, key, nonce, tampered, nil)
	require.Error(t, err)
	require.True(t, hyerrors.Is(err, hyerrors.KindAeadAuthFailure))
}

func TestOpen_WrongKeyFailsAuth(t *testing.T) {
	keyA, err := codec.SecureRandomBytes(preset.Normal.AEADKeyLen())
	require.NoError(t, err)
	keyB, err := codec.SecureRandomBytes(preset.Normal.AEADKeyLen())
	require.NoError(t, err)
	nonce, err := codec.SecureRandomBytes(preset.Normal.NonceLen())
	require.NoError(t, err)

	ct, err := Seal(preset.Normal, keyA, nonce, []byte("secret payload"), nil)
	require.NoError(t, err)

	_, err = Open(preset.Normal, keyB, nonce, ct, nil)
	require.Error(t, err)
	require.True(t, hyerrors.Is(err, hyerrors.KindAeadAuthFailure))
}

func TestSeal_RejectsWrongLengthKey(t *testing.T) {
	nonce, err := codec.SecureRandomBytes(preset.Normal.NonceLen())
	require.NoError(t, err)

	_, err = Seal(preset.Normal, make([]byte, 10), nonce, []byte("x"), nil)
	require.Error(t, err)
	require.True(t, hyerrors.Is(err, hyerrors.KindAlgorithmSymmetric))
}

func TestSeal_RejectsWrongLengthNonce(t *testing.T) {
	key, err := codec.SecureRandomBytes(preset.Normal.AEADKeyLen())
	require.NoError(t, err)

	_, err = Seal(preset.Normal, key, make([]byte, 3), []byte("x"), nil)
	require.Error(t, err)
	require.True(t, hyerrors.Is(err, hyerrors.KindAlgorithmSymmetric))
}
