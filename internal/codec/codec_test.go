package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase64_EmptyRoundTrip(t *testing.T) {
	encoded := EncodeBase64(nil)
	require.Equal(t, "", encoded)

	decoded, err := DecodeBase64("")
	require.NoError(t, err)
	require.Equal(t, []byte{}, decoded)
}

func TestBase64_RoundTrip(t *testing.T) {
	data := []byte("hybrid-encryption-service")

	encoded := EncodeBase64(data)
	decoded, err := DecodeBase64(encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestDecodeBase64_RejectsInvalidAlphabet(t *testing.T) {
	_, err := DecodeBase64("not base64!!")
	require.Error(t, err)
}

func TestUTF8_RoundTrip(t *testing.T) {
	s := "hello, 世界"
	data := EncodeUTF8(s)

	decoded, err := DecodeUTF8(data)
	require.NoError(t, err)
	require.Equal(t, s, decoded)
}

func TestDecodeUTF8_RejectsInvalidSequence(t *testing.T) {
	invalid := []byte{0xff, 0xfe, 0xfd}
	_, err := DecodeUTF8(invalid)
	require.Error(t, err)
}

func TestSecureRandomBytes_LengthAndRandomness(t *testing.T) {
	a, err := SecureRandomBytes(32)
	require.NoError(t, err)
	require.Len(t, a, 32)

	b, err := SecureRandomBytes(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestSecureRandomBytes_Zero(t *testing.T) {
	b, err := SecureRandomBytes(0)
	require.NoError(t, err)
	require.Len(t, b, 0)
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte("same-bytes")
	b := []byte("same-bytes")
	c := []byte("diff-bytes")

	require.True(t, ConstantTimeEqual(a, b))
	require.False(t, ConstantTimeEqual(a, c))
	require.False(t, ConstantTimeEqual(a, []byte("short")))
}
