package binhash

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestKeyBytes(t *testing.T) {
	b := testKey.Bytes()
	require.Equal(t, seqBytes(KeySize), b[:])
	require.Equal(t, testKey, KeyFromBytes(b))
}

func TestKeyText(t *testing.T) {
	text, err := testKey.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "000102030405060708090a0b0c0d0e0f", string(text))

	var k Key
	require.NoError(t, k.UnmarshalText(text))
	require.Equal(t, testKey, k)

	require.ErrorIs(t, k.UnmarshalText([]byte("0001")), ErrInvalidKey)
	require.ErrorIs(t, k.UnmarshalText([]byte("zz0102030405060708090a0b0c0d0e0f")), ErrInvalidKey)
	require.NotContains(t, testKey.String(), "0706050403020100")
}

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	require.NoError(t, err)
	b, err := GenerateKey()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.NotEqual(t, Key{}, a)
}

func TestGenerateKeyFrom(t *testing.T) {
	k, err := GenerateKeyFrom(bytes.NewReader(seqBytes(32)))
	require.NoError(t, err)
	require.Equal(t, testKey, k)
}

func TestGenerateKeyUnavailable(t *testing.T) {
	for name, r := range map[string]io.Reader{
		"error": iotest.ErrReader(io.ErrClosedPipe),
		"short": bytes.NewReader(make([]byte, KeySize-1)),
		"empty": bytes.NewReader(nil),
	} {
		t.Run(name, func(t *testing.T) {
			k, err := GenerateKeyFrom(r)
			require.ErrorIs(t, err, ErrEntropyUnavailable)
			require.Equal(t, Key{}, k)
		})
	}
}

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey([]byte("secret"), []byte("salt"), []byte("users"))
	require.NoError(t, err)
	b, err := DeriveKey([]byte("secret"), []byte("salt"), []byte("users"))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := DeriveKey([]byte("secret"), []byte("salt"), []byte("orders"))
	require.NoError(t, err)
	require.NotEqual(t, a, c)

	d, err := DeriveKey([]byte("other"), []byte("salt"), []byte("users"))
	require.NoError(t, err)
	require.NotEqual(t, a, d)

	_, err = DeriveKey(nil, nil, nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}
