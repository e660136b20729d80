package binhash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the size of a Key in bytes.
const KeySize = 16

var (
	// ErrEntropyUnavailable is returned when the secure random source cannot
	// produce key material.
	ErrEntropyUnavailable = errors.New("binhash: secure entropy source unavailable")

	// ErrInvalidKey is returned when decoding a malformed key.
	ErrInvalidKey = errors.New("binhash: invalid key")

	// ErrEmptySecret is returned by DeriveKey for an empty secret.
	ErrEmptySecret = errors.New("binhash: empty secret")
)

// Key is a 128-bit SipHash key. The zero Key is valid but predictable.
type Key struct {
	K0, K1 uint64
}

// GenerateKey returns a fresh key read from crypto/rand.
// Call it once per table, not per hash.
func GenerateKey() (Key, error) {
	return GenerateKeyFrom(rand.Reader)
}

// GenerateKeyFrom reads KeySize bytes from r and returns them as a key.
// A short or failed read yields an error wrapping ErrEntropyUnavailable.
func GenerateKeyFrom(r io.Reader) (Key, error) {
	var b [KeySize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Key{}, errors.Wrapf(ErrEntropyUnavailable, "reading %d bytes: %v", KeySize, err)
	}
	return KeyFromBytes(b), nil
}

// DeriveKey derives a key from secret with HKDF-SHA256. The same inputs give
// the same key in every process, so tables keyed this way can be rebuilt
// elsewhere. salt and info may be nil.
func DeriveKey(secret, salt, info []byte) (Key, error) {
	if len(secret) == 0 {
		return Key{}, ErrEmptySecret
	}
	var b [KeySize]byte
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, info), b[:]); err != nil {
		return Key{}, errors.Wrap(err, "deriving key")
	}
	return KeyFromBytes(b), nil
}

// KeyFromBytes interprets b as two little-endian words, k0 first.
func KeyFromBytes(b [KeySize]byte) Key {
	return Key{K0: le64(b[0:8]), K1: le64(b[8:16])}
}

// Bytes returns the key as two little-endian words, k0 first.
func (k Key) Bytes() [KeySize]byte {
	var b [KeySize]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(k.K0 >> (8 * i))
		b[8+i] = byte(k.K1 >> (8 * i))
	}
	return b
}

// MarshalText encodes Bytes as 32 lowercase hex digits.
func (k Key) MarshalText() ([]byte, error) {
	b := k.Bytes()
	return []byte(hex.EncodeToString(b[:])), nil
}

// UnmarshalText decodes the form produced by MarshalText.
func (k *Key) UnmarshalText(text []byte) error {
	if len(text) != 2*KeySize {
		return errors.Wrapf(ErrInvalidKey, "want %d hex digits, got %d", 2*KeySize, len(text))
	}
	var b [KeySize]byte
	if _, err := hex.Decode(b[:], text); err != nil {
		return errors.Wrapf(ErrInvalidKey, "%v", err)
	}
	*k = KeyFromBytes(b)
	return nil
}

// String hides the key material so keys do not end up in logs.
func (k Key) String() string {
	return "binhash.Key{redacted}"
}
