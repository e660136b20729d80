// Package binhash provides seeded SipHash-2-4 hashing of composite values,
// for hash tables that must stay fast when keys are chosen by an attacker.
//
// A value reaches the hash through an Encoder, built once per type:
//
//	h := binhash.NewHasher(key, binhash.Slice(binhash.Raw[uint32]()))
//	bucket := h.Hash(ids) & mask
//
// Encoders for binary-safe element types (fixed-width, no padding) hash a
// whole slice with one Write when the host layout allows it, and fall back to
// per-element writes otherwise. Either way the digest is the same: all
// multi-byte values are read as little-endian, on every platform.
//
// SipHash is a fast keyed PRF, not a cryptographic hash. Keys come from
// GenerateKey; the same key and value always produce the same digest.
package binhash

// Sum returns the digest of v under key, encoded by enc.
func Sum[T any](key Key, enc Encoder[T], v T) uint64 {
	s := NewState(key)
	enc.Encode(&s, v)
	return s.Finalize()
}

// Hasher hashes values of one type under one key. The zero value is not
// usable; build it with NewHasher. A Hasher holds no mutable state and may be
// shared between goroutines.
type Hasher[T any] struct {
	key Key
	enc Encoder[T]
}

// NewHasher returns a Hasher for T.
func NewHasher[T any](key Key, enc Encoder[T]) Hasher[T] {
	return Hasher[T]{key: key, enc: enc}
}

// Hash returns the 64-bit digest of v.
func (h Hasher[T]) Hash(v T) uint64 { return Sum(h.key, h.enc, v) }

// HashUintptr returns the digest truncated to the platform word size.
func (h Hasher[T]) HashUintptr(v T) uintptr { return uintptr(h.Hash(v)) }

// Key returns the key h hashes with.
func (h Hasher[T]) Key() Key { return h.key }

// WithKey returns a copy of h using key.
func (h Hasher[T]) WithKey(key Key) Hasher[T] {
	h.key = key
	return h
}
