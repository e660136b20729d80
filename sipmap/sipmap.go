// Package sipmap builds swiss tables hashed with binhash, so that bucket
// placement depends on a secret key instead of the default hash.
package sipmap

import (
	"github.com/cockroachdb/swiss"

	"github.com/Giulio2002/binhash"
)

// New returns a swiss.Map whose keys are hashed by h.
func New[K comparable, V any](h binhash.Hasher[K], initialCapacity int) *swiss.Map[K, V] {
	return swiss.New[K, V](initialCapacity, swiss.WithHash[K, V](HashFunc(h)))
}

// NewString returns a string-keyed map under a fresh key.
func NewString[V any](initialCapacity int) (*swiss.Map[string, V], error) {
	key, err := binhash.GenerateKey()
	if err != nil {
		return nil, err
	}
	return New[string, V](binhash.NewHasher(key, binhash.String()), initialCapacity), nil
}

// HashFunc adapts h to the hash signature swiss expects. The per-map seed
// is folded into the second key word.
func HashFunc[K any](h binhash.Hasher[K]) func(key *K, seed uintptr) uintptr {
	k := h.Key()
	return func(key *K, seed uintptr) uintptr {
		return h.WithKey(binhash.Key{K0: k.K0, K1: k.K1 ^ uint64(seed)}).HashUintptr(*key)
	}
}
