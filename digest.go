package binhash

import "hash"

type digest struct {
	key Key
	s   State
}

// New returns a hash.Hash64 computing SipHash-2-4 under key.
//
// Unlike State, the returned hash follows the hash.Hash contract: Sum and
// Sum64 do not end the computation, and Reset restarts it with the same key.
func New(key Key) hash.Hash64 {
	d := &digest{key: key}
	d.s.Init(key)
	return d
}

func (d *digest) Write(p []byte) (int, error) { return d.s.Write(p) }

func (d *digest) WriteString(s string) (int, error) { return d.s.WriteString(s) }

func (d *digest) Sum64() uint64 { return d.s.Sum64() }

// Sum appends the digest in little-endian byte order.
func (d *digest) Sum(b []byte) []byte {
	r := d.s.Sum64()
	return append(b,
		byte(r), byte(r>>8), byte(r>>16), byte(r>>24),
		byte(r>>32), byte(r>>40), byte(r>>48), byte(r>>56))
}

func (d *digest) Reset() { d.s.Init(d.key) }

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }
