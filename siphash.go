package binhash

import (
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// BlockSize is the number of message bytes consumed per compression.
	BlockSize = 8

	// Size is the digest size in bytes.
	Size = 8
)

// Initialization constants, "somepseudorandomlygeneratedbytes".
const (
	iv0 = 0x736f6d6570736575
	iv1 = 0x646f72616e646f6d
	iv2 = 0x6c7967656e657261
	iv3 = 0x7465646279746573
)

var (
	// ErrNotInitialized is the panic value for using a State that was never
	// given a key.
	ErrNotInitialized = errors.New("binhash: state used before Init")

	// ErrFinalized is the panic value for using a State after Finalize.
	ErrFinalized = errors.New("binhash: state used after Finalize")
)

type phase uint8

const (
	phaseZero phase = iota
	phaseActive
	phaseFinal
)

// Hash computes the SipHash-2-4 digest of data under key. Zero heap allocations.
func Hash(key Key, data []byte) uint64 {
	v0 := key.K0 ^ iv0
	v1 := key.K1 ^ iv1
	v2 := key.K0 ^ iv2
	v3 := key.K1 ^ iv3
	t := uint64(len(data)) << 56

	for len(data) >= BlockSize {
		m := le64(data)
		v3 ^= m
		v0, v1, v2, v3 = round(v0, v1, v2, v3)
		v0, v1, v2, v3 = round(v0, v1, v2, v3)
		v0 ^= m
		data = data[BlockSize:]
	}

	for i := len(data) - 1; i >= 0; i-- {
		t |= uint64(data[i]) << (8 * uint(i))
	}
	v3 ^= t
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	v0 ^= t

	return final(v0, v1, v2, v3)
}

// State is a streaming SipHash-2-4 computation. Designed for stack allocation.
//
// A State must be initialized with Init (or created by NewState) before use.
// Finalize ends the computation; any further use panics until Init is called
// again.
type State struct {
	v0, v1, v2, v3 uint64
	buf            [BlockSize]byte
	nbuf           uint8 // bytes pending in buf, 0-7
	b              uint8 // total input length mod 256
	phase          phase
}

// NewState returns a State initialized with key.
func NewState(key Key) State {
	var s State
	s.Init(key)
	return s
}

// Init (re)initializes s with key, discarding any previous input.
func (s *State) Init(key Key) {
	s.v0 = key.K0 ^ iv0
	s.v1 = key.K1 ^ iv1
	s.v2 = key.K0 ^ iv2
	s.v3 = key.K1 ^ iv3
	s.nbuf = 0
	s.b = 0
	s.phase = phaseActive
}

// Write absorbs p. It never returns an error.
func (s *State) Write(p []byte) (int, error) {
	s.mustBeActive()
	n := len(p)
	s.b += uint8(n)

	if s.nbuf > 0 {
		k := copy(s.buf[s.nbuf:], p)
		s.nbuf += uint8(k)
		p = p[k:]
		if s.nbuf < BlockSize {
			return n, nil
		}
		s.compress(le64(s.buf[:]))
		s.nbuf = 0
	}

	for len(p) >= BlockSize {
		s.compress(le64(p))
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		s.nbuf = uint8(copy(s.buf[:], p))
	}
	return n, nil
}

// WriteString absorbs the bytes of str without copying it.
func (s *State) WriteString(str string) (int, error) {
	return s.Write(unsafe.Slice(unsafe.StringData(str), len(str)))
}

// WriteByte absorbs a single byte.
func (s *State) WriteByte(c byte) error {
	s.mustBeActive()
	s.b++
	s.buf[s.nbuf] = c
	s.nbuf++
	if s.nbuf == BlockSize {
		s.compress(le64(s.buf[:]))
		s.nbuf = 0
	}
	return nil
}

// Finalize returns the digest and ends the computation.
func (s *State) Finalize() uint64 {
	s.mustBeActive()
	d := s.finish()
	s.phase = phaseFinal
	return d
}

// Sum64 returns the digest of the input so far.
// Does not modify the state; more input may follow.
func (s *State) Sum64() uint64 {
	s.mustBeActive()
	c := *s
	return c.finish()
}

func (s *State) mustBeActive() {
	switch s.phase {
	case phaseZero:
		panic(ErrNotInitialized)
	case phaseFinal:
		panic(ErrFinalized)
	}
}

func (s *State) compress(m uint64) {
	v0, v1, v2, v3 := s.v0, s.v1, s.v2, s.v3^m
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	s.v0, s.v1, s.v2, s.v3 = v0^m, v1, v2, v3
}

// finish pads the tail with zeros, stores the length byte in the top byte
// and runs the finalization rounds.
func (s *State) finish() uint64 {
	for i := s.nbuf; i < BlockSize-1; i++ {
		s.buf[i] = 0
	}
	s.buf[BlockSize-1] = s.b
	s.compress(le64(s.buf[:]))
	return final(s.v0, s.v1, s.v2, s.v3)
}

func final(v0, v1, v2, v3 uint64) uint64 {
	v2 ^= 0xff
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	v0, v1, v2, v3 = round(v0, v1, v2, v3)
	return v0 ^ v1 ^ v2 ^ v3
}

// round is one SipRound.
func round(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v1 = v1<<13 | v1>>(64-13)
	v1 ^= v0
	v0 = v0<<32 | v0>>(64-32)

	v2 += v3
	v3 = v3<<16 | v3>>(64-16)
	v3 ^= v2

	v0 += v3
	v3 = v3<<21 | v3>>(64-21)
	v3 ^= v0

	v2 += v1
	v1 = v1<<17 | v1>>(64-17)
	v1 ^= v2
	v2 = v2<<32 | v2>>(64-32)
	return v0, v1, v2, v3
}

// le64 reads a little-endian uint64 from at least 8 bytes.
func le64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
