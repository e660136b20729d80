package binhash

import (
	"iter"
	"math"
	"reflect"
	"unsafe"
)

// Encoder feeds the byte representation of a T into a State.
//
// Encoders are built once, typically next to the table that uses them, and
// are safe for concurrent use.
type Encoder[T any] interface {
	Encode(s *State, v T)
}

// Func adapts an ordinary function to an Encoder. It is the way to give a
// type its own encoding, and always takes precedence over the generic rules:
// a Slice of a Func encoder hashes element by element.
type Func[T any] func(s *State, v T)

// Encode calls f(s, v).
func (f Func[T]) Encode(s *State, v T) { f(s, v) }

// Hashable is implemented by types that write their own representation.
// HashTo takes precedence over every generic rule, including Raw.
type Hashable interface {
	HashTo(s *State)
}

var hashableType = reflect.TypeFor[Hashable]()

type methodEncoder[T Hashable] struct{}

func (methodEncoder[T]) Encode(s *State, v T) { v.HashTo(s) }

// Method returns an Encoder calling v.HashTo.
func Method[T Hashable]() Encoder[T] { return methodEncoder[T]{} }

type rawEncoder[T any] struct {
	size   int
	direct bool // memory layout equals the encoding
}

// Raw returns an Encoder writing the little-endian bytes of a binary-safe T:
// exactly the scalar's width, array elements in index order, struct fields
// in declaration order. Negative zero floats are written as positive zero.
//
// A T implementing Hashable keeps its own rule: Raw then calls HashTo and
// T need not be binary-safe.
//
// Raw panics if T is neither Hashable nor binary-safe. Call it during
// initialization so the failure surfaces when the program starts, not on a
// hash path.
func Raw[T any]() Encoder[T] {
	t := reflect.TypeFor[T]()
	switch {
	case t.Implements(hashableType):
		return Func[T](func(s *State, v T) { any(v).(Hashable).HashTo(s) })
	case reflect.PointerTo(t).Implements(hashableType):
		return Func[T](func(s *State, v T) { any(&v).(Hashable).HashTo(s) })
	}
	n, ok := canonicalSize(t)
	if !ok {
		panic("binhash: " + t.String() + " is not binary-safe")
	}
	return rawEncoder[T]{size: n, direct: memoryCanonical(t, n)}
}

func (e rawEncoder[T]) Encode(s *State, v T) {
	if e.direct {
		s.Write(unsafe.Slice((*byte)(unsafe.Pointer(&v)), e.size))
		return
	}
	var scratch [64]byte
	s.Write(appendCanonical(scratch[:0], reflect.ValueOf(&v).Elem()))
}

type sliceEncoder[T any] struct {
	elem Encoder[T]
	size int // element size when the whole backing array can be hashed at once
}

// Slice returns an Encoder for []T. When elem is Raw and the elements'
// memory already holds their encoding, the backing array is written in a
// single call; otherwise each element goes through elem in order. Both give
// the same digest.
func Slice[T any](elem Encoder[T]) Encoder[[]T] {
	if r, ok := elem.(rawEncoder[T]); ok && r.direct {
		return sliceEncoder[T]{elem: elem, size: r.size}
	}
	return sliceEncoder[T]{elem: elem}
}

func (e sliceEncoder[T]) Encode(s *State, v []T) {
	if e.size > 0 {
		if len(v) > 0 {
			s.Write(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v))), len(v)*e.size))
		}
		return
	}
	for _, x := range v {
		e.elem.Encode(s, x)
	}
}

type seqEncoder[T any] struct{ elem Encoder[T] }

// Seq returns an Encoder for any ordered sequence, writing each element
// through elem in iteration order.
func Seq[T any](elem Encoder[T]) Encoder[iter.Seq[T]] { return seqEncoder[T]{elem} }

func (e seqEncoder[T]) Encode(s *State, v iter.Seq[T]) {
	for x := range v {
		e.elem.Encode(s, x)
	}
}

type stringEncoder struct{}

func (stringEncoder) Encode(s *State, v string) { s.WriteString(v) }

// String returns an Encoder writing the bytes of a string.
func String() Encoder[string] { return stringEncoder{} }

type bytesEncoder struct{}

func (bytesEncoder) Encode(s *State, v []byte) { s.Write(v) }

// Bytes returns an Encoder writing a byte slice as is.
func Bytes() Encoder[[]byte] { return bytesEncoder{} }

// appendCanonical appends the little-endian encoding of a binary-safe value.
func appendCanonical(b []byte, v reflect.Value) []byte {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return append(b, 1)
		}
		return append(b, 0)
	case reflect.Int8:
		return appendLE(b, uint64(v.Int()), 1)
	case reflect.Int16:
		return appendLE(b, uint64(v.Int()), 2)
	case reflect.Int32:
		return appendLE(b, uint64(v.Int()), 4)
	case reflect.Int64, reflect.Int:
		return appendLE(b, uint64(v.Int()), 8)
	case reflect.Uint8:
		return appendLE(b, v.Uint(), 1)
	case reflect.Uint16:
		return appendLE(b, v.Uint(), 2)
	case reflect.Uint32:
		return appendLE(b, v.Uint(), 4)
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return appendLE(b, v.Uint(), 8)
	case reflect.Float32:
		return appendLE(b, uint64(math.Float32bits(float32(posZero(v.Float())))), 4)
	case reflect.Float64:
		return appendLE(b, math.Float64bits(posZero(v.Float())), 8)
	case reflect.Complex64:
		c := v.Complex()
		b = appendLE(b, uint64(math.Float32bits(float32(posZero(real(c))))), 4)
		return appendLE(b, uint64(math.Float32bits(float32(posZero(imag(c))))), 4)
	case reflect.Complex128:
		c := v.Complex()
		b = appendLE(b, math.Float64bits(posZero(real(c))), 8)
		return appendLE(b, math.Float64bits(posZero(imag(c))), 8)
	case reflect.Array:
		for i := range v.Len() {
			b = appendCanonical(b, v.Index(i))
		}
		return b
	case reflect.Struct:
		for i := range v.NumField() {
			b = appendCanonical(b, v.Field(i))
		}
		return b
	}
	panic("binhash: cannot encode " + v.Type().String())
}

// posZero maps -0 to +0 so that values comparing equal encode the same.
func posZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

func appendLE(b []byte, x uint64, n int) []byte {
	for i := range n {
		b = append(b, byte(x>>(8*i)))
	}
	return b
}
