package binhash

import (
	"reflect"

	"golang.org/x/sys/cpu"
)

// BinarySafe is implemented by struct types that declare their layout
// fixed-width and padding-free. The declaration is checked: a struct whose
// fields are not all binary-safe, or that has padding, is still treated as
// not binary-safe.
type BinarySafe interface {
	BinarySafe()
}

var binarySafeType = reflect.TypeFor[BinarySafe]()

// IsBinarySafe reports whether values of T have a fixed-width, padding-free
// encoding, so that sequences of T may be hashed as one block.
func IsBinarySafe[T any]() bool {
	return Classify(reflect.TypeFor[T]())
}

// Classify is IsBinarySafe for a reflect.Type.
func Classify(t reflect.Type) bool {
	_, ok := canonicalSize(t)
	return ok
}

// canonicalSize returns the length of t's little-endian encoding, or false
// when t is not binary-safe. int, uint and uintptr always encode as 8 bytes.
// A type with its own HashTo is never binary-safe, nor is anything holding one.
func canonicalSize(t reflect.Type) (int, bool) {
	if t.Implements(hashableType) || reflect.PointerTo(t).Implements(hashableType) {
		return 0, false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1, true
	case reflect.Int16, reflect.Uint16:
		return 2, true
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4, true
	case reflect.Int64, reflect.Uint64, reflect.Float64, reflect.Complex64,
		reflect.Int, reflect.Uint, reflect.Uintptr:
		return 8, true
	case reflect.Complex128:
		return 16, true
	case reflect.Array:
		n, ok := canonicalSize(t.Elem())
		return n * t.Len(), ok
	case reflect.Struct:
		return structSize(t)
	}
	return 0, false
}

func structSize(t reflect.Type) (int, bool) {
	if !t.Implements(binarySafeType) && !reflect.PointerTo(t).Implements(binarySafeType) {
		return 0, false
	}
	var canonical, native uintptr
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Offset != native {
			return 0, false
		}
		n, ok := canonicalSize(f.Type)
		if !ok {
			return 0, false
		}
		canonical += uintptr(n)
		native += f.Type.Size()
	}
	if native != t.Size() {
		return 0, false // trailing padding
	}
	return int(canonical), true
}

// memoryCanonical reports whether the in-memory bytes of a t already equal
// its canonical encoding of n bytes. Only then may raw memory be hashed.
// Floats never qualify: -0 and +0 compare equal but differ in memory.
func memoryCanonical(t reflect.Type, n int) bool {
	if uintptr(n) != t.Size() || hasFloat(t) {
		return false
	}
	return !cpu.IsBigEndian || byteWide(t)
}

func hasFloat(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return hasFloat(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasFloat(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// byteWide reports whether every scalar inside t is one byte wide, making
// its layout independent of byte order.
func byteWide(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return true
	case reflect.Array:
		return byteWide(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !byteWide(t.Field(i).Type) {
				return false
			}
		}
		return true
	}
	return false
}
