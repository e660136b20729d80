package binhash

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type rgba struct{ R, G, B, A uint8 }

func (rgba) BinarySafe() {}

type vec3 struct{ X, Y, Z float32 }

func (*vec3) BinarySafe() {}

// Declared binary-safe, but has 3 bytes of padding after Tag.
type padded struct {
	Tag   uint8
	Value uint32
}

func (padded) BinarySafe() {}

// Trailing padding.
type tailPadded struct {
	Value uint32
	Tag   uint8
}

func (tailPadded) BinarySafe() {}

type withString struct{ S string }

func (withString) BinarySafe() {}

type undeclared struct{ A, B uint32 }

type nested struct {
	Color rgba
	Pos   [2]int32
}

func (nested) BinarySafe() {}

type celsius float64

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		typ  reflect.Type
		safe bool
		size int
	}{
		{reflect.TypeFor[bool](), true, 1},
		{reflect.TypeFor[int8](), true, 1},
		{reflect.TypeFor[uint8](), true, 1},
		{reflect.TypeFor[int16](), true, 2},
		{reflect.TypeFor[uint16](), true, 2},
		{reflect.TypeFor[rune](), true, 4},
		{reflect.TypeFor[uint32](), true, 4},
		{reflect.TypeFor[float32](), true, 4},
		{reflect.TypeFor[int64](), true, 8},
		{reflect.TypeFor[uint64](), true, 8},
		{reflect.TypeFor[float64](), true, 8},
		{reflect.TypeFor[int](), true, 8},
		{reflect.TypeFor[uint](), true, 8},
		{reflect.TypeFor[uintptr](), true, 8},
		{reflect.TypeFor[complex64](), true, 8},
		{reflect.TypeFor[complex128](), true, 16},
		{reflect.TypeFor[celsius](), true, 8},
		{reflect.TypeFor[[4]uint16](), true, 8},
		{reflect.TypeFor[[0]uint64](), true, 0},
		{reflect.TypeFor[rgba](), true, 4},
		{reflect.TypeFor[vec3](), true, 12},
		{reflect.TypeFor[nested](), true, 12},
		{reflect.TypeFor[[3]rgba](), true, 12},

		{reflect.TypeFor[padded](), false, 0},
		{reflect.TypeFor[tailPadded](), false, 0},
		{reflect.TypeFor[withString](), false, 0},
		{reflect.TypeFor[undeclared](), false, 0},
		{reflect.TypeFor[[2]undeclared](), false, 0},
		{reflect.TypeFor[string](), false, 0},
		{reflect.TypeFor[[]byte](), false, 0},
		{reflect.TypeFor[*uint64](), false, 0},
		{reflect.TypeFor[map[int]int](), false, 0},
		{reflect.TypeFor[any](), false, 0},
		{reflect.TypeFor[struct{}](), false, 0},
	} {
		t.Run(tc.typ.String(), func(t *testing.T) {
			require.Equal(t, tc.safe, Classify(tc.typ))
			if tc.safe {
				n, _ := canonicalSize(tc.typ)
				require.Equal(t, tc.size, n)
			}
		})
	}
}

func TestIsBinarySafe(t *testing.T) {
	require.True(t, IsBinarySafe[uint64]())
	require.True(t, IsBinarySafe[rgba]())
	require.False(t, IsBinarySafe[padded]())
	require.False(t, IsBinarySafe[undeclared]())
}

func TestMemoryCanonical(t *testing.T) {
	// Single-byte layouts never depend on byte order.
	require.True(t, memoryCanonical(reflect.TypeFor[[16]byte](), 16))
	require.True(t, memoryCanonical(reflect.TypeFor[rgba](), 4))

	// int is canonically 8 bytes, so it is raw-hashable only on 64-bit hosts.
	n, _ := canonicalSize(reflect.TypeFor[int]())
	if unsafe.Sizeof(int(0)) != 8 {
		require.False(t, memoryCanonical(reflect.TypeFor[int](), n))
	}
}

func TestMemoryCanonicalFloats(t *testing.T) {
	require.False(t, memoryCanonical(reflect.TypeFor[float64](), 8))
	require.False(t, memoryCanonical(reflect.TypeFor[[2]float32](), 8))
	require.False(t, memoryCanonical(reflect.TypeFor[vec3](), 12))
	require.True(t, Classify(reflect.TypeFor[vec3]()))
}
