package tensor

import (
	"fmt"
	"math"

	"github.com/hupe1980/sparsecdf/dtype"
)

// Element is the set of Go types that can back a tensor array.
type Element interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Array is a one-dimensional buffer of a fixed element type. The zero
// value is an empty, invalid array.
//
// An Array shares its backing slice with the caller; treat it as
// immutable once handed to an encoder or a container.
type Array struct {
	typ  dtype.Type
	data any
	n    int
}

// Of wraps a slice as an Array. The element type is inferred from E.
func Of[E Element](data []E) Array {
	var z E
	return Array{typ: elemType(z), data: data, n: len(data)}
}

func elemType(z any) dtype.Type {
	switch z.(type) {
	case bool:
		return dtype.Bool
	case int8:
		return dtype.Int8
	case int16:
		return dtype.Int16
	case int32:
		return dtype.Int32
	case int64:
		return dtype.Int64
	case uint8:
		return dtype.Uint8
	case uint16:
		return dtype.Uint16
	case uint32:
		return dtype.Uint32
	case uint64:
		return dtype.Uint64
	case float32:
		return dtype.Float32
	case float64:
		return dtype.Float64
	default:
		return dtype.Invalid
	}
}

// Type returns the element type of the array.
func (a Array) Type() dtype.Type { return a.typ }

// Len returns the number of elements.
func (a Array) Len() int { return a.n }

// Valid reports whether the array was constructed with a known
// element type.
func (a Array) Valid() bool { return a.typ.Valid() }

// Data returns the backing slice as an untyped value. Use the generic
// Data function to recover the typed slice.
func (a Array) Data() any { return a.data }

// Data returns the typed backing slice of an array, or false when the
// array holds a different element type.
func Data[E Element](a Array) ([]E, bool) {
	s, ok := a.data.([]E)
	return s, ok
}

// As returns a view of the array under another element type. Only
// conversions between types that share a container code are possible,
// which means Bool and Int8: booleans are stored as the bytes 0 and 1,
// and any non-zero byte reads back as true.
func (a Array) As(t dtype.Type) (Array, error) {
	if a.typ == t {
		return a, nil
	}

	switch {
	case a.typ == dtype.Bool && t == dtype.Int8:
		src, _ := a.data.([]bool)
		out := make([]int8, len(src))
		for i, v := range src {
			if v {
				out[i] = 1
			}
		}
		return Of(out), nil
	case a.typ == dtype.Int8 && t == dtype.Bool:
		src, _ := a.data.([]int8)
		out := make([]bool, len(src))
		for i, v := range src {
			out[i] = v != 0
		}
		return Of(out), nil
	default:
		return Array{}, fmt.Errorf("%w: cannot view %s array as %s", dtype.ErrTypeMismatch, a.typ, t)
	}
}

// Equal reports whether two arrays hold the same element type and
// identical elements. Floats compare by bit pattern.
func (a Array) Equal(b Array) bool {
	if a.typ != b.typ || a.n != b.n {
		return false
	}

	switch av := a.data.(type) {
	case []bool:
		bv, _ := b.data.([]bool)
		return equalSlices(av, bv)
	case []int8:
		bv, _ := b.data.([]int8)
		return equalSlices(av, bv)
	case []int16:
		bv, _ := b.data.([]int16)
		return equalSlices(av, bv)
	case []int32:
		bv, _ := b.data.([]int32)
		return equalSlices(av, bv)
	case []int64:
		bv, _ := b.data.([]int64)
		return equalSlices(av, bv)
	case []uint8:
		bv, _ := b.data.([]uint8)
		return equalSlices(av, bv)
	case []uint16:
		bv, _ := b.data.([]uint16)
		return equalSlices(av, bv)
	case []uint32:
		bv, _ := b.data.([]uint32)
		return equalSlices(av, bv)
	case []uint64:
		bv, _ := b.data.([]uint64)
		return equalSlices(av, bv)
	case []float32:
		bv, _ := b.data.([]float32)
		for i := range av {
			if math.Float32bits(av[i]) != math.Float32bits(bv[i]) {
				return false
			}
		}
		return true
	case []float64:
		bv, _ := b.data.([]float64)
		for i := range av {
			if math.Float64bits(av[i]) != math.Float64bits(bv[i]) {
				return false
			}
		}
		return true
	default:
		return a.data == nil && b.data == nil
	}
}

func equalSlices[E comparable](a, b []E) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Indices returns the elements of an integer-typed array widened to
// uint64. Index arrays must be non-negative; a negative element or a
// non-integer element type is an error.
func (a Array) Indices() ([]uint64, error) {
	switch v := a.data.(type) {
	case []uint64:
		return v, nil
	case []uint8:
		return widenUint(v), nil
	case []uint16:
		return widenUint(v), nil
	case []uint32:
		return widenUint(v), nil
	case []int8:
		return widenInt(v)
	case []int16:
		return widenInt(v)
	case []int32:
		return widenInt(v)
	case []int64:
		return widenInt(v)
	default:
		return nil, fmt.Errorf("%w: %s array cannot serve as indices", dtype.ErrTypeMismatch, a.typ)
	}
}

func widenUint[E uint8 | uint16 | uint32](v []E) []uint64 {
	out := make([]uint64, len(v))
	for i, x := range v {
		out[i] = uint64(x)
	}
	return out
}

func widenInt[E int8 | int16 | int32 | int64](v []E) ([]uint64, error) {
	out := make([]uint64, len(v))
	for i, x := range v {
		if x < 0 {
			return nil, fmt.Errorf("negative index %d at position %d", x, i)
		}
		out[i] = uint64(x)
	}
	return out, nil
}
