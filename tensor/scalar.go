package tensor

import (
	"math"

	"github.com/hupe1980/sparsecdf/dtype"
)

// Scalar is a single element value. It stands in for the values array
// of an iso-valued tensor, where every stored entry carries the same
// value.
type Scalar struct {
	typ dtype.Type
	b   bool
	i   int64
	u   uint64
	f   float64
}

// ScalarOf wraps a single value as a Scalar. The element type is
// inferred from E.
func ScalarOf[E Element](v E) Scalar {
	var z E
	s := Scalar{typ: elemType(z)}

	switch x := any(v).(type) {
	case bool:
		s.b = x
	case int8:
		s.i = int64(x)
	case int16:
		s.i = int64(x)
	case int32:
		s.i = int64(x)
	case int64:
		s.i = x
	case uint8:
		s.u = uint64(x)
	case uint16:
		s.u = uint64(x)
	case uint32:
		s.u = uint64(x)
	case uint64:
		s.u = x
	case float32:
		s.f = float64(x)
	case float64:
		s.f = x
	}

	return s
}

// Type returns the element type of the scalar.
func (s Scalar) Type() dtype.Type { return s.typ }

// Bool returns the boolean value; zero unless the type class is bool.
func (s Scalar) Bool() bool { return s.b }

// Int64 returns the signed value; zero unless the type class is int.
func (s Scalar) Int64() int64 { return s.i }

// Uint64 returns the unsigned value; zero unless the type class is uint.
func (s Scalar) Uint64() uint64 { return s.u }

// Float64 returns the float value; zero unless the type class is float.
// Float32 scalars are widened.
func (s Scalar) Float64() float64 { return s.f }

// Equal reports whether two scalars hold the same type and value.
// Floats compare by bit pattern.
func (s Scalar) Equal(o Scalar) bool {
	if s.typ != o.typ {
		return false
	}

	switch s.typ.Class() {
	case dtype.ClassBool:
		return s.b == o.b
	case dtype.ClassInt:
		return s.i == o.i
	case dtype.ClassUint:
		return s.u == o.u
	case dtype.ClassFloat:
		return math.Float64bits(s.f) == math.Float64bits(o.f)
	default:
		return true
	}
}

// Repeat materializes the scalar as an array of n copies.
func (s Scalar) Repeat(n int) Array {
	switch s.typ {
	case dtype.Bool:
		return Of(repeat(s.b, n))
	case dtype.Int8:
		return Of(repeat(int8(s.i), n))
	case dtype.Int16:
		return Of(repeat(int16(s.i), n))
	case dtype.Int32:
		return Of(repeat(int32(s.i), n))
	case dtype.Int64:
		return Of(repeat(s.i, n))
	case dtype.Uint8:
		return Of(repeat(uint8(s.u), n))
	case dtype.Uint16:
		return Of(repeat(uint16(s.u), n))
	case dtype.Uint32:
		return Of(repeat(uint32(s.u), n))
	case dtype.Uint64:
		return Of(repeat(s.u, n))
	case dtype.Float32:
		return Of(repeat(float32(s.f), n))
	case dtype.Float64:
		return Of(repeat(s.f, n))
	default:
		return Array{}
	}
}

func repeat[E Element](v E, n int) []E {
	out := make([]E, n)
	for i := range out {
		out[i] = v
	}
	return out
}
