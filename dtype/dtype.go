package dtype

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch is returned when an interchange type name and a
// container type code disagree, or when a value does not fit the
// declared element type.
var ErrTypeMismatch = errors.New("type mismatch")

// Type identifies the element type of a sparse tensor.
type Type uint8

const (
	// Invalid represents an invalid type.
	Invalid Type = iota
	// Bool is a boolean element type.
	Bool
	// Int8 is a signed 8-bit integer element type.
	Int8
	// Int16 is a signed 16-bit integer element type.
	Int16
	// Int32 is a signed 32-bit integer element type.
	Int32
	// Int64 is a signed 64-bit integer element type.
	Int64
	// Uint8 is an unsigned 8-bit integer element type.
	Uint8
	// Uint16 is an unsigned 16-bit integer element type.
	Uint16
	// Uint32 is an unsigned 32-bit integer element type.
	Uint32
	// Uint64 is an unsigned 64-bit integer element type.
	Uint64
	// Float32 is a 32-bit floating point element type.
	Float32
	// Float64 is a 64-bit floating point element type.
	Float64
)

// Class groups element types by the kind of value they hold.
type Class uint8

const (
	// ClassInvalid represents an invalid class.
	ClassInvalid Class = iota
	// ClassBool holds boolean values.
	ClassBool
	// ClassInt holds signed integer values.
	ClassInt
	// ClassUint holds unsigned integer values.
	ClassUint
	// ClassFloat holds floating point values.
	ClassFloat
)

// Name is the portable interchange identifier of an element type as it
// appears in metadata records, e.g. "bool" or "float64".
type Name string

const (
	NameBool    Name = "bool"
	NameInt8    Name = "int8"
	NameInt16   Name = "int16"
	NameInt32   Name = "int32"
	NameInt64   Name = "int64"
	NameUint8   Name = "uint8"
	NameUint16  Name = "uint16"
	NameUint32  Name = "uint32"
	NameUint64  Name = "uint64"
	NameFloat32 Name = "float32"
	NameFloat64 Name = "float64"
)

// Code is the container-native type code of an element type, e.g. "i1"
// or "f8". Codes identify width and numeric kind only; booleans share
// the "i1" code with signed 8-bit integers because typed containers
// have no native boolean type.
type Code string

const (
	CodeI1 Code = "i1"
	CodeI2 Code = "i2"
	CodeI4 Code = "i4"
	CodeI8 Code = "i8"
	CodeU1 Code = "u1"
	CodeU2 Code = "u2"
	CodeU4 Code = "u4"
	CodeU8 Code = "u8"
	CodeF4 Code = "f4"
	CodeF8 Code = "f8"
)

// Types returns all valid element types in declaration order.
func Types() []Type {
	return []Type{
		Bool,
		Int8, Int16, Int32, Int64,
		Uint8, Uint16, Uint32, Uint64,
		Float32, Float64,
	}
}

// Valid reports whether t is a known element type.
func (t Type) Valid() bool {
	return t > Invalid && t <= Float64
}

// String returns the interchange name of the type, or "invalid".
func (t Type) String() string {
	if !t.Valid() {
		return "invalid"
	}
	return string(t.Name())
}

// Name returns the interchange identifier recorded in metadata.
func (t Type) Name() Name {
	switch t {
	case Bool:
		return NameBool
	case Int8:
		return NameInt8
	case Int16:
		return NameInt16
	case Int32:
		return NameInt32
	case Int64:
		return NameInt64
	case Uint8:
		return NameUint8
	case Uint16:
		return NameUint16
	case Uint32:
		return NameUint32
	case Uint64:
		return NameUint64
	case Float32:
		return NameFloat32
	case Float64:
		return NameFloat64
	default:
		return ""
	}
}

// Code returns the container-native type code used to declare storage.
// Bool maps to CodeI1, the same code as Int8.
func (t Type) Code() Code {
	switch t {
	case Bool, Int8:
		return CodeI1
	case Int16:
		return CodeI2
	case Int32:
		return CodeI4
	case Int64:
		return CodeI8
	case Uint8:
		return CodeU1
	case Uint16:
		return CodeU2
	case Uint32:
		return CodeU4
	case Uint64:
		return CodeU8
	case Float32:
		return CodeF4
	case Float64:
		return CodeF8
	default:
		return ""
	}
}

// Class returns the value class of the type.
func (t Type) Class() Class {
	switch t {
	case Bool:
		return ClassBool
	case Int8, Int16, Int32, Int64:
		return ClassInt
	case Uint8, Uint16, Uint32, Uint64:
		return ClassUint
	case Float32, Float64:
		return ClassFloat
	default:
		return ClassInvalid
	}
}

// Size returns the storage width of one element in bytes.
func (t Type) Size() int {
	switch t {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// ParseName resolves an interchange identifier to its element type.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
func ParseName(n Name) (Type, error) {
	for _, t := range Types() {
		if t.Name() == n {
			return t, nil
		}
	}
	return Invalid, fmt.Errorf("%w: unknown type name %q", ErrTypeMismatch, string(n))
}

// Type returns the canonical element type for a container code. The
// shared "i1" code resolves to Int8; use Resolve to recover Bool from
// an interchange name.
func (c Code) Type() (Type, error) {
	switch c {
	case CodeI1:
		return Int8, nil
	case CodeI2:
		return Int16, nil
	case CodeI4:
		return Int32, nil
	case CodeI8:
		return Int64, nil
	case CodeU1:
		return Uint8, nil
	case CodeU2:
		return Uint16, nil
	case CodeU4:
		return Uint32, nil
	case CodeU8:
		return Uint64, nil
	case CodeF4:
		return Float32, nil
	case CodeF8:
		return Float64, nil
	default:
		return Invalid, fmt.Errorf("%w: unknown type code %q", ErrTypeMismatch, string(c))
	}
}

// Valid reports whether c is a known container type code.
func (c Code) Valid() bool {
	_, err := c.Type()
	return err == nil
}

// Size returns the storage width in bytes of one element of the code,
// or 0 for an unknown code.
func (c Code) Size() int {
	t, err := c.Type()
	if err != nil {
		return 0
	}
	return t.Size()
}

// Resolve recovers the element type from the interchange name recorded
// in metadata and the type code declared by the container. The name is
// authoritative where the code is ambiguous: "bool" and "int8" both
// carry code "i1" and resolve to Bool and Int8 respectively. A name
// whose code differs from the declared one is a mismatch.
func Resolve(n Name, c Code) (Type, error) {
	t, err := ParseName(n)
	if err != nil {
		return Invalid, err
	}

	if t.Code() != c {
		return Invalid, fmt.Errorf("%w: type %q stored as %q, want %q", ErrTypeMismatch, string(n), string(c), string(t.Code()))
	}

	return t, nil
}
