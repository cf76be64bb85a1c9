package dtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeMapping(t *testing.T) {
	tests := []struct {
		typ  Type
		name Name
		code Code
		size int
	}{
		{Bool, NameBool, CodeI1, 1},
		{Int8, NameInt8, CodeI1, 1},
		{Int16, NameInt16, CodeI2, 2},
		{Int32, NameInt32, CodeI4, 4},
		{Int64, NameInt64, CodeI8, 8},
		{Uint8, NameUint8, CodeU1, 1},
		{Uint16, NameUint16, CodeU2, 2},
		{Uint32, NameUint32, CodeU4, 4},
		{Uint64, NameUint64, CodeU8, 8},
		{Float32, NameFloat32, CodeF4, 4},
		{Float64, NameFloat64, CodeF8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.True(t, tt.typ.Valid())
			assert.Equal(t, tt.name, tt.typ.Name())
			assert.Equal(t, tt.code, tt.typ.Code())
			assert.Equal(t, tt.size, tt.typ.Size())
			assert.Equal(t, tt.size, tt.code.Size())
		})
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "invalid", Type(99).String())
}

func TestParseName(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseName(typ.Name())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseName("complex128")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestClass(t *testing.T) {
	assert.Equal(t, ClassBool, Bool.Class())
	assert.Equal(t, ClassInt, Int32.Class())
	assert.Equal(t, ClassUint, Uint8.Class())
	assert.Equal(t, ClassFloat, Float32.Class())
	assert.Equal(t, ClassInvalid, Invalid.Class())
}

func TestCodeType(t *testing.T) {
	// The shared i1 code resolves to Int8 without an interchange name.
	typ, err := Code("i1").Type()
	require.NoError(t, err)
	assert.Equal(t, Int8, typ)

	_, err = Code("c16").Type()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.False(t, Code("c16").Valid())
	assert.Equal(t, 0, Code("c16").Size())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		n       Name
		c       Code
		want    Type
		wantErr bool
	}{
		{"Bool", NameBool, CodeI1, Bool, false},
		{"Int8SharesCode", NameInt8, CodeI1, Int8, false},
		{"Float64", NameFloat64, CodeF8, Float64, false},
		{"CodeDisagrees", NameFloat64, CodeF4, Invalid, true},
		{"BoolWrongCode", NameBool, CodeU1, Invalid, true},
		{"UnknownName", Name("decimal"), CodeF8, Invalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.n, tt.c)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTypeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTripAllTypes(t *testing.T) {
	// Name plus code must recover every type exactly, including Bool
	// behind the ambiguous i1 code.
	for _, typ := range Types() {
		got, err := Resolve(typ.Name(), typ.Code())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}
