package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/tensor"
)

func TestMemoryGroups(t *testing.T) {
	m := NewMemory()

	require.Equal(t, "/", m.Root().Name())

	g1, err := m.CreateGroup("first")
	require.NoError(t, err)
	require.Equal(t, "first", g1.Name())

	_, err = m.CreateGroup("second")
	require.NoError(t, err)

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := m.CreateGroup("first")
		require.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := m.Group("nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("CreationOrder", func(t *testing.T) {
		assert.Equal(t, []string{"first", "second"}, m.Groups())
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := m.CreateGroup("")
		require.Error(t, err)
	})
}

func TestMemoryAttrs(t *testing.T) {
	m := NewMemory()
	g := m.Root()

	_, ok := g.Attr("missing")
	require.False(t, ok)

	require.NoError(t, g.SetAttr("version", "1.0"))
	require.NoError(t, g.SetAttr("comment", "seed"))

	v, ok := g.Attr("version")
	require.True(t, ok)
	require.Equal(t, "1.0", v)

	// Replacing keeps the original key position.
	require.NoError(t, g.SetAttr("version", "2.0"))
	v, _ = g.Attr("version")
	require.Equal(t, "2.0", v)

	require.Error(t, g.SetAttr("", "x"))
}

func TestMemoryArrayVariables(t *testing.T) {
	m := NewMemory()

	g, err := m.CreateGroup("tensor")
	require.NoError(t, err)

	v, err := g.CreateArray("values", dtype.CodeF8, 3)
	require.NoError(t, err)
	require.Equal(t, VarInfo{Name: "values", Code: dtype.CodeF8, Len: 3}, v.Info())

	t.Run("ReadBeforeWrite", func(t *testing.T) {
		_, err := v.ReadArray()
		require.Error(t, err)
	})

	t.Run("CodeMismatch", func(t *testing.T) {
		err := v.WriteArray(tensor.Of([]float32{1, 2, 3}))
		require.Error(t, err)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		err := v.WriteArray(tensor.Of([]float64{1, 2}))
		require.Error(t, err)
	})

	require.NoError(t, v.WriteArray(tensor.Of([]float64{1.5, 2.5, 3.5})))

	got, err := v.ReadArray()
	require.NoError(t, err)

	data, ok := tensor.Data[float64](got)
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, data)

	t.Run("DuplicateVariable", func(t *testing.T) {
		_, err := g.CreateArray("values", dtype.CodeF8, 3)
		require.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("VariableNotFound", func(t *testing.T) {
		_, err := g.Variable("nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		_, err := g.CreateArray("bad", dtype.Code("f2"), 1)
		require.Error(t, err)
	})

	t.Run("NegativeLength", func(t *testing.T) {
		_, err := g.CreateArray("neg", dtype.CodeF8, -1)
		require.Error(t, err)
	})
}

func TestMemoryBoolSharesCode(t *testing.T) {
	m := NewMemory()
	g := m.Root()

	// Bool and Int8 share the i1 code, so either array form can fill
	// an i1 variable.
	v, err := g.CreateArray("mask", dtype.CodeI1, 2)
	require.NoError(t, err)

	require.NoError(t, v.WriteArray(tensor.Of([]bool{true, false})))

	got, err := v.ReadArray()
	require.NoError(t, err)
	require.Equal(t, dtype.Bool, got.Type())

	v2, err := g.CreateArray("small", dtype.CodeI1, 2)
	require.NoError(t, err)
	require.NoError(t, v2.WriteArray(tensor.Of([]int8{-1, 7})))
}

func TestMemoryScalarVariables(t *testing.T) {
	m := NewMemory()
	g := m.Root()

	v, err := g.CreateScalar("fill", dtype.CodeF8)
	require.NoError(t, err)
	require.True(t, v.Info().Scalar)
	require.Zero(t, v.Info().Len)

	t.Run("ArrayOpsRejected", func(t *testing.T) {
		require.Error(t, v.WriteArray(tensor.Of([]float64{1})))
		_, err := v.ReadArray()
		require.Error(t, err)
	})

	t.Run("CodeMismatch", func(t *testing.T) {
		require.Error(t, v.WriteScalar(tensor.ScalarOf(int32(1))))
	})

	require.NoError(t, v.WriteScalar(tensor.ScalarOf(3.25)))

	got, err := v.ReadScalar()
	require.NoError(t, err)
	require.Equal(t, 3.25, got.Float64())

	t.Run("ScalarOpsOnArray", func(t *testing.T) {
		arr, err := g.CreateArray("arr", dtype.CodeI4, 1)
		require.NoError(t, err)

		require.Error(t, arr.WriteScalar(tensor.ScalarOf(int32(1))))
		_, err = arr.ReadScalar()
		require.Error(t, err)
	})
}

func TestMemoryVariablesOrder(t *testing.T) {
	m := NewMemory()
	g := m.Root()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := g.CreateArray(name, dtype.CodeU4, 0)
		require.NoError(t, err)
	}

	infos := g.Variables()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()

	g, err := m.CreateGroup("g")
	require.NoError(t, err)

	v, err := g.CreateArray("a", dtype.CodeI8, 1)
	require.NoError(t, err)
	require.NoError(t, v.WriteArray(tensor.Of([]int64{42})))

	require.NoError(t, m.Close())
	require.NoError(t, m.Close()) // idempotent

	_, err = m.CreateGroup("late")
	require.ErrorIs(t, err, ErrClosed)

	_, err = m.Group("g")
	require.ErrorIs(t, err, ErrClosed)

	_, err = g.CreateArray("b", dtype.CodeI8, 1)
	require.ErrorIs(t, err, ErrClosed)

	require.ErrorIs(t, g.SetAttr("k", "v"), ErrClosed)

	_, err = v.ReadArray()
	require.ErrorIs(t, err, ErrClosed)

	require.ErrorIs(t, v.WriteArray(tensor.Of([]int64{1})), ErrClosed)

	_, err = m.Encode()
	require.ErrorIs(t, err, ErrClosed)
}
