package sparsecdf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsecdf/codec"
	"github.com/hupe1980/sparsecdf/container"
	"github.com/hupe1980/sparsecdf/layout"
	"github.com/hupe1980/sparsecdf/tensor"
)

// saveRaw writes a container to disk without going through a Writer,
// so tests can produce files a well-behaved session never would.
func saveRaw(t *testing.T, m *container.Memory) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "raw.scdf")
	require.NoError(t, m.SaveFile(path))

	return path
}

func TestReaderVersionMismatch(t *testing.T) {
	t.Run("MissingAttribute", func(t *testing.T) {
		m := container.NewMemory()
		require.NoError(t, codec.WriteObject(m.Root(), newCSR()))

		_, err := OpenFile(saveRaw(t, m))
		assert.ErrorIs(t, err, ErrVersionMismatch)
	})

	t.Run("WrongVersion", func(t *testing.T) {
		m := container.NewMemory()
		require.NoError(t, codec.WriteObject(m.Root(), newCSR()))
		require.NoError(t, m.Root().SetAttr(codec.AttrVersion, "2.0"))

		_, err := OpenFile(saveRaw(t, m))
		assert.ErrorIs(t, err, ErrVersionMismatch)
	})
}

func TestReaderNamesSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.scdf")

	w, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR()))
	require.NoError(t, w.Write(newDegrees([]int64{1, 2}), WithName("zeta")))
	require.NoError(t, w.Write(newDegrees([]int64{3, 4}), WithName("alpha")))
	require.NoError(t, w.Close())

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	names, err := r.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestReaderInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.scdf")

	w, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR(), WithComment("adjacency")))
	require.NoError(t, w.Write(newIsoVec(), WithName("fill")))
	require.NoError(t, w.Write(newDegrees([]int64{2, 0, 1, 3}), WithName("row_degrees")))
	require.NoError(t, w.Close())

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	info, err := r.Info()
	require.NoError(t, err)

	require.NotNil(t, info.Primary)
	assert.Equal(t, "CSR", info.Primary.Format)
	assert.Equal(t, "adjacency", info.Primary.Comment)

	require.Len(t, info.Secondary, 2)
	require.NotNil(t, info.Secondary["fill"].Iso)
	assert.Equal(t, "VEC", info.Secondary["row_degrees"].Format)
}

func TestReaderShortPointers(t *testing.T) {
	// A stored object whose row pointers are one short: metadata is
	// intact, so Info works, while Read reports the size mismatch and
	// the session stays open.
	o, err := codec.Encode(newCSR())
	require.NoError(t, err)
	o.Arrays[layout.RolePointers0] = tensor.Of([]uint64{0, 2, 2, 6})

	m := container.NewMemory()
	require.NoError(t, codec.WriteEncoded(m.Root(), o))
	require.NoError(t, m.Root().SetAttr(codec.AttrVersion, codec.Version))

	r, err := OpenFile(saveRaw(t, m))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Read()
	require.ErrorIs(t, err, ErrSizeMismatch)

	info, err := r.Info()
	require.NoError(t, err)
	assert.Equal(t, "CSR", info.Primary.Format)
}

func TestReadNamedNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.scdf")

	w, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR()))
	require.NoError(t, w.Close())

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.ReadNamed("row_degrees")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReaderClosedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.scdf")

	w, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR()))
	require.NoError(t, w.Close())

	r, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Read()
	assert.ErrorIs(t, err, ErrClosedSession)

	_, err = r.ReadNamed("row_degrees")
	assert.ErrorIs(t, err, ErrClosedSession)

	_, err = r.Names()
	assert.ErrorIs(t, err, ErrClosedSession)

	_, err = r.Info()
	assert.ErrorIs(t, err, ErrClosedSession)
}

func TestReaderMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.scdf")

	w, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR()))
	require.NoError(t, w.Close())

	mc := &BasicMetricsCollector{}
	r, err := OpenFile(path, WithMetricsCollector(mc))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Read()
	require.NoError(t, err)
	_, err = r.ReadNamed("missing")
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.ReadCount)
	assert.Equal(t, int64(1), stats.ReadErrors)
}
