package integration_test

import (
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsecdf"
	"github.com/hupe1980/sparsecdf/testutil"
)

func TestE2E_FileRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.scdf")

	rng := testutil.NewRNG(4711)
	suite := rng.Suite(64, 48, 300)
	primary := rng.CSR(64, 48, 300)

	// 1. Write everything and close.
	w, err := sparsecdf.CreateFile(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(primary, sparsecdf.WithComment("generated suite")))
	for name, tsr := range suite {
		require.NoError(t, w.Write(tsr, sparsecdf.WithName(name)))
	}
	require.NoError(t, w.Close())

	// 2. Reopen and verify every object survived the round trip.
	r, err := sparsecdf.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got, err := r.Read()
	require.NoError(t, err)
	require.True(t, primary.Equal(got))
	assert.Equal(t, "generated suite", got.Comment)

	names, err := r.Names()
	require.NoError(t, err)

	var want []string
	for name := range suite {
		want = append(want, name)
	}
	sort.Strings(want)
	require.Equal(t, want, names)

	for name, tsr := range suite {
		sec, err := r.ReadNamed(name)
		require.NoError(t, err)
		assert.True(t, tsr.Equal(sec), "object %q", name)
	}

	info, err := r.Info()
	require.NoError(t, err)
	require.NotNil(t, info.Primary)
	assert.Equal(t, primary.Format.String(), info.Primary.Format)
	assert.Len(t, info.Secondary, len(suite))
}

func TestE2E_ManyObjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.scdf")

	rng := testutil.NewRNG(99)
	const count = 40

	w, err := sparsecdf.CreateFile(path)
	require.NoError(t, err)

	written := make(map[string]int)
	for i := 0; i < count; i++ {
		nnz := 10 + rng.Intn(90)
		name := fmt.Sprintf("slice_%02d", i)

		require.NoError(t, w.Write(rng.Vec(1024, nnz), sparsecdf.WithName(name)))
		written[name] = nnz
	}
	require.NoError(t, w.Close())

	r, err := sparsecdf.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got, err := r.Names()
	require.NoError(t, err)
	require.Len(t, got, count)

	for name, nnz := range written {
		tsr, err := r.ReadNamed(name)
		require.NoError(t, err)

		n, err := tsr.NVals()
		require.NoError(t, err)
		assert.Equal(t, nnz, n, "object %q", name)
	}
}
