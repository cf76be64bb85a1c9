package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/layout"
	"github.com/hupe1980/sparsecdf/tensor"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Values returns nvals pseudo-random float64 values in [-1, 1).
func (r *RNG) Values(nvals int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.valuesLocked(nvals)
}

// Indices returns nnz distinct sorted indices in [0, limit).
func (r *RNG) Indices(nnz, limit int) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indicesLocked(nnz, limit)
}

func (r *RNG) valuesLocked(nvals int) []float64 {
	out := make([]float64, nvals)
	for i := range out {
		out[i] = r.rand.Float64()*2 - 1
	}

	return out
}

func (r *RNG) indicesLocked(nnz, limit int) []uint64 {
	if nnz > limit {
		panic("testutil: nnz exceeds capacity")
	}

	seen := make(map[uint64]struct{}, nnz)
	out := make([]uint64, 0, nnz)

	for len(out) < nnz {
		idx := uint64(r.rand.Intn(limit))
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// coordsLocked samples nnz distinct coordinates sorted major-first.
// The major extent comes first, so callers pass (cols, rows) for
// column-major layouts.
func (r *RNG) coordsLocked(major, minor, nnz int) (majorIdx, minorIdx []uint64) {
	pos := r.indicesLocked(nnz, major*minor)

	majorIdx = make([]uint64, nnz)
	minorIdx = make([]uint64, nnz)
	for i, p := range pos {
		majorIdx[i] = p / uint64(minor)
		minorIdx[i] = p % uint64(minor)
	}

	return majorIdx, minorIdx
}

func compressPointers(majorIdx []uint64, nmajor int) []uint64 {
	pointers := make([]uint64, nmajor+1)
	for _, m := range majorIdx {
		pointers[m+1]++
	}
	for i := 1; i <= nmajor; i++ {
		pointers[i] += pointers[i-1]
	}

	return pointers
}

// CSR generates a random rows x cols CSR tensor with nnz stored
// float64 values.
func (r *RNG) CSR(rows, cols, nnz int) *tensor.Tensor {
	r.mu.Lock()
	defer r.mu.Unlock()

	rowIdx, colIdx := r.coordsLocked(rows, cols, nnz)

	return &tensor.Tensor{
		Format: layout.CSR,
		Shape:  []int{rows, cols},
		Type:   dtype.Float64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RolePointers0: tensor.Of(compressPointers(rowIdx, rows)),
			layout.RoleIndices1:  tensor.Of(colIdx),
			layout.RoleValues:    tensor.Of(r.valuesLocked(nnz)),
		},
	}
}

// CSC generates a random rows x cols CSC tensor with nnz stored
// float64 values.
func (r *RNG) CSC(rows, cols, nnz int) *tensor.Tensor {
	r.mu.Lock()
	defer r.mu.Unlock()

	colIdx, rowIdx := r.coordsLocked(cols, rows, nnz)

	return &tensor.Tensor{
		Format: layout.CSC,
		Shape:  []int{rows, cols},
		Type:   dtype.Float64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RolePointers0: tensor.Of(compressPointers(colIdx, cols)),
			layout.RoleIndices1:  tensor.Of(rowIdx),
			layout.RoleValues:    tensor.Of(r.valuesLocked(nnz)),
		},
	}
}

// DCSR generates a random rows x cols DCSR tensor, storing pointers
// only for the rows that carry values.
func (r *RNG) DCSR(rows, cols, nnz int) *tensor.Tensor {
	r.mu.Lock()
	defer r.mu.Unlock()

	rowIdx, colIdx := r.coordsLocked(rows, cols, nnz)

	var distinct []uint64
	pointers := []uint64{0}
	for i, ri := range rowIdx {
		if i == 0 || ri != rowIdx[i-1] {
			distinct = append(distinct, ri)
			pointers = append(pointers, pointers[len(pointers)-1])
		}
		pointers[len(pointers)-1]++
	}

	return &tensor.Tensor{
		Format: layout.DCSR,
		Shape:  []int{rows, cols},
		Type:   dtype.Float64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RoleIndices0:  tensor.Of(distinct),
			layout.RolePointers0: tensor.Of(pointers),
			layout.RoleIndices1:  tensor.Of(colIdx),
			layout.RoleValues:    tensor.Of(r.valuesLocked(nnz)),
		},
	}
}

// COO generates a random rows x cols row-major COO tensor with nnz
// stored float64 values.
func (r *RNG) COO(rows, cols, nnz int) *tensor.Tensor {
	r.mu.Lock()
	defer r.mu.Unlock()

	rowIdx, colIdx := r.coordsLocked(rows, cols, nnz)

	return &tensor.Tensor{
		Format: layout.COOR,
		Shape:  []int{rows, cols},
		Type:   dtype.Float64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RoleRows:   tensor.Of(rowIdx),
			layout.RoleCols:   tensor.Of(colIdx),
			layout.RoleValues: tensor.Of(r.valuesLocked(nnz)),
		},
	}
}

// Vec generates a random sparse vector of the given size with nnz
// stored float64 values.
func (r *RNG) Vec(size, nnz int) *tensor.Tensor {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &tensor.Tensor{
		Format: layout.VEC,
		Shape:  []int{size},
		Type:   dtype.Float64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RoleIndices0: tensor.Of(r.indicesLocked(nnz, size)),
			layout.RoleValues:   tensor.Of(r.valuesLocked(nnz)),
		},
	}
}

// Suite returns one random tensor per storage format, keyed by a
// name usable as a container object name.
func (r *RNG) Suite(rows, cols, nnz int) map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		"csr":  r.CSR(rows, cols, nnz),
		"csc":  r.CSC(rows, cols, nnz),
		"dcsr": r.DCSR(rows, cols, nnz),
		"coo":  r.COO(rows, cols, nnz),
		"vec":  r.Vec(rows*cols, nnz),
	}
}
