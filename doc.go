// Package sparsecdf stores sparse matrices and vectors in typed-array
// containers.
//
// A tensor's constituent arrays (pointers, indices, values) are laid
// out by a closed set of storage formats (CSR, CSC, DCSR, DCSC, COOR,
// COOC, VEC) and written next to a JSON metadata record that names the
// format, shape and element types. Reading reverses the mapping and
// re-validates every structural invariant, so a container either
// round-trips exactly or fails with a precise error.
//
// # Quick Start
//
// Write and read a single matrix:
//
//	m := &tensor.Tensor{
//	    Format: layout.CSR,
//	    Shape:  []int{4, 4},
//	    Type:   dtype.Float64,
//	    Arrays: map[layout.Role]tensor.Array{
//	        layout.RolePointers0: tensor.Of([]uint64{0, 2, 2, 3, 6}),
//	        layout.RoleIndices1:  tensor.Of([]uint64{0, 1, 2, 0, 1, 3}),
//	        layout.RoleValues:    tensor.Of([]float64{1, 2, 3, 4, 5, 6}),
//	    },
//	}
//
//	_ = sparsecdf.WriteFile("adjacency", m) // writes adjacency.scdf
//	got, _ := sparsecdf.ReadFile("adjacency")
//
// Sessions hold multiple objects: one unnamed primary plus uniquely
// named secondaries, each in its own container group:
//
//	w, _ := sparsecdf.CreateFile("graph.scdf")
//	_ = w.Write(adjacency)
//	_ = w.Write(degrees, sparsecdf.WithName("row_degrees"))
//	_ = w.Close() // stamps the version attribute and writes the file
//
//	r, _ := sparsecdf.OpenFile("graph.scdf")
//	defer r.Close()
//	info, _ := r.Info() // metadata only, no array data touched
//
// Containers are plain blobs, so the same sessions run against any
// blobstore backend:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("tensors/"))
//	w, _ := sparsecdf.Create(ctx, store, "graph.scdf")
//
// # Key Features
//
//   - Seven storage formats with symbolic per-array size checking
//   - Three-way type fidelity: Go element type, interchange name,
//     container code (bool survives its int8 storage form)
//   - Iso-valued tensors store a single scalar instead of a values
//     array
//   - Sentinel error taxonomy matched with errors.Is
//   - Atomic file publication (temp file + rename)
//   - Pluggable byte storage: local disk, memory, S3, MinIO
package sparsecdf

import "github.com/hupe1980/sparsecdf/codec"

// Version is the storage format version stamped on a container's root
// attribute by Writer.Close and required verbatim by NewReader.
const Version = codec.Version
