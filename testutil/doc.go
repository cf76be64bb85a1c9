// Package testutil provides testing utilities for sparsecdf.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded thread-safe RNG and generators for random
// sparse tensors in each supported storage format.
//
// # Random Tensor Generation
//
//	rng := testutil.NewRNG(42)
//	m := rng.CSR(1000, 1000, 5000)  // 1000x1000, 5000 stored values
//	v := rng.Vec(1<<20, 1024)
//
// Generators always produce structurally valid tensors: sorted,
// deduplicated coordinates and consistent pointer arrays.
package testutil
