// Package dtype defines the element types of sparse tensors and the
// mapping between their three representations.
//
// # Representations
//
//   - Type: the in-memory element type (Bool, Int8, ..., Float64)
//   - Name: the portable interchange identifier stored in metadata ("bool", "float64")
//   - Code: the container-native type code used to declare storage ("i1", "f8")
//
// Codes carry only width and numeric kind, so Bool and Int8 share the
// "i1" code. The interchange name is authoritative: Resolve pairs a
// name with the declared code and recovers the exact element type, or
// reports ErrTypeMismatch when the two disagree.
package dtype
