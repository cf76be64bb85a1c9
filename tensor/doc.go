// Package tensor holds sparse matrices and vectors as the constituent
// arrays of their storage layout.
//
// A Tensor is a passive value: format, shape, element type and a set
// of role-keyed arrays, optionally with an iso scalar standing in for
// the values array. Encoding, decoding and all validation live in the
// codec package; ValidateStructure offers an opt-in consistency check
// for tensors assembled from untrusted parts.
package tensor
