// Package codec converts sparse tensors to and from their stored
// form: a JSON metadata record plus the named physical arrays of the
// tensor's layout.
//
// Encode resolves the tensor's layout schema, validates every
// constituent array against its symbolic size expression and emits an
// Object. Decode is the exact inverse and re-validates everything it
// reads, so a decoded tensor is always internally consistent.
// Iso-valued tensors are special-cased on both paths: the values array
// is never materialized and the shared value travels inside the
// metadata record instead.
//
// WriteObject and ReadObject bind the codec to a container group,
// storing the metadata record under the "metadata" attribute and each
// array as a typed variable named after its role.
package codec
