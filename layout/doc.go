// Package layout defines the supported sparse storage layouts and the
// array schema of each.
//
// A Schema lists the constituent arrays of a layout by Role together
// with a symbolic SizeExpr for each, e.g. CSR is pointers_0 (nrows+1),
// indices_1 (nvals) and values (nvals). Schema.Validate evaluates the
// expressions against concrete Extents and checks a set of array
// lengths for missing, unexpected and mis-sized arrays.
package layout
