package tensor

import (
	"fmt"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/layout"
)

// Tensor is a sparse matrix or vector held as the constituent arrays
// of its storage layout. It is a passive value: construct one with a
// struct literal and hand it to an encoder, which performs all
// validation.
type Tensor struct {
	// Format is the storage layout the arrays follow.
	Format layout.Format

	// Shape is the logical extent per dimension: [rows, cols] for
	// matrix layouts, [size] for VEC.
	Shape []int

	// Type is the element type of the stored values.
	Type dtype.Type

	// Arrays holds the constituent arrays keyed by role. Iso-valued
	// tensors omit the values role.
	Arrays map[layout.Role]Array

	// Iso, when set, marks the tensor iso-valued: every stored entry
	// carries this value and no values array is materialized.
	Iso *Scalar

	// Comment is free-form text carried in the metadata record. It is
	// never interpreted.
	Comment string
}

// IsIso reports whether the tensor carries an iso value instead of a
// values array.
func (t *Tensor) IsIso() bool { return t.Iso != nil }

// Array returns the constituent array for a role and whether it is
// present.
func (t *Tensor) Array(r layout.Role) (Array, bool) {
	a, ok := t.Arrays[r]
	return a, ok
}

// NVals returns the number of stored entries. It is the length of the
// values array or, for iso-valued tensors, the length of the structure
// array that has one element per entry.
func (t *Tensor) NVals() (int, error) {
	if !t.IsIso() {
		a, ok := t.Arrays[layout.RoleValues]
		if !ok {
			return 0, fmt.Errorf("%w: %s requires %q", layout.ErrMissingArray, t.Format, layout.RoleValues)
		}
		return a.Len(), nil
	}

	role, ok := t.Format.Schema().CardinalityRole()
	if !ok {
		return 0, fmt.Errorf("%w: %s", layout.ErrUnknownFormat, t.Format)
	}

	a, ok := t.Arrays[role]
	if !ok {
		return 0, fmt.Errorf("%w: %s requires %q", layout.ErrMissingArray, t.Format, role)
	}

	return a.Len(), nil
}

// Extents derives the concrete dimensions the layout schema is
// evaluated against. For doubly compressed layouts the non-empty
// slice count is the number of distinct major-axis indices in the
// indices_0 array, so an array carrying duplicates evaluates shorter
// than its length and fails schema validation.
func (t *Tensor) Extents() (layout.Extents, error) {
	nvals, err := t.NVals()
	if err != nil {
		return layout.Extents{}, err
	}

	ext := layout.Extents{Shape: t.Shape, NVals: nvals}
	if t.Format == layout.DCSR || t.Format == layout.DCSC {
		a, ok := t.Arrays[layout.RoleIndices0]
		if !ok {
			return layout.Extents{}, fmt.Errorf("%w: %s requires %q", layout.ErrMissingArray, t.Format, layout.RoleIndices0)
		}

		n, err := a.DistinctCount()
		if err != nil {
			return layout.Extents{}, fmt.Errorf("array %q: %w", layout.RoleIndices0, err)
		}

		ext.Nonempty = n
	}

	return ext, nil
}

// Equal reports whether two tensors are structurally identical:
// same layout, shape, element type, constituent arrays and iso value.
// Comments do not participate.
func (t *Tensor) Equal(o *Tensor) bool {
	if t == nil || o == nil {
		return t == o
	}

	if t.Format != o.Format || t.Type != o.Type || len(t.Shape) != len(o.Shape) {
		return false
	}

	for i := range t.Shape {
		if t.Shape[i] != o.Shape[i] {
			return false
		}
	}

	if t.IsIso() != o.IsIso() {
		return false
	}

	if t.IsIso() && !t.Iso.Equal(*o.Iso) {
		return false
	}

	if len(t.Arrays) != len(o.Arrays) {
		return false
	}

	for role, a := range t.Arrays {
		b, ok := o.Arrays[role]
		if !ok || !a.Equal(b) {
			return false
		}
	}

	return true
}
