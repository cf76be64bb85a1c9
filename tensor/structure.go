package tensor

import (
	"errors"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/sparsecdf/layout"
)

// ErrInvalidStructure is returned when the constituent arrays of a
// tensor violate the internal consistency rules of its layout.
var ErrInvalidStructure = errors.New("invalid structure")

// ValidateStructure checks the internal consistency of the tensor
// beyond plain array lengths: pointer arrays must be monotone and
// span all entries, index arrays must stay within the shape, and no
// row, column or coordinate may be stored twice. Entry order is not
// constrained.
//
// Encoders do not call this; it is an opt-in integrity check for
// callers assembling tensors from untrusted parts.
func (t *Tensor) ValidateStructure() error {
	kind := t.Format.Kind()
	if kind == layout.KindInvalid {
		return fmt.Errorf("%w: %s", layout.ErrUnknownFormat, t.Format)
	}

	if len(t.Shape) != kind.Rank() {
		return fmt.Errorf("%w: %s wants %d dimensions, shape has %d", ErrInvalidStructure, t.Format, kind.Rank(), len(t.Shape))
	}

	for i, dim := range t.Shape {
		if dim < 0 {
			return fmt.Errorf("%w: negative dimension %d at axis %d", ErrInvalidStructure, dim, i)
		}
	}

	nvals, err := t.NVals()
	if err != nil {
		return err
	}

	switch t.Format {
	case layout.CSR:
		return t.validateCompressed(nvals, t.Shape[0], t.Shape[1], false)
	case layout.CSC:
		return t.validateCompressed(nvals, t.Shape[1], t.Shape[0], false)
	case layout.DCSR:
		return t.validateCompressed(nvals, t.Shape[0], t.Shape[1], true)
	case layout.DCSC:
		return t.validateCompressed(nvals, t.Shape[1], t.Shape[0], true)
	case layout.COOR, layout.COOC:
		return t.validateCoordinates(nvals)
	case layout.VEC:
		return t.validateVector()
	default:
		return fmt.Errorf("%w: %s", layout.ErrUnknownFormat, t.Format)
	}
}

func (t *Tensor) validateCompressed(nvals, major, minor int, doubly bool) error {
	segments := major

	if doubly {
		idx, err := t.indexArray(layout.RoleIndices0)
		if err != nil {
			return err
		}

		if err := checkDistinct(layout.RoleIndices0, idx, major); err != nil {
			return err
		}

		segments = len(idx)
	}

	ptr, err := t.indexArray(layout.RolePointers0)
	if err != nil {
		return err
	}

	if err := checkPointers(ptr, segments, nvals); err != nil {
		return err
	}

	minors, err := t.indexArray(layout.RoleIndices1)
	if err != nil {
		return err
	}

	return checkBounds(layout.RoleIndices1, minors, minor)
}

func (t *Tensor) validateCoordinates(nvals int) error {
	rows, err := t.indexArray(layout.RoleRows)
	if err != nil {
		return err
	}

	cols, err := t.indexArray(layout.RoleCols)
	if err != nil {
		return err
	}

	if err := checkBounds(layout.RoleRows, rows, t.Shape[0]); err != nil {
		return err
	}

	if err := checkBounds(layout.RoleCols, cols, t.Shape[1]); err != nil {
		return err
	}

	// Coordinates pack into one uint64 as long as both dimensions fit
	// in 32 bits; larger shapes skip the duplicate check.
	if t.Shape[0] > math.MaxUint32 || t.Shape[1] > math.MaxUint32 {
		return nil
	}

	seen := roaring64.New()
	for i := range rows {
		seen.Add(rows[i]<<32 | cols[i])
	}

	if int(seen.GetCardinality()) != nvals {
		return fmt.Errorf("%w: duplicate coordinates in %s", ErrInvalidStructure, t.Format)
	}

	return nil
}

func (t *Tensor) validateVector() error {
	idx, err := t.indexArray(layout.RoleIndices0)
	if err != nil {
		return err
	}

	return checkDistinct(layout.RoleIndices0, idx, t.Shape[0])
}

func (t *Tensor) indexArray(role layout.Role) ([]uint64, error) {
	a, ok := t.Arrays[role]
	if !ok {
		return nil, fmt.Errorf("%w: %s requires %q", layout.ErrMissingArray, t.Format, role)
	}

	idx, err := a.Indices()
	if err != nil {
		return nil, fmt.Errorf("array %q: %w", role, err)
	}

	return idx, nil
}

// checkPointers verifies a compressed pointer array: one entry per
// segment plus one, starting at zero, monotone, ending at nvals.
func checkPointers(ptr []uint64, segments, nvals int) error {
	if len(ptr) != segments+1 {
		return fmt.Errorf("%w: pointer array has length %d, want %d", ErrInvalidStructure, len(ptr), segments+1)
	}

	if ptr[0] != 0 {
		return fmt.Errorf("%w: pointer array starts at %d", ErrInvalidStructure, ptr[0])
	}

	for i := 1; i < len(ptr); i++ {
		if ptr[i] < ptr[i-1] {
			return fmt.Errorf("%w: pointer array decreases at position %d", ErrInvalidStructure, i)
		}
	}

	if ptr[len(ptr)-1] != uint64(nvals) {
		return fmt.Errorf("%w: pointer array ends at %d, want %d", ErrInvalidStructure, ptr[len(ptr)-1], nvals)
	}

	return nil
}

func checkBounds(role layout.Role, idx []uint64, dim int) error {
	for i, v := range idx {
		if v >= uint64(dim) {
			return fmt.Errorf("%w: %s[%d] = %d exceeds dimension %d", ErrInvalidStructure, role, i, v, dim)
		}
	}
	return nil
}

// DistinctCount returns the number of distinct elements of an
// integer-typed array. Doubly compressed layouts use it to derive the
// non-empty slice count from the array of major-axis indices.
func (a Array) DistinctCount() (int, error) {
	idx, err := a.Indices()
	if err != nil {
		return 0, err
	}

	seen := roaring64.New()
	seen.AddMany(idx)

	return int(seen.GetCardinality()), nil
}

// checkDistinct verifies bounds and that no index occurs twice.
func checkDistinct(role layout.Role, idx []uint64, dim int) error {
	if err := checkBounds(role, idx, dim); err != nil {
		return err
	}

	seen := roaring64.New()
	seen.AddMany(idx)

	if int(seen.GetCardinality()) != len(idx) {
		return fmt.Errorf("%w: duplicate entries in %s", ErrInvalidStructure, role)
	}

	return nil
}
