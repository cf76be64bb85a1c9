package layout

import (
	"fmt"
	"sort"
)

// SizeExpr is a symbolic array length, evaluated against the extents
// of a concrete tensor.
type SizeExpr uint8

const (
	// SizeNVals is the number of stored entries.
	SizeNVals SizeExpr = iota
	// SizeRowsPlusOne is the row count plus one.
	SizeRowsPlusOne
	// SizeColsPlusOne is the column count plus one.
	SizeColsPlusOne
	// SizeNonempty is the number of non-empty rows or columns of a
	// doubly compressed layout.
	SizeNonempty
	// SizeNonemptyPlusOne is SizeNonempty plus one.
	SizeNonemptyPlusOne
)

// String returns the symbolic form of the expression, e.g. "nrows+1".
func (e SizeExpr) String() string {
	switch e {
	case SizeNVals:
		return "nvals"
	case SizeRowsPlusOne:
		return "nrows+1"
	case SizeColsPlusOne:
		return "ncols+1"
	case SizeNonempty:
		return "nonempty"
	case SizeNonemptyPlusOne:
		return "nonempty+1"
	default:
		return "invalid"
	}
}

// Extents carries the concrete dimensions a SizeExpr is evaluated
// against: the tensor shape, the number of stored entries and, for
// doubly compressed layouts, the number of non-empty major slices.
type Extents struct {
	Shape    []int
	NVals    int
	Nonempty int
}

// Eval returns the concrete length of the expression, or -1 when the
// shape lacks the required dimension.
func (e SizeExpr) Eval(ext Extents) int {
	switch e {
	case SizeNVals:
		return ext.NVals
	case SizeRowsPlusOne:
		if len(ext.Shape) < 1 {
			return -1
		}
		return ext.Shape[0] + 1
	case SizeColsPlusOne:
		if len(ext.Shape) < 2 {
			return -1
		}
		return ext.Shape[1] + 1
	case SizeNonempty:
		return ext.Nonempty
	case SizeNonemptyPlusOne:
		return ext.Nonempty + 1
	default:
		return -1
	}
}

// RoleSpec pairs a constituent array role with its symbolic length.
type RoleSpec struct {
	Role Role
	Size SizeExpr
}

// Schema is the complete array layout of a format: which roles exist
// and how long each must be. Values is always the last role.
type Schema struct {
	Format Format
	Kind   Kind
	Roles  []RoleSpec
}

// Schema returns the array layout of the format. It panics on an
// invalid format; use ParseFormat to validate identifiers first.
func (f Format) Schema() Schema {
	switch f {
	case CSR:
		return Schema{Format: f, Kind: KindMatrix, Roles: []RoleSpec{
			{RolePointers0, SizeRowsPlusOne},
			{RoleIndices1, SizeNVals},
			{RoleValues, SizeNVals},
		}}
	case CSC:
		return Schema{Format: f, Kind: KindMatrix, Roles: []RoleSpec{
			{RolePointers0, SizeColsPlusOne},
			{RoleIndices1, SizeNVals},
			{RoleValues, SizeNVals},
		}}
	case DCSR, DCSC:
		return Schema{Format: f, Kind: KindMatrix, Roles: []RoleSpec{
			{RoleIndices0, SizeNonempty},
			{RolePointers0, SizeNonemptyPlusOne},
			{RoleIndices1, SizeNVals},
			{RoleValues, SizeNVals},
		}}
	case COOR, COOC:
		return Schema{Format: f, Kind: KindMatrix, Roles: []RoleSpec{
			{RoleRows, SizeNVals},
			{RoleCols, SizeNVals},
			{RoleValues, SizeNVals},
		}}
	case VEC:
		return Schema{Format: f, Kind: KindVector, Roles: []RoleSpec{
			{RoleIndices0, SizeNVals},
			{RoleValues, SizeNVals},
		}}
	default:
		panic(fmt.Sprintf("layout: no schema for format %d", f))
	}
}

// Spec returns the role spec for r and whether the schema defines it.
func (s Schema) Spec(r Role) (RoleSpec, bool) {
	for _, rs := range s.Roles {
		if rs.Role == r {
			return rs, true
		}
	}
	return RoleSpec{}, false
}

// CardinalityRole returns the structure role whose length equals the
// entry count. It determines nvals when the values array is replaced
// by an iso scalar.
func (s Schema) CardinalityRole() (Role, bool) {
	for _, rs := range s.Roles {
		if rs.Role != RoleValues && rs.Size == SizeNVals {
			return rs.Role, true
		}
	}
	return "", false
}

// Validate checks a set of array lengths against the schema. Every
// role the schema defines must be present with exactly the length its
// size expression evaluates to, and no other arrays may be present.
// With iso set, the values role must be absent; its entry count is
// carried by the structure arrays instead.
func (s Schema) Validate(ext Extents, lengths map[Role]int, iso bool) error {
	for _, rs := range s.Roles {
		if iso && rs.Role == RoleValues {
			continue
		}

		n, ok := lengths[rs.Role]
		if !ok {
			return fmt.Errorf("%w: %s requires %q", ErrMissingArray, s.Format, rs.Role)
		}

		if want := rs.Size.Eval(ext); n != want {
			return fmt.Errorf("%w: %s array %q has length %d, want %s = %d", ErrSizeMismatch, s.Format, rs.Role, n, rs.Size, want)
		}
	}

	extra := make([]Role, 0, len(lengths))
	for r := range lengths {
		if _, ok := s.Spec(r); !ok {
			extra = append(extra, r)
		} else if iso && r == RoleValues {
			extra = append(extra, r)
		}
	}

	if len(extra) > 0 {
		sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
		if iso && extra[0] == RoleValues {
			return fmt.Errorf("%w: %s carries a values array alongside an iso value", ErrUnexpectedArray, s.Format)
		}
		return fmt.Errorf("%w: %s does not define %q", ErrUnexpectedArray, s.Format, extra[0])
	}

	return nil
}
