package layout

import (
	"fmt"
	"strings"
)

// Format identifies a sparse storage layout.
type Format uint8

const (
	// FormatInvalid represents an invalid layout.
	FormatInvalid Format = iota
	// CSR is compressed sparse row: row pointers plus column indices.
	CSR
	// CSC is compressed sparse column: column pointers plus row indices.
	CSC
	// DCSR is doubly compressed sparse row: only non-empty rows are
	// materialized, with their row numbers in a separate index array.
	DCSR
	// DCSC is doubly compressed sparse column.
	DCSC
	// COOR is coordinate layout with entries sorted row-major.
	COOR
	// COOC is coordinate layout with entries sorted column-major.
	COOC
	// VEC is the sparse vector layout: indices plus values.
	VEC
)

// Kind is the dimensionality class of a layout.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindMatrix marks rank-2 layouts.
	KindMatrix
	// KindVector marks rank-1 layouts.
	KindVector
)

// Rank returns the number of shape dimensions of the kind.
func (k Kind) Rank() int {
	switch k {
	case KindMatrix:
		return 2
	case KindVector:
		return 1
	default:
		return 0
	}
}

// Role names one constituent array of a layout. Role names double as
// the variable names under which arrays are stored in a container
// group and as the keys of the data_types metadata map.
type Role string

const (
	// RolePointers0 is the compressed pointer array of CSR, CSC, DCSR
	// and DCSC.
	RolePointers0 Role = "pointers_0"
	// RoleIndices0 is the secondary index array: non-empty row or
	// column numbers for DCSR and DCSC, element indices for VEC.
	RoleIndices0 Role = "indices_0"
	// RoleIndices1 is the per-entry minor index array of CSR, CSC,
	// DCSR and DCSC.
	RoleIndices1 Role = "indices_1"
	// RoleRows is the per-entry row array of the coordinate layouts.
	RoleRows Role = "rows"
	// RoleCols is the per-entry column array of the coordinate layouts.
	RoleCols Role = "cols"
	// RoleValues is the element value array. For iso-valued tensors it
	// is replaced by a scalar in the metadata record.
	RoleValues Role = "values"
)

// Formats returns all supported layouts in declaration order.
func Formats() []Format {
	return []Format{CSR, CSC, DCSR, DCSC, COOR, COOC, VEC}
}

// Valid reports whether f is a supported layout.
func (f Format) Valid() bool {
	return f > FormatInvalid && f <= VEC
}

// String returns the canonical format identifier, e.g. "CSR".
func (f Format) String() string {
	switch f {
	case CSR:
		return "CSR"
	case CSC:
		return "CSC"
	case DCSR:
		return "DCSR"
	case DCSC:
		return "DCSC"
	case COOR:
		return "COOR"
	case COOC:
		return "COOC"
	case VEC:
		return "VEC"
	default:
		return "invalid"
	}
}

// Kind returns the dimensionality class of the layout.
func (f Format) Kind() Kind {
	switch f {
	case CSR, CSC, DCSR, DCSC, COOR, COOC:
		return KindMatrix
	case VEC:
		return KindVector
	default:
		return KindInvalid
	}
}

// ParseFormat resolves a format identifier to its layout. Matching is
// case-insensitive and the alias "COO" is accepted for COOR.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
func ParseFormat(s string) (Format, error) {
	id := strings.ToUpper(s)
	if id == "COO" {
		return COOR, nil
	}

	for _, f := range Formats() {
		if f.String() == id {
			return f, nil
		}
	}

	return FormatInvalid, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}
