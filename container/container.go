package container

import (
	"errors"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/tensor"
)

var (
	// ErrDuplicateName is returned when a group or variable name is
	// already taken.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNotFound is returned when a group or variable does not exist.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("container is closed")
)

// VarInfo describes a variable of a group.
type VarInfo struct {
	// Name is the variable name within its group.
	Name string

	// Code is the container-native element type code.
	Code dtype.Code

	// Len is the number of elements; 0 for scalar variables.
	Len int

	// Scalar marks a dimensionless variable holding a single element.
	Scalar bool
}

// Store is a hierarchical typed container: a root group plus one flat
// level of named subgroups, each holding typed variables and string
// attributes.
//
// Implementations need not be safe for concurrent use unless
// documented otherwise.
type Store interface {
	// Root returns the root group.
	Root() Group

	// CreateGroup creates a named subgroup. Names must be unique;
	// a collision returns ErrDuplicateName.
	CreateGroup(name string) (Group, error)

	// Group returns an existing subgroup or ErrNotFound.
	Group(name string) (Group, error)

	// Groups lists subgroup names in creation order.
	Groups() []string

	// Close releases the store. Closing twice is a no-op.
	Close() error
}

// Group is a named collection of typed variables and string
// attributes.
type Group interface {
	// Name returns the group name; "/" for the root group.
	Name() string

	// CreateArray declares a one-dimensional variable of fixed length
	// and element code. The name must be unused or the call returns
	// ErrDuplicateName.
	CreateArray(name string, code dtype.Code, length int) (Variable, error)

	// CreateScalar declares a dimensionless variable.
	CreateScalar(name string, code dtype.Code) (Variable, error)

	// Variable returns an existing variable or ErrNotFound.
	Variable(name string) (Variable, error)

	// Variables describes all variables in creation order.
	Variables() []VarInfo

	// SetAttr sets a string attribute, replacing any previous value.
	SetAttr(key, value string) error

	// Attr returns a string attribute and whether it is set.
	Attr(key string) (string, bool)
}

// Variable is a typed array or scalar slot within a group.
type Variable interface {
	// Info describes the variable.
	Info() VarInfo

	// WriteArray fills an array variable. The array must match the
	// declared length and code.
	WriteArray(a tensor.Array) error

	// ReadArray returns the stored elements. The caller must not
	// mutate the backing slice.
	ReadArray() (tensor.Array, error)

	// WriteScalar fills a scalar variable with a value of the
	// declared code.
	WriteScalar(s tensor.Scalar) error

	// ReadScalar returns the stored scalar.
	ReadScalar() (tensor.Scalar, error)
}
