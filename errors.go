package sparsecdf

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sparsecdf/codec"
	"github.com/hupe1980/sparsecdf/container"
	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/layout"
)

var (
	// ErrVersionMismatch is returned when opening a container whose root
	// version attribute is absent or names a version this package does
	// not read.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrClosedSession is returned by operations on a closed Writer or
	// Reader, including sessions poisoned by a storage failure.
	ErrClosedSession = errors.New("closed session")
)

// Component sentinels re-exported so callers can match every failure
// mode with errors.Is against this package alone.
var (
	// ErrUnknownFormat is returned for a format identifier outside the
	// closed layout set.
	ErrUnknownFormat = layout.ErrUnknownFormat

	// ErrMissingArray is returned when a constituent array the layout
	// schema requires is absent.
	ErrMissingArray = layout.ErrMissingArray

	// ErrUnexpectedArray is returned when an array the layout schema
	// does not define is present.
	ErrUnexpectedArray = layout.ErrUnexpectedArray

	// ErrSizeMismatch is returned when an array length disagrees with
	// the layout schema's size expression.
	ErrSizeMismatch = layout.ErrSizeMismatch

	// ErrTypeMismatch is returned when element types, interchange names
	// and container codes disagree.
	ErrTypeMismatch = dtype.ErrTypeMismatch

	// ErrMalformedMetadata is returned for metadata records that cannot
	// be parsed or lack required fields.
	ErrMalformedMetadata = codec.ErrMalformedMetadata

	// ErrDuplicateName is returned when a write would reuse an object
	// name, including a second unnamed primary.
	ErrDuplicateName = container.ErrDuplicateName

	// ErrNotFound is returned when a named object does not exist.
	ErrNotFound = container.ErrNotFound
)

// translateError folds container-level closure into the session
// taxonomy so callers only ever match ErrClosedSession.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, container.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosedSession, err)
	}

	return err
}
