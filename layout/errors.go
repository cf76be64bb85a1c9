package layout

import "errors"

var (
	// ErrUnknownFormat is returned when a format identifier is not one
	// of the supported storage layouts.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrMissingArray is returned when a required constituent array of
	// a layout is absent.
	ErrMissingArray = errors.New("missing array")

	// ErrUnexpectedArray is returned when an array is present that the
	// layout does not define.
	ErrUnexpectedArray = errors.New("unexpected array")

	// ErrSizeMismatch is returned when an array length disagrees with
	// the length prescribed by the layout.
	ErrSizeMismatch = errors.New("size mismatch")
)
