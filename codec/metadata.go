package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/layout"
	"github.com/hupe1980/sparsecdf/tensor"
)

// ErrMalformedMetadata is returned when a metadata record cannot be
// parsed or lacks a required field.
var ErrMalformedMetadata = errors.New("malformed metadata")

const (
	// AttrMetadata is the group attribute holding the JSON metadata
	// record of a stored object.
	AttrMetadata = "metadata"

	// AttrVersion is the root attribute naming the container format
	// version.
	AttrVersion = "version"

	// Version is the container format version this package writes and
	// accepts.
	Version = "1.0"
)

// Metadata is the JSON record describing one stored object. It is
// stored as a group attribute next to the physical arrays it refers
// to.
//
// DataTypes maps every stored array to the interchange name of its
// element type and always carries an entry for the values role, even
// when the values array is replaced by an iso value.
type Metadata struct {
	Format    string                     `json:"format"`
	Shape     []int                      `json:"shape"`
	DataTypes map[layout.Role]dtype.Name `json:"data_types"`
	Iso       *IsoValue                  `json:"iso_value,omitempty"`
	Comment   string                     `json:"comment,omitempty"`
}

// ParseMetadata decodes and validates a metadata record.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := gojson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMetadata, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks that the record carries the three mandatory fields
// and a well-formed shape. Format resolution and size checks are the
// decoder's concern.
func (m *Metadata) Validate() error {
	if m.Format == "" {
		return fmt.Errorf("%w: no format", ErrMalformedMetadata)
	}

	if m.Shape == nil {
		return fmt.Errorf("%w: no shape", ErrMalformedMetadata)
	}

	for i, dim := range m.Shape {
		if dim < 0 {
			return fmt.Errorf("%w: negative dimension %d at axis %d", ErrMalformedMetadata, dim, i)
		}
	}

	if m.DataTypes == nil {
		return fmt.Errorf("%w: no data_types", ErrMalformedMetadata)
	}

	return nil
}

// IsoKind identifies the JSON value kind of an iso value.
type IsoKind uint8

const (
	// IsoInvalid represents an unset iso value.
	IsoInvalid IsoKind = iota
	// IsoBool is a JSON boolean.
	IsoBool
	// IsoInt is a JSON number without fraction or exponent.
	IsoInt
	// IsoUint is a JSON integer too large for int64.
	IsoUint
	// IsoFloat is a JSON number carrying a fraction or exponent.
	IsoFloat
)

// String returns the kind as it reads in error messages.
func (k IsoKind) String() string {
	switch k {
	case IsoBool:
		return "bool"
	case IsoInt, IsoUint:
		return "integer"
	case IsoFloat:
		return "float"
	default:
		return "invalid"
	}
}

// IsoValue is the shared element value of an iso-valued tensor as it
// appears in a metadata record. It preserves the JSON value kind so
// the record can be checked against the declared element type before
// any conversion takes place.
type IsoValue struct {
	kind IsoKind
	b    bool
	i    int64
	u    uint64
	f    float64
}

// IsoOf converts a scalar into its metadata representation.
func IsoOf(s tensor.Scalar) IsoValue {
	switch s.Type().Class() {
	case dtype.ClassBool:
		return IsoValue{kind: IsoBool, b: s.Bool()}
	case dtype.ClassInt:
		return IsoValue{kind: IsoInt, i: s.Int64()}
	case dtype.ClassUint:
		return IsoValue{kind: IsoUint, u: s.Uint64()}
	case dtype.ClassFloat:
		return IsoValue{kind: IsoFloat, f: s.Float64()}
	default:
		return IsoValue{}
	}
}

// Kind returns the JSON value kind.
func (v IsoValue) Kind() IsoKind { return v.kind }

// AsBool returns the boolean value if the kind is IsoBool.
func (v IsoValue) AsBool() (bool, bool) {
	if v.kind != IsoBool {
		return false, false
	}
	return v.b, true
}

// AsInt64 returns the signed value if the kind is an integer that fits
// int64.
func (v IsoValue) AsInt64() (int64, bool) {
	switch v.kind {
	case IsoInt:
		return v.i, true
	case IsoUint:
		if v.u <= math.MaxInt64 {
			return int64(v.u), true
		}
	}
	return 0, false
}

// AsUint64 returns the unsigned value if the kind is a non-negative
// integer.
func (v IsoValue) AsUint64() (uint64, bool) {
	switch v.kind {
	case IsoUint:
		return v.u, true
	case IsoInt:
		if v.i >= 0 {
			return uint64(v.i), true
		}
	}
	return 0, false
}

// AsFloat64 returns the numeric value widened to float64 if the kind
// is numeric.
func (v IsoValue) AsFloat64() (float64, bool) {
	switch v.kind {
	case IsoFloat:
		return v.f, true
	case IsoInt:
		return float64(v.i), true
	case IsoUint:
		return float64(v.u), true
	}
	return 0, false
}

// String returns the JSON spelling of the value.
func (v IsoValue) String() string {
	switch v.kind {
	case IsoBool:
		return strconv.FormatBool(v.b)
	case IsoInt:
		return strconv.FormatInt(v.i, 10)
	case IsoUint:
		return strconv.FormatUint(v.u, 10)
	case IsoFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return "invalid"
	}
}

// MarshalJSON encodes the value as a bare JSON scalar. NaN and the
// infinities have no JSON representation and are rejected.
func (v IsoValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case IsoBool:
		return strconv.AppendBool(nil, v.b), nil
	case IsoInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case IsoUint:
		return strconv.AppendUint(nil, v.u, 10), nil
	case IsoFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("%w: iso value %v has no JSON representation", ErrMalformedMetadata, v.f)
		}
		return gojson.Marshal(v.f)
	default:
		return nil, fmt.Errorf("%w: iso value is unset", ErrMalformedMetadata)
	}
}

// UnmarshalJSON decodes a bare JSON scalar, classifying its kind.
// Integer tokens beyond the int64 range are kept unsigned; anything
// that is not a number or boolean is malformed.
func (v *IsoValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))

	switch s {
	case "true":
		*v = IsoValue{kind: IsoBool, b: true}
		return nil
	case "false":
		*v = IsoValue{kind: IsoBool}
		return nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*v = IsoValue{kind: IsoInt, i: i}
		return nil
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		*v = IsoValue{kind: IsoUint, u: u}
		return nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*v = IsoValue{kind: IsoFloat, f: f}
		return nil
	}

	return fmt.Errorf("%w: iso value %s is not a number or boolean", ErrMalformedMetadata, s)
}

// Scalar converts the iso value into a scalar of the declared element
// type. The JSON value kind must be compatible with the type's class:
// booleans convert only to bool, integer kinds convert to any numeric
// type they fit, and fractional kinds convert to floats only.
func (v IsoValue) Scalar(t dtype.Type) (tensor.Scalar, error) {
	switch t.Class() {
	case dtype.ClassBool:
		if v.kind != IsoBool {
			return tensor.Scalar{}, v.mismatch(t)
		}
		return tensor.ScalarOf(v.b), nil

	case dtype.ClassInt:
		switch v.kind {
		case IsoInt:
			return signedScalar(t, v.i)
		case IsoUint:
			if v.u > math.MaxInt64 {
				return tensor.Scalar{}, v.rangeError(t)
			}
			return signedScalar(t, int64(v.u))
		default:
			return tensor.Scalar{}, v.mismatch(t)
		}

	case dtype.ClassUint:
		switch v.kind {
		case IsoUint:
			return unsignedScalar(t, v.u)
		case IsoInt:
			if v.i < 0 {
				return tensor.Scalar{}, v.rangeError(t)
			}
			return unsignedScalar(t, uint64(v.i))
		default:
			return tensor.Scalar{}, v.mismatch(t)
		}

	case dtype.ClassFloat:
		f, ok := v.AsFloat64()
		if !ok {
			return tensor.Scalar{}, v.mismatch(t)
		}
		if t == dtype.Float32 {
			return tensor.ScalarOf(float32(f)), nil
		}
		return tensor.ScalarOf(f), nil

	default:
		return tensor.Scalar{}, fmt.Errorf("%w: invalid element type", dtype.ErrTypeMismatch)
	}
}

func (v IsoValue) mismatch(t dtype.Type) error {
	return fmt.Errorf("%w: iso value of kind %s for %s element type", dtype.ErrTypeMismatch, v.kind, t)
}

func (v IsoValue) rangeError(t dtype.Type) error {
	return fmt.Errorf("%w: iso value %s does not fit %s", dtype.ErrTypeMismatch, v, t)
}

func signedScalar(t dtype.Type, i int64) (tensor.Scalar, error) {
	switch t {
	case dtype.Int8:
		if i < math.MinInt8 || i > math.MaxInt8 {
			break
		}
		return tensor.ScalarOf(int8(i)), nil
	case dtype.Int16:
		if i < math.MinInt16 || i > math.MaxInt16 {
			break
		}
		return tensor.ScalarOf(int16(i)), nil
	case dtype.Int32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			break
		}
		return tensor.ScalarOf(int32(i)), nil
	case dtype.Int64:
		return tensor.ScalarOf(i), nil
	}
	return tensor.Scalar{}, fmt.Errorf("%w: iso value %d does not fit %s", dtype.ErrTypeMismatch, i, t)
}

func unsignedScalar(t dtype.Type, u uint64) (tensor.Scalar, error) {
	switch t {
	case dtype.Uint8:
		if u > math.MaxUint8 {
			break
		}
		return tensor.ScalarOf(uint8(u)), nil
	case dtype.Uint16:
		if u > math.MaxUint16 {
			break
		}
		return tensor.ScalarOf(uint16(u)), nil
	case dtype.Uint32:
		if u > math.MaxUint32 {
			break
		}
		return tensor.ScalarOf(uint32(u)), nil
	case dtype.Uint64:
		return tensor.ScalarOf(u), nil
	}
	return tensor.Scalar{}, fmt.Errorf("%w: iso value %d does not fit %s", dtype.ErrTypeMismatch, u, t)
}
