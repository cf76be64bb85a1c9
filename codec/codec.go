package codec

import (
	"fmt"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/layout"
	"github.com/hupe1980/sparsecdf/tensor"
)

// Object is the stored form of a tensor: the metadata record plus the
// physical arrays it references. Objects are transient values passed
// between the codec and a container location.
type Object struct {
	Meta   Metadata
	Arrays map[layout.Role]tensor.Array
}

// Encode converts a tensor into its stored form. Every constituent
// array is checked against the layout schema for presence, length and
// element type; iso-valued tensors emit no values array and carry the
// shared value in the metadata record instead.
func Encode(t *tensor.Tensor) (*Object, error) {
	if !t.Format.Valid() {
		return nil, fmt.Errorf("%w: %s", layout.ErrUnknownFormat, t.Format)
	}

	if !t.Type.Valid() {
		return nil, fmt.Errorf("%w: invalid element type", dtype.ErrTypeMismatch)
	}

	schema := t.Format.Schema()
	if len(t.Shape) != schema.Kind.Rank() {
		return nil, fmt.Errorf("%w: %s wants %d dimensions, shape has %d", layout.ErrSizeMismatch, t.Format, schema.Kind.Rank(), len(t.Shape))
	}

	for i, dim := range t.Shape {
		if dim < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d at axis %d", layout.ErrSizeMismatch, dim, i)
		}
	}

	ext, err := t.Extents()
	if err != nil {
		return nil, err
	}

	lengths := make(map[layout.Role]int, len(t.Arrays))
	for role, a := range t.Arrays {
		lengths[role] = a.Len()
	}

	if err := schema.Validate(ext, lengths, t.IsIso()); err != nil {
		return nil, err
	}

	if err := checkElementTypes(t, schema); err != nil {
		return nil, err
	}

	meta := Metadata{
		Format:    schema.Format.String(),
		Shape:     t.Shape,
		DataTypes: make(map[layout.Role]dtype.Name, len(t.Arrays)+1),
		Comment:   t.Comment,
	}

	arrays := make(map[layout.Role]tensor.Array, len(t.Arrays))
	for role, a := range t.Arrays {
		meta.DataTypes[role] = a.Type().Name()
		arrays[role] = a
	}

	// The values entry names the element type even when the array is
	// replaced by an iso value.
	meta.DataTypes[layout.RoleValues] = t.Type.Name()

	if t.IsIso() {
		iso := IsoOf(*t.Iso)
		meta.Iso = &iso
	}

	return &Object{Meta: meta, Arrays: arrays}, nil
}

// checkElementTypes verifies that the values array or iso scalar match
// the tensor's element type and that every structure array holds
// integers. It runs after schema validation, so all required roles are
// present.
func checkElementTypes(t *tensor.Tensor, schema layout.Schema) error {
	if t.IsIso() {
		if t.Iso.Type() != t.Type {
			return fmt.Errorf("%w: iso value is %s, tensor is %s", dtype.ErrTypeMismatch, t.Iso.Type(), t.Type)
		}
	} else if a := t.Arrays[layout.RoleValues]; a.Type() != t.Type {
		return fmt.Errorf("%w: values array is %s, tensor is %s", dtype.ErrTypeMismatch, a.Type(), t.Type)
	}

	for _, rs := range schema.Roles {
		if rs.Role == layout.RoleValues {
			continue
		}

		switch c := t.Arrays[rs.Role].Type().Class(); c {
		case dtype.ClassInt, dtype.ClassUint:
		default:
			return fmt.Errorf("%w: array %q holds %s elements, want integers", dtype.ErrTypeMismatch, rs.Role, t.Arrays[rs.Role].Type())
		}
	}

	return nil
}

// Decode converts a stored object back into a tensor. It is the exact
// inverse of Encode and re-validates the metadata record, the declared
// element types and every array length, so the returned tensor is
// internally consistent or the call fails.
func Decode(o *Object) (*tensor.Tensor, error) {
	if err := o.Meta.Validate(); err != nil {
		return nil, err
	}

	f, err := layout.ParseFormat(o.Meta.Format)
	if err != nil {
		return nil, err
	}

	schema := f.Schema()
	if len(o.Meta.Shape) != schema.Kind.Rank() {
		return nil, fmt.Errorf("%w: %s wants %d dimensions, shape has %d", ErrMalformedMetadata, f, schema.Kind.Rank(), len(o.Meta.Shape))
	}

	name, ok := o.Meta.DataTypes[layout.RoleValues]
	if !ok {
		return nil, fmt.Errorf("%w: data_types has no entry for %q", ErrMalformedMetadata, layout.RoleValues)
	}

	et, err := dtype.ParseName(name)
	if err != nil {
		return nil, err
	}

	var iso *tensor.Scalar
	if o.Meta.Iso != nil {
		s, err := o.Meta.Iso.Scalar(et)
		if err != nil {
			return nil, err
		}
		iso = &s
	}

	lengths := make(map[layout.Role]int, len(o.Arrays))
	for role, a := range o.Arrays {
		lengths[role] = a.Len()
	}

	ext, err := storedExtents(f, schema, o.Meta.Shape, o.Arrays, iso != nil)
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(ext, lengths, iso != nil); err != nil {
		return nil, err
	}

	// Containers store booleans under the shared i1 code; the declared
	// interchange name recovers the exact element type per array.
	arrays := make(map[layout.Role]tensor.Array, len(o.Arrays))
	for role, a := range o.Arrays {
		declared, ok := o.Meta.DataTypes[role]
		if !ok {
			return nil, fmt.Errorf("%w: data_types has no entry for %q", ErrMalformedMetadata, role)
		}

		rt, err := dtype.Resolve(declared, a.Type().Code())
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", role, err)
		}

		typed := a
		if rt != a.Type() {
			typed, err = a.As(rt)
			if err != nil {
				return nil, fmt.Errorf("array %q: %w", role, err)
			}
		}

		arrays[role] = typed
	}

	return &tensor.Tensor{
		Format:  f,
		Shape:   o.Meta.Shape,
		Type:    et,
		Arrays:  arrays,
		Iso:     iso,
		Comment: o.Meta.Comment,
	}, nil
}

// storedExtents recomputes the schema extents from the arrays actually
// read back, so stored lengths are re-validated rather than trusted.
func storedExtents(f layout.Format, schema layout.Schema, shape []int, arrays map[layout.Role]tensor.Array, iso bool) (layout.Extents, error) {
	ext := layout.Extents{Shape: shape}

	cardinality := layout.RoleValues
	if iso {
		role, ok := schema.CardinalityRole()
		if !ok {
			return layout.Extents{}, fmt.Errorf("%w: %s", layout.ErrUnknownFormat, f)
		}
		cardinality = role
	}

	a, ok := arrays[cardinality]
	if !ok {
		return layout.Extents{}, fmt.Errorf("%w: %s requires %q", layout.ErrMissingArray, f, cardinality)
	}
	ext.NVals = a.Len()

	if f == layout.DCSR || f == layout.DCSC {
		idx, ok := arrays[layout.RoleIndices0]
		if !ok {
			return layout.Extents{}, fmt.Errorf("%w: %s requires %q", layout.ErrMissingArray, f, layout.RoleIndices0)
		}
		ext.Nonempty = idx.Len()
	}

	return ext, nil
}
