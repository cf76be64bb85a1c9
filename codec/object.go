package codec

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/sparsecdf/container"
	"github.com/hupe1980/sparsecdf/layout"
	"github.com/hupe1980/sparsecdf/tensor"
)

// WriteObject encodes a tensor and stores it into a container group:
// the metadata record under the "metadata" attribute and one typed
// variable per constituent array, named after its role and created in
// schema order.
func WriteObject(g container.Group, t *tensor.Tensor) error {
	o, err := Encode(t)
	if err != nil {
		return err
	}

	return WriteEncoded(g, o)
}

// WriteEncoded stores an already validated object into a container
// group. Every returned error is a storage failure, never a
// validation one.
//
// Arrays written before a failure are not rolled back; staging and
// committing is the caller's concern.
func WriteEncoded(g container.Group, o *Object) error {
	f, err := layout.ParseFormat(o.Meta.Format)
	if err != nil {
		return err
	}

	data, err := gojson.Marshal(&o.Meta)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedMetadata, err)
	}

	if err := g.SetAttr(AttrMetadata, string(data)); err != nil {
		return err
	}

	schema := f.Schema()
	for _, rs := range schema.Roles {
		a, ok := o.Arrays[rs.Role]
		if !ok {
			// The values role of an iso-valued tensor lives in the
			// metadata record.
			continue
		}

		v, err := g.CreateArray(string(rs.Role), a.Type().Code(), a.Len())
		if err != nil {
			return err
		}

		if err := v.WriteArray(a); err != nil {
			return err
		}
	}

	return nil
}

// ReadMetadata returns the metadata record of the group without
// touching any array data.
func ReadMetadata(g container.Group) (*Metadata, error) {
	raw, ok := g.Attr(AttrMetadata)
	if !ok {
		return nil, fmt.Errorf("%w: no metadata attribute", ErrMalformedMetadata)
	}

	return ParseMetadata([]byte(raw))
}

// ReadObject materializes every variable of the group and decodes the
// stored object back into a tensor. Variables the layout schema does
// not define fail the decode, so a group always reads back as exactly
// the tensor that was written.
func ReadObject(g container.Group) (*tensor.Tensor, error) {
	meta, err := ReadMetadata(g)
	if err != nil {
		return nil, err
	}

	arrays := make(map[layout.Role]tensor.Array)
	for _, info := range g.Variables() {
		if info.Scalar {
			return nil, fmt.Errorf("%w: scalar variable %q", layout.ErrUnexpectedArray, info.Name)
		}

		v, err := g.Variable(info.Name)
		if err != nil {
			return nil, err
		}

		a, err := v.ReadArray()
		if err != nil {
			return nil, err
		}

		arrays[layout.Role(info.Name)] = a
	}

	return Decode(&Object{Meta: *meta, Arrays: arrays})
}
