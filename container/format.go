package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/tensor"
)

const (
	// MagicNumber identifies a serialized container. The file starts
	// with the bytes "SCDF" when the header is read little-endian.
	MagicNumber = 0x46444353

	// FormatVersion is the current binary format version.
	FormatVersion = 1

	headerSize = 16
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported container version")
	ErrChecksum       = errors.New("checksum mismatch")
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

const (
	flagScalar  = 1 << 0
	flagWritten = 1 << 1
)

// Encode serializes the container.
//
// Layout: a 16-byte header (magic, version, CRC32C of the body, group
// count) followed by the root group block and one block per subgroup
// in creation order. All integers are little-endian; element data is
// stored raw at the width of its type code, bool as the bytes 0 and 1.
func (m *Memory) Encode() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	body := appendGroup(nil, m.root)
	for _, name := range m.order {
		body = appendGroup(body, m.groups[name])
	}

	buf := make([]byte, headerSize, headerSize+len(body))
	binary.LittleEndian.PutUint32(buf[0:], MagicNumber)
	binary.LittleEndian.PutUint32(buf[4:], FormatVersion)
	binary.LittleEndian.PutUint32(buf[8:], crc32.Checksum(body, crcTable))
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(m.order)))

	return append(buf, body...), nil
}

// Decode deserializes a container produced by Encode.
func Decode(data []byte) (*Memory, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("container: %d bytes is too small for a header", len(data))
	}

	if binary.LittleEndian.Uint32(data[0:]) != MagicNumber {
		return nil, ErrInvalidMagic
	}

	if v := binary.LittleEndian.Uint32(data[4:]); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}

	body := data[headerSize:]
	if sum := binary.LittleEndian.Uint32(data[8:]); crc32.Checksum(body, crcTable) != sum {
		return nil, ErrChecksum
	}

	ngroups := int(binary.LittleEndian.Uint32(data[12:]))

	m := NewMemory()
	r := &sliceReader{buf: body}

	if err := readGroupInto(r, m.root); err != nil {
		return nil, err
	}

	for i := 0; i < ngroups; i++ {
		name, err := r.str()
		if err != nil {
			return nil, err
		}

		g, err := m.CreateGroup(name)
		if err != nil {
			return nil, fmt.Errorf("container: decode group %q: %w", name, err)
		}

		if err := readGroupBody(r, g); err != nil {
			return nil, fmt.Errorf("container: decode group %q: %w", name, err)
		}
	}

	if r.off != len(r.buf) {
		return nil, fmt.Errorf("container: %d trailing bytes", len(r.buf)-r.off)
	}

	return m, nil
}

// EncodeTo writes the serialized container to w.
func (m *Memory) EncodeTo(w io.Writer) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("container: %w", err)
	}

	return nil
}

// DecodeFrom reads a serialized container from r.
func DecodeFrom(r io.Reader) (*Memory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}

	return Decode(data)
}

func appendGroup(buf []byte, g *memGroup) []byte {
	buf = appendStr(buf, g.name)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.attrOrder)))
	for _, key := range g.attrOrder {
		buf = appendStr(buf, key)
		buf = appendStr(buf, g.attrs[key])
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.order)))
	for _, name := range g.order {
		buf = appendVar(buf, g.vars[name])
	}

	return buf
}

func appendVar(buf []byte, v *memVar) []byte {
	buf = appendStr(buf, v.info.Name)
	buf = appendStr(buf, string(v.info.Code))

	var flags byte
	if v.info.Scalar {
		flags |= flagScalar
	}
	if v.written {
		flags |= flagWritten
	}
	buf = append(buf, flags)

	buf = binary.LittleEndian.AppendUint64(buf, uint64(v.info.Len))

	if !v.written {
		return buf
	}

	if v.info.Scalar {
		return appendScalarData(buf, v.scalar, v.info.Code)
	}

	return appendArrayData(buf, v.arr)
}

func appendStr(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// appendArrayData writes elements at the width of the array's type
// code. Bool arrays are canonicalized to their i1 byte form first.
func appendArrayData(buf []byte, a tensor.Array) []byte {
	if a.Type() == dtype.Bool {
		a, _ = a.As(dtype.Int8)
	}

	switch v := a.Data().(type) {
	case []int8:
		for _, x := range v {
			buf = append(buf, byte(x))
		}
	case []uint8:
		buf = append(buf, v...)
	case []int16:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(x))
		}
	case []uint16:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint16(buf, x)
		}
	case []int32:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(x))
		}
	case []uint32:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, x)
		}
	case []int64:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(x))
		}
	case []uint64:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint64(buf, x)
		}
	case []float32:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
		}
	case []float64:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
		}
	}

	return buf
}

func appendScalarData(buf []byte, s tensor.Scalar, code dtype.Code) []byte {
	var bits uint64
	switch s.Type().Class() {
	case dtype.ClassBool:
		if s.Bool() {
			bits = 1
		}
	case dtype.ClassInt:
		bits = uint64(s.Int64())
	case dtype.ClassUint:
		bits = s.Uint64()
	case dtype.ClassFloat:
		if code == dtype.CodeF4 {
			bits = uint64(math.Float32bits(float32(s.Float64())))
		} else {
			bits = math.Float64bits(s.Float64())
		}
	}

	switch code.Size() {
	case 1:
		return append(buf, byte(bits))
	case 2:
		return binary.LittleEndian.AppendUint16(buf, uint16(bits))
	case 4:
		return binary.LittleEndian.AppendUint32(buf, uint32(bits))
	default:
		return binary.LittleEndian.AppendUint64(buf, bits)
	}
}

type sliceReader struct {
	buf []byte
	off int
}

func (r *sliceReader) bytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, fmt.Errorf("container: truncated at offset %d", r.off)
	}

	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *sliceReader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *sliceReader) u64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *sliceReader) byte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *sliceReader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}

	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// readGroupInto consumes a full group block, including the leading
// name, into an existing group. Used for the root group.
func readGroupInto(r *sliceReader, g Group) error {
	if _, err := r.str(); err != nil {
		return err
	}
	return readGroupBody(r, g)
}

func readGroupBody(r *sliceReader, g Group) error {
	nattrs, err := r.u32()
	if err != nil {
		return err
	}

	for i := uint32(0); i < nattrs; i++ {
		key, err := r.str()
		if err != nil {
			return err
		}

		val, err := r.str()
		if err != nil {
			return err
		}

		if err := g.SetAttr(key, val); err != nil {
			return err
		}
	}

	nvars, err := r.u32()
	if err != nil {
		return err
	}

	for i := uint32(0); i < nvars; i++ {
		if err := readVar(r, g); err != nil {
			return err
		}
	}

	return nil
}

func readVar(r *sliceReader, g Group) error {
	name, err := r.str()
	if err != nil {
		return err
	}

	codeStr, err := r.str()
	if err != nil {
		return err
	}

	code := dtype.Code(codeStr)
	elem, err := code.Type()
	if err != nil {
		return fmt.Errorf("container: variable %q: %w", name, err)
	}

	flags, err := r.byte()
	if err != nil {
		return err
	}

	length64, err := r.u64()
	if err != nil {
		return err
	}

	if length64 > uint64(len(r.buf)) {
		return fmt.Errorf("container: variable %q claims %d elements", name, length64)
	}
	length := int(length64)

	if flags&flagScalar != 0 {
		v, err := g.CreateScalar(name, code)
		if err != nil {
			return err
		}

		if flags&flagWritten == 0 {
			return nil
		}

		bits, err := readBits(r, code.Size())
		if err != nil {
			return err
		}

		return v.WriteScalar(scalarFromBits(bits, elem))
	}

	v, err := g.CreateArray(name, code, length)
	if err != nil {
		return err
	}

	if flags&flagWritten == 0 {
		return nil
	}

	raw, err := r.bytes(length * elem.Size())
	if err != nil {
		return err
	}

	return v.WriteArray(arrayFromBytes(raw, elem, length))
}

func readBits(r *sliceReader, size int) (uint64, error) {
	b, err := r.bytes(size)
	if err != nil {
		return 0, err
	}

	switch size {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	default:
		return binary.LittleEndian.Uint64(b), nil
	}
}

func scalarFromBits(bits uint64, elem dtype.Type) tensor.Scalar {
	switch elem {
	case dtype.Int8:
		return tensor.ScalarOf(int8(bits))
	case dtype.Int16:
		return tensor.ScalarOf(int16(bits))
	case dtype.Int32:
		return tensor.ScalarOf(int32(bits))
	case dtype.Int64:
		return tensor.ScalarOf(int64(bits))
	case dtype.Uint8:
		return tensor.ScalarOf(uint8(bits))
	case dtype.Uint16:
		return tensor.ScalarOf(uint16(bits))
	case dtype.Uint32:
		return tensor.ScalarOf(uint32(bits))
	case dtype.Uint64:
		return tensor.ScalarOf(bits)
	case dtype.Float32:
		return tensor.ScalarOf(math.Float32frombits(uint32(bits)))
	default:
		return tensor.ScalarOf(math.Float64frombits(bits))
	}
}

func arrayFromBytes(raw []byte, elem dtype.Type, length int) tensor.Array {
	switch elem {
	case dtype.Int8:
		out := make([]int8, length)
		for i := range out {
			out[i] = int8(raw[i])
		}
		return tensor.Of(out)
	case dtype.Int16:
		out := make([]int16, length)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		return tensor.Of(out)
	case dtype.Int32:
		out := make([]int32, length)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return tensor.Of(out)
	case dtype.Int64:
		out := make([]int64, length)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return tensor.Of(out)
	case dtype.Uint8:
		out := make([]uint8, length)
		copy(out, raw)
		return tensor.Of(out)
	case dtype.Uint16:
		out := make([]uint16, length)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(raw[i*2:])
		}
		return tensor.Of(out)
	case dtype.Uint32:
		out := make([]uint32, length)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
		return tensor.Of(out)
	case dtype.Uint64:
		out := make([]uint64, length)
		for i := range out {
			out[i] = binary.LittleEndian.Uint64(raw[i*8:])
		}
		return tensor.Of(out)
	case dtype.Float32:
		out := make([]float32, length)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return tensor.Of(out)
	default:
		out := make([]float64, length)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return tensor.Of(out)
	}
}
