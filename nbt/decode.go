// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Decode decodes the single tagged value held by buf. The result owns its
// memory. A buf consisting of a lone [TagEnd] decodes to a nil [Value].
func Decode(buf []byte) (Value, error) {
	return decodeAll(buf, false)
}

// DecodeBorrowed is like [Decode] but byte arrays, byte lists and strings
// made only of 0x01..0x7F bytes alias buf. The caller must keep buf alive
// and unmodified while using the result, or [Clone] it.
func DecodeBorrowed(buf []byte) (Value, error) {
	return decodeAll(buf, true)
}

// DecodePrefix decodes the tagged value at the start of buf and returns it
// along with the number of bytes consumed. The result borrows from buf like
// the result of [DecodeBorrowed].
func DecodePrefix(buf []byte) (Value, int, error) {
	d := &decoder{buf: buf, borrow: true}
	v, err := d.readRoot()
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos, nil
}

// DecodeNamed decodes a value written by [EncodeNamed] and returns its root
// name. The result owns its memory.
func DecodeNamed(buf []byte) (string, Value, error) {
	d := &decoder{buf: buf}
	tag, err := d.readTag()
	if err != nil {
		return "", nil, err
	}
	if tag == TagEnd {
		return "", nil, d.finish()
	}
	name, err := d.readString()
	if err != nil {
		return "", nil, err
	}
	v, err := d.readPayload(tag, 0)
	if err != nil {
		return "", nil, err
	}
	return name, v, d.finish()
}

func decodeAll(buf []byte, borrow bool) (Value, error) {
	d := &decoder{buf: buf, borrow: borrow}
	v, err := d.readRoot()
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// decoder is a cursor over an NBT byte sequence.
type decoder struct {
	buf    []byte
	pos    int
	borrow bool
}

func (d *decoder) finish() error {
	if d.pos != len(d.buf) {
		return ErrTrailingData
	}
	return nil
}

func (d *decoder) readRoot() (Value, error) {
	tag, err := d.readTag()
	if err != nil || tag == TagEnd {
		return nil, err
	}
	return d.readPayload(tag, 0)
}

func (d *decoder) next(n int) ([]byte, error) {
	if n < 0 || n > len(d.buf)-d.pos {
		return nil, ErrUnderrun
	}
	b := d.buf[d.pos : d.pos+n : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) readTag() (Tag, error) {
	b, err := d.next(1)
	if err != nil {
		return 0, err
	}
	tag := Tag(b[0])
	if !tag.Valid() {
		return 0, ErrInvalidTag
	}
	return tag, nil
}

func (d *decoder) readU8() (uint8, error) {
	b, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) readU16() (uint16, error) {
	b, err := d.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) readU32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) readU64() (uint64, error) {
	b, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// readCount reads an int32 element count and checks that count elements
// of at least elemSize bytes each fit in the remaining input.
func (d *decoder) readCount(elemSize int) (int, error) {
	u, err := d.readU32()
	if err != nil {
		return 0, err
	}
	n := int(int32(u))
	if n < 0 || n*elemSize > len(d.buf)-d.pos {
		return 0, ErrInvalidLength
	}
	return n, nil
}

func (d *decoder) readString() (string, error) {
	size, err := d.readU16()
	if err != nil {
		return "", err
	}
	b, err := d.next(int(size))
	if err != nil {
		return "", err
	}
	if isPlainMUTF8(b) {
		if d.borrow {
			return bytesAsString(b), nil
		}
		return string(b), nil
	}
	return decodeMUTF8(b)
}

func (d *decoder) readByteArray() ([]byte, error) {
	n, err := d.readCount(1)
	if err != nil {
		return nil, err
	}
	b, err := d.next(n)
	if err != nil {
		return nil, err
	}
	if d.borrow {
		return b, nil
	}
	return append([]byte{}, b...), nil
}

func (d *decoder) readIntArray() ([]int32, error) {
	n, err := d.readCount(4)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		u, _ := d.readU32()
		out[i] = int32(u)
	}
	return out, nil
}

func (d *decoder) readLongArray() ([]int64, error) {
	n, err := d.readCount(8)
	if err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i := range out {
		u, _ := d.readU64()
		out[i] = int64(u)
	}
	return out, nil
}

func (d *decoder) readPayload(tag Tag, depth int) (Value, error) {
	switch tag {
	case TagByte:
		u, err := d.readU8()
		return Byte(int8(u)), err
	case TagShort:
		u, err := d.readU16()
		return Short(int16(u)), err
	case TagInt:
		u, err := d.readU32()
		return Int(int32(u)), err
	case TagLong:
		u, err := d.readU64()
		return Long(int64(u)), err
	case TagFloat:
		u, err := d.readU32()
		return Float(math.Float32frombits(u)), err
	case TagDouble:
		u, err := d.readU64()
		return Double(math.Float64frombits(u)), err
	case TagByteArray:
		v, err := d.readByteArray()
		return ByteArray(v), err
	case TagString:
		v, err := d.readString()
		return String(v), err
	case TagList:
		return d.readList(depth)
	case TagCompound:
		return d.readCompound(depth)
	case TagIntArray:
		v, err := d.readIntArray()
		return IntArray(v), err
	case TagLongArray:
		v, err := d.readLongArray()
		return LongArray(v), err
	default:
		return nil, ErrInvalidTag
	}
}

func (d *decoder) readCompound(depth int) (Compound, error) {
	if depth >= MaxDepth {
		return nil, ErrTooDeep
	}
	c := Compound{}
	for {
		tag, err := d.readTag()
		if err != nil {
			return nil, err
		}
		if tag == TagEnd {
			return c, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		v, err := d.readPayload(tag, depth+1)
		if err != nil {
			return nil, err
		}
		c = append(c, Entry{Name: name, Value: v})
	}
}

func (d *decoder) readList(depth int) (List, error) {
	if depth >= MaxDepth {
		return nil, ErrTooDeep
	}
	elem, err := d.readTag()
	if err != nil {
		return nil, err
	}
	if elem == TagEnd {
		u, err := d.readU32()
		if err != nil {
			return nil, err
		}
		if int32(u) > 0 {
			return nil, ErrEndInList
		}
		return InvalidList{}, nil
	}
	n, err := d.readCount(minPayloadSize(elem))
	if err != nil {
		return nil, err
	}
	depth++
	switch elem {
	case TagByte:
		b, _ := d.next(n)
		if d.borrow {
			return ByteList(bytesAsInt8(b)), nil
		}
		out := make(ByteList, n)
		for i, c := range b {
			out[i] = int8(c)
		}
		return out, nil
	case TagShort:
		return readElems(n, func() (int16, error) {
			u, err := d.readU16()
			return int16(u), err
		}, func(v []int16) List { return ShortList(v) })
	case TagInt:
		return readElems(n, func() (int32, error) {
			u, err := d.readU32()
			return int32(u), err
		}, func(v []int32) List { return IntList(v) })
	case TagLong:
		return readElems(n, func() (int64, error) {
			u, err := d.readU64()
			return int64(u), err
		}, func(v []int64) List { return LongList(v) })
	case TagFloat:
		return readElems(n, func() (float32, error) {
			u, err := d.readU32()
			return math.Float32frombits(u), err
		}, func(v []float32) List { return FloatList(v) })
	case TagDouble:
		return readElems(n, func() (float64, error) {
			u, err := d.readU64()
			return math.Float64frombits(u), err
		}, func(v []float64) List { return DoubleList(v) })
	case TagByteArray:
		return readElems(n, d.readByteArray, func(v [][]byte) List { return ByteArrayList(v) })
	case TagString:
		return readElems(n, d.readString, func(v []string) List { return StringList(v) })
	case TagList:
		return readElems(n, func() (List, error) {
			return d.readList(depth)
		}, func(v []List) List { return ListList(v) })
	case TagCompound:
		return readElems(n, func() (Compound, error) {
			return d.readCompound(depth)
		}, func(v []Compound) List { return CompoundList(v) })
	case TagIntArray:
		return readElems(n, d.readIntArray, func(v [][]int32) List { return IntArrayList(v) })
	default: // TagLongArray
		return readElems(n, d.readLongArray, func(v [][]int64) List { return LongArrayList(v) })
	}
}

func readElems[T any](n int, read func() (T, error), wrap func([]T) List) (List, error) {
	out := make([]T, 0, n)
	for range n {
		v, err := read()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return wrap(out), nil
}

// bytesAsInt8 reinterprets b as a slice of int8 sharing the same memory.
func bytesAsInt8(b []byte) []int8 {
	if len(b) == 0 {
		return []int8{}
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(unsafe.SliceData(b))), len(b))
}

// bytesAsString returns a string sharing memory with b.
func bytesAsString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
