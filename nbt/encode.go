// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MaxDepth is the maximum number of nested compounds and lists.
const MaxDepth = 512

// AppendValue appends the tag and payload of v to dst.
//
// A nil v is written as a single [TagEnd] byte, which is how the network
// protocol represents an absent value. On error the returned slice is dst
// with nothing appended.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	start := len(dst)
	if v == nil {
		return append(dst, byte(TagEnd)), nil
	}
	dst = append(dst, byte(v.Tag()))
	dst, err := v.appendPayload(dst, 0)
	if err != nil {
		return dst[:start], err
	}
	return dst, nil
}

// AppendNamed is like [AppendValue] but writes name between the tag and
// the payload, as done by the root of NBT files.
func AppendNamed(dst []byte, name string, v Value) ([]byte, error) {
	start := len(dst)
	if v == nil {
		return append(dst, byte(TagEnd)), nil
	}
	dst = append(dst, byte(v.Tag()))
	dst, err := appendString(dst, name)
	if err == nil {
		dst, err = v.appendPayload(dst, 0)
	}
	if err != nil {
		return dst[:start], err
	}
	return dst, nil
}

// Encode writes v to w using a single Write call.
func Encode(w io.Writer, v Value) error {
	buf, err := AppendValue(nil, v)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// EncodeNamed writes v with a root name to w using a single Write call.
func EncodeNamed(w io.Writer, name string, v Value) error {
	buf, err := AppendNamed(nil, name, v)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func appendCount(dst []byte, n int) ([]byte, error) {
	if n > math.MaxInt32 {
		return dst, ErrArrayTooLong
	}
	return binary.BigEndian.AppendUint32(dst, uint32(n)), nil
}

func appendString(dst []byte, s string) ([]byte, error) {
	n := mutf8Len(s)
	if n > math.MaxUint16 {
		return dst, ErrStringTooLong
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	return appendMUTF8(dst, s), nil
}

func appendByteArray(dst []byte, v []byte) ([]byte, error) {
	dst, err := appendCount(dst, len(v))
	if err != nil {
		return dst, err
	}
	return append(dst, v...), nil
}

func appendIntArray(dst []byte, v []int32) ([]byte, error) {
	dst, err := appendCount(dst, len(v))
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		dst = binary.BigEndian.AppendUint32(dst, uint32(x))
	}
	return dst, nil
}

func appendLongArray(dst []byte, v []int64) ([]byte, error) {
	dst, err := appendCount(dst, len(v))
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		dst = binary.BigEndian.AppendUint64(dst, uint64(x))
	}
	return dst, nil
}

func (v Byte) appendPayload(dst []byte, _ int) ([]byte, error) {
	return append(dst, byte(v)), nil
}

func (v Short) appendPayload(dst []byte, _ int) ([]byte, error) {
	return binary.BigEndian.AppendUint16(dst, uint16(v)), nil
}

func (v Int) appendPayload(dst []byte, _ int) ([]byte, error) {
	return binary.BigEndian.AppendUint32(dst, uint32(v)), nil
}

func (v Long) appendPayload(dst []byte, _ int) ([]byte, error) {
	return binary.BigEndian.AppendUint64(dst, uint64(v)), nil
}

func (v Float) appendPayload(dst []byte, _ int) ([]byte, error) {
	return binary.BigEndian.AppendUint32(dst, math.Float32bits(float32(v))), nil
}

func (v Double) appendPayload(dst []byte, _ int) ([]byte, error) {
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(float64(v))), nil
}

func (v ByteArray) appendPayload(dst []byte, _ int) ([]byte, error) {
	return appendByteArray(dst, v)
}

func (v String) appendPayload(dst []byte, _ int) ([]byte, error) {
	return appendString(dst, string(v))
}

func (v IntArray) appendPayload(dst []byte, _ int) ([]byte, error) {
	return appendIntArray(dst, v)
}

func (v LongArray) appendPayload(dst []byte, _ int) ([]byte, error) {
	return appendLongArray(dst, v)
}

func (c Compound) appendPayload(dst []byte, depth int) ([]byte, error) {
	if depth >= MaxDepth {
		return dst, ErrTooDeep
	}
	var err error
	for _, entry := range c {
		if entry.Value == nil {
			return dst, fmt.Errorf("%w: compound entry %q", ErrNilValue, entry.Name)
		}
		dst = append(dst, byte(entry.Value.Tag()))
		if dst, err = appendString(dst, entry.Name); err != nil {
			return dst, err
		}
		if dst, err = entry.Value.appendPayload(dst, depth+1); err != nil {
			return dst, err
		}
	}
	return append(dst, byte(TagEnd)), nil
}

// appendList writes the element tag, the count and the elements. Empty
// typed lists keep their element tag.
func appendList[T any](dst []byte, elem Tag, items []T, depth int,
	write func(dst []byte, item T, depth int) ([]byte, error)) ([]byte, error) {
	if depth >= MaxDepth {
		return dst, ErrTooDeep
	}
	dst = append(dst, byte(elem))
	dst, err := appendCount(dst, len(items))
	if err != nil {
		return dst, err
	}
	for _, item := range items {
		if dst, err = write(dst, item, depth+1); err != nil {
			return dst, err
		}
	}
	return dst, nil
}

func (l ByteList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagByte, l, depth, func(dst []byte, v int8, _ int) ([]byte, error) {
		return append(dst, byte(v)), nil
	})
}

func (l ShortList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagShort, l, depth, func(dst []byte, v int16, _ int) ([]byte, error) {
		return binary.BigEndian.AppendUint16(dst, uint16(v)), nil
	})
}

func (l IntList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagInt, l, depth, func(dst []byte, v int32, _ int) ([]byte, error) {
		return binary.BigEndian.AppendUint32(dst, uint32(v)), nil
	})
}

func (l LongList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagLong, l, depth, func(dst []byte, v int64, _ int) ([]byte, error) {
		return binary.BigEndian.AppendUint64(dst, uint64(v)), nil
	})
}

func (l FloatList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagFloat, l, depth, func(dst []byte, v float32, _ int) ([]byte, error) {
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(v)), nil
	})
}

func (l DoubleList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagDouble, l, depth, func(dst []byte, v float64, _ int) ([]byte, error) {
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(v)), nil
	})
}

func (l ByteArrayList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagByteArray, l, depth, func(dst []byte, v []byte, _ int) ([]byte, error) {
		return appendByteArray(dst, v)
	})
}

func (l StringList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagString, l, depth, func(dst []byte, v string, _ int) ([]byte, error) {
		return appendString(dst, v)
	})
}

func (l ListList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagList, l, depth, func(dst []byte, v List, depth int) ([]byte, error) {
		if v == nil {
			return dst, fmt.Errorf("%w: list element", ErrNilValue)
		}
		return v.appendPayload(dst, depth)
	})
}

func (l CompoundList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagCompound, l, depth, func(dst []byte, v Compound, depth int) ([]byte, error) {
		return v.appendPayload(dst, depth)
	})
}

func (l IntArrayList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagIntArray, l, depth, func(dst []byte, v []int32, _ int) ([]byte, error) {
		return appendIntArray(dst, v)
	})
}

func (l LongArrayList) appendPayload(dst []byte, depth int) ([]byte, error) {
	return appendList(dst, TagLongArray, l, depth, func(dst []byte, v []int64, _ int) ([]byte, error) {
		return appendLongArray(dst, v)
	})
}

func (InvalidList) appendPayload(dst []byte, _ int) ([]byte, error) {
	return append(dst, byte(TagEnd), 0, 0, 0, 0), nil
}
