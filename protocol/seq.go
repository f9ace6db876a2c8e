// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"fmt"
	"math"
	"reflect"
)

// Count selects the wire type of a sequence element count.
type Count int

const (
	// CountVarInt is a VarInt holding an unsigned 32-bit count (the default).
	CountVarInt Count = iota

	// CountVarLong is a VarInt holding an unsigned 64-bit count.
	CountVarLong

	// CountU8 is a single unsigned byte.
	CountU8

	// CountU16 is a big-endian unsigned 16-bit count.
	CountU16

	// CountI32 is a big-endian signed 32-bit count.
	CountI32
)

// String returns the name used by the `count=` struct tag option.
func (c Count) String() string {
	switch c {
	case CountVarInt:
		return "varint"
	case CountVarLong:
		return "varlong"
	case CountU8:
		return "u8"
	case CountU16:
		return "u16"
	case CountI32:
		return "i32"
	default:
		return fmt.Sprintf("Count(%d)", int(c))
	}
}

// parseCount maps a `count=` struct tag option to a [Count].
func parseCount(name string) (Count, bool) {
	for _, c := range []Count{CountVarInt, CountVarLong, CountU8, CountU16, CountI32} {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

func (c Count) max() uint64 {
	switch c {
	case CountVarLong:
		return math.MaxInt
	case CountU8:
		return math.MaxUint8
	case CountU16:
		return math.MaxUint16
	case CountI32:
		return math.MaxInt32
	default:
		return math.MaxUint32
	}
}

// Write appends n using the count encoding.
//
// Returns [ErrCountTooLarge] when n does not fit the count type.
func (c Count) Write(e *Encoder, n int) error {
	if n < 0 || uint64(n) > c.max() {
		return ErrCountTooLarge
	}
	switch c {
	case CountVarLong:
		e.buf = AppendVar(e.buf, uint64(n))
	case CountU8:
		e.WriteUint8(uint8(n))
	case CountU16:
		e.WriteUint16(uint16(n))
	case CountI32:
		e.WriteInt32(int32(n))
	default:
		e.buf = AppendVar(e.buf, uint32(n))
	}
	return nil
}

// Read consumes a count using the count encoding.
func (c Count) Read(d *Decoder) (int, error) {
	var (
		n   uint64
		err error
	)
	switch c {
	case CountVarLong:
		n, err = ReadVar[uint64](d)
	case CountU8:
		var v uint8
		v, err = d.ReadUint8()
		n = uint64(v)
	case CountU16:
		var v uint16
		v, err = d.ReadUint16()
		n = uint64(v)
	case CountI32:
		var v int32
		v, err = d.ReadInt32()
		if err == nil && v < 0 {
			return 0, ErrInvalidLength
		}
		n = uint64(v)
	default:
		var v uint32
		v, err = ReadVar[uint32](d)
		n = uint64(v)
	}
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt {
		return 0, ErrInvalidLength
	}
	return int(n), nil
}

// WriteSeq appends the element count of items followed by each element.
//
// The first element error is returned immediately.
func WriteSeq[T any](e *Encoder, c Count, items []T, write func(*Encoder, T) error) error {
	if err := c.Write(e, len(items)); err != nil {
		return err
	}
	for _, item := range items {
		if err := write(e, item); err != nil {
			return err
		}
	}
	return nil
}

// MaxAllocation bounds the memory reserved for a sequence whose count
// exceeds the remaining input. Such counts are only satisfiable when the
// elements encode to zero bytes (e.g., empty structs).
const MaxAllocation = 4 << 20

// checkCount fails with [ErrInvalidLength] when n elements of elemSize
// bytes can neither fit the remaining input nor [MaxAllocation].
func checkCount(d *Decoder, n int, elemSize uintptr) error {
	if n <= d.Remaining() {
		return nil
	}
	if uint64(n) > MaxAllocation/uint64(max(elemSize, 1)) {
		return ErrInvalidLength
	}
	return nil
}

// ReadSeq consumes a count followed by exactly that many elements.
//
// The count only sizes the initial allocation up to the remaining input,
// so that elements encoding to zero bytes still decode. Counts that fit
// neither the input nor [MaxAllocation] fail with [ErrInvalidLength]; other
// unsatisfiable counts fail with [ErrUnderrun] while reading elements.
// On the first element error the partial result is discarded.
func ReadSeq[T any](d *Decoder, c Count, read func(*Decoder) (T, error)) ([]T, error) {
	n, err := c.Read(d)
	if err != nil {
		return nil, err
	}
	if err := checkCount(d, n, reflect.TypeFor[T]().Size()); err != nil {
		return nil, err
	}
	out := make([]T, 0, min(n, d.Remaining()))
	for range n {
		item, err := read(d)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
