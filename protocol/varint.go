// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import "unsafe"

// Integer is the set of integer types with a VarInt encoding.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// MaxVarLen returns the maximum number of bytes of a VarInt holding
// an integer with the given bit width, that is ceil(bits/7).
func MaxVarLen(bits int) int {
	return (bits + 6) / 7
}

// bitsOf returns the bit width of the integer type T.
func bitsOf[T Integer]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// unsignedBits returns the bit pattern of v zero-extended to 64 bits,
// so that the sign bits of narrow signed types do not leak into the encoding.
func unsignedBits[T Integer](v T) uint64 {
	u := uint64(v)
	if bits := bitsOf[T](); bits < 64 {
		u &= 1<<bits - 1
	}
	return u
}

// AppendVar appends the VarInt encoding of v to dst.
//
// Negative values are encoded using their two's complement bit pattern
// within the width of T: a -1 int32 takes five bytes, a -1 int8 two.
func AppendVar[T Integer](dst []byte, v T) []byte {
	u := unsignedBits(v)
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

// VarSize returns the number of bytes [AppendVar] emits for v.
func VarSize[T Integer](v T) int {
	u := unsignedBits(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

// ReadVar decodes a VarInt holding a value of type T.
//
// Returns [ErrUnderrun] when the input ends while a continuation byte is
// expected and [ErrVarIntTooLong] when MaxVarLen bytes have been consumed
// and the last one still has its continuation bit set.
func ReadVar[T Integer](d *Decoder) (T, error) {
	u, err := d.readVarBits(bitsOf[T]())
	if err != nil {
		return 0, err
	}
	return T(u), nil
}

func (d *Decoder) readVarBits(bits int) (uint64, error) {
	var acc uint64
	limit := MaxVarLen(bits)
	for i := range limit {
		b, err := d.ReadByte()
		if err != nil {
			return 0, err
		}
		acc |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return acc, nil
		}
	}
	return 0, ErrVarIntTooLong
}

// Var marks an integer field as VarInt encoded.
//
// It is the type-level equivalent of the `mc:"varint"` struct tag.
type Var[T Integer] struct {
	V T
}

var (
	_ FieldWriter = Var[int32]{}
	_ FieldReader = &Var[int32]{}
	_ SizeHinter  = Var[int32]{}
)

// WriteField implements [FieldWriter].
func (v Var[T]) WriteField(e *Encoder) error {
	e.buf = AppendVar(e.buf, v.V)
	return nil
}

// ReadField implements [FieldReader].
func (v *Var[T]) ReadField(d *Decoder) (err error) {
	v.V, err = ReadVar[T](d)
	return
}

// SizeHint implements [SizeHinter].
func (Var[T]) SizeHint() int {
	return 1
}
