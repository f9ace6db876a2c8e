// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import "encoding/binary"

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement.
//
// It shares the bit layout of [Uint128]; converting between the two
// reinterprets the bits.
type Int128 Uint128

// IsZero returns whether all the bits are zero.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

func (u Uint128) rsh7() Uint128 {
	return Uint128{Hi: u.Hi >> 7, Lo: u.Lo>>7 | u.Hi<<57}
}

// AppendVar128 appends the VarInt encoding of u to dst.
func AppendVar128(dst []byte, u Uint128) []byte {
	for u.Hi != 0 || u.Lo >= 0x80 {
		dst = append(dst, byte(u.Lo)|0x80)
		u = u.rsh7()
	}
	return append(dst, byte(u.Lo))
}

// ReadVar128 decodes a VarInt holding a 128-bit value.
func (d *Decoder) ReadVar128() (Uint128, error) {
	var u Uint128
	for i := range MaxVarLen(128) {
		b, err := d.ReadByte()
		if err != nil {
			return Uint128{}, err
		}
		group := uint64(b & 0x7f)
		shift := uint(7 * i)
		if shift < 64 {
			u.Lo |= group << shift
			u.Hi |= group >> (64 - shift)
		} else {
			u.Hi |= group << (shift - 64)
		}
		if b&0x80 == 0 {
			return u, nil
		}
	}
	return Uint128{}, ErrVarIntTooLong
}

// WriteField implements [FieldWriter] using the fixed-width big-endian encoding.
func (u Uint128) WriteField(e *Encoder) error {
	e.buf = binary.BigEndian.AppendUint64(e.buf, u.Hi)
	e.buf = binary.BigEndian.AppendUint64(e.buf, u.Lo)
	return nil
}

// ReadField implements [FieldReader] using the fixed-width big-endian encoding.
func (u *Uint128) ReadField(d *Decoder) error {
	raw, err := d.ReadBytesN(16)
	if err != nil {
		return err
	}
	u.Hi = binary.BigEndian.Uint64(raw[:8])
	u.Lo = binary.BigEndian.Uint64(raw[8:])
	return nil
}

// SizeHint implements [SizeHinter].
func (Uint128) SizeHint() int {
	return 16
}

// WriteField implements [FieldWriter].
func (i Int128) WriteField(e *Encoder) error {
	return Uint128(i).WriteField(e)
}

// ReadField implements [FieldReader].
func (i *Int128) ReadField(d *Decoder) error {
	return (*Uint128)(i).ReadField(d)
}

// SizeHint implements [SizeHinter].
func (Int128) SizeHint() int {
	return 16
}
