// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
	"unsafe"
)

// Decoder is a cursor over a byte buffer.
//
// The buffer is never modified. Methods with View in their name return
// values aliasing the buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a [*Decoder] reading from buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Position returns the offset of the next byte to read.
func (d *Decoder) Position() int {
	return d.pos
}

// Rest returns the unread bytes without consuming them.
func (d *Decoder) Rest() []byte {
	return d.buf[d.pos:]
}

// Skip consumes n bytes.
func (d *Decoder) Skip(n int) error {
	_, err := d.ReadBytesN(n)
	return err
}

// ReadByte consumes a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrUnderrun
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadBytesN consumes exactly n bytes and returns a view of them.
func (d *Decoder) ReadBytesN(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	if n > d.Remaining() {
		return nil, ErrUnderrun
	}
	b := d.buf[d.pos : d.pos+n : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadBool consumes one byte; any nonzero value is true.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	return b != 0, err
}

// ReadUint8 consumes one byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	return d.ReadByte()
}

// ReadInt8 consumes one byte.
func (d *Decoder) ReadInt8() (int8, error) {
	b, err := d.ReadByte()
	return int8(b), err
}

// ReadUint16 consumes a big-endian uint16.
func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.ReadBytesN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt16 consumes a big-endian int16.
func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

// ReadUint32 consumes a big-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.ReadBytesN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadInt32 consumes a big-endian int32.
func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

// ReadUint64 consumes a big-endian uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.ReadBytesN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadInt64 consumes a big-endian int64.
func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadFloat32 consumes a big-endian IEEE 754 float32.
func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 consumes a big-endian IEEE 754 float64.
func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadVarInt consumes a 32-bit VarInt.
func (d *Decoder) ReadVarInt() (int32, error) {
	return ReadVar[int32](d)
}

// ReadVarLong consumes a 64-bit VarInt.
func (d *Decoder) ReadVarLong() (int64, error) {
	return ReadVar[int64](d)
}

// readLength consumes a VarInt(i32) length prefix and checks that
// the remaining input can satisfy it.
func (d *Decoder) readLength() (int, error) {
	n, err := d.ReadVarInt()
	if err != nil {
		return 0, err
	}
	if n < 0 || int(n) > d.Remaining() {
		return 0, ErrInvalidLength
	}
	return int(n), nil
}

// ReadBytesView consumes a length-prefixed byte slice and returns a view
// aliasing the decoder buffer.
func (d *Decoder) ReadBytesView() ([]byte, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	return d.ReadBytesN(n)
}

// ReadBytes is like ReadBytesView but returns a copy.
func (d *Decoder) ReadBytes() ([]byte, error) {
	view, err := d.ReadBytesView()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

func (d *Decoder) readStringBytes() ([]byte, error) {
	view, err := d.ReadBytesView()
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(view) {
		return nil, ErrInvalidUTF8
	}
	return view, nil
}

// ReadString consumes a length-prefixed UTF-8 string and returns a copy.
func (d *Decoder) ReadString() (string, error) {
	view, err := d.readStringBytes()
	if err != nil {
		return "", err
	}
	return string(view), nil
}

// ReadStringView is like ReadString but the returned string shares memory
// with the decoder buffer. The string is only valid while the buffer is
// neither modified nor reused; use [strings.Clone] to keep it longer.
func (d *Decoder) ReadStringView() (string, error) {
	view, err := d.readStringBytes()
	if err != nil || len(view) == 0 {
		return "", err
	}
	return unsafe.String(&view[0], len(view)), nil
}

// ReadStringMax is like ReadString but fails with [ErrStringTooLong] when
// the string has more than maxChars characters.
func (d *Decoder) ReadStringMax(maxChars int) (string, error) {
	s, err := d.ReadString()
	if err != nil {
		return "", err
	}
	if maxChars > 0 && utf8.RuneCountInString(s) > maxChars {
		return "", ErrStringTooLong
	}
	return s, nil
}

// ReadField decodes v using its own decoding.
func (d *Decoder) ReadField(v FieldReader) error {
	return v.ReadField(d)
}
