// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultEncoderCapacity is the capacity used by [NewEncoder] when the
// caller passes a non-positive capacity.
const DefaultEncoderCapacity = 256

// Encoder appends wire encoded fields to an internal buffer.
//
// The zero value is ready to use.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an [*Encoder] whose buffer has the given capacity.
func NewEncoder(capacity int) *Encoder {
	if capacity <= 0 {
		capacity = DefaultEncoderCapacity
	}
	return &Encoder{buf: make([]byte, 0, capacity)}
}

// Bytes returns the encoded bytes.
//
// The slice is valid until the next call to Reset or to any Write method.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset empties the encoder retaining the underlying storage.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// WriteRaw appends b without any length prefix.
func (e *Encoder) WriteRaw(b []byte) {
	e.buf = append(e.buf, b...)
}

// WriteBool appends 0x01 for true and 0x00 for false.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf = append(e.buf, 0x01)
		return
	}
	e.buf = append(e.buf, 0x00)
}

// WriteUint8 appends a single byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf = append(e.buf, v)
}

// WriteInt8 appends a single byte.
func (e *Encoder) WriteInt8(v int8) {
	e.buf = append(e.buf, byte(v))
}

// WriteUint16 appends v in big-endian byte order.
func (e *Encoder) WriteUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

// WriteInt16 appends v in big-endian byte order.
func (e *Encoder) WriteInt16(v int16) {
	e.WriteUint16(uint16(v))
}

// WriteUint32 appends v in big-endian byte order.
func (e *Encoder) WriteUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

// WriteInt32 appends v in big-endian byte order.
func (e *Encoder) WriteInt32(v int32) {
	e.WriteUint32(uint32(v))
}

// WriteUint64 appends v in big-endian byte order.
func (e *Encoder) WriteUint64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}

// WriteInt64 appends v in big-endian byte order.
func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

// WriteFloat32 appends the IEEE 754 bits of v in big-endian byte order.
func (e *Encoder) WriteFloat32(v float32) {
	e.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends the IEEE 754 bits of v in big-endian byte order.
func (e *Encoder) WriteFloat64(v float64) {
	e.WriteUint64(math.Float64bits(v))
}

// WriteVarInt appends v as a 32-bit VarInt.
func (e *Encoder) WriteVarInt(v int32) {
	e.buf = AppendVar(e.buf, v)
}

// WriteVarLong appends v as a 64-bit VarInt.
func (e *Encoder) WriteVarLong(v int64) {
	e.buf = AppendVar(e.buf, v)
}

// writeLength appends a VarInt(i32) length prefix, failing with
// [ErrStringTooLong] when n does not fit the prefix.
func (e *Encoder) writeLength(n int) error {
	if n < 0 || int64(n) > math.MaxInt32 {
		return ErrStringTooLong
	}
	e.WriteVarInt(int32(n))
	return nil
}

// WriteString appends VarInt(byte length) followed by the UTF-8 bytes of s.
//
// Returns [ErrStringTooLong] when the length does not fit a VarInt(i32).
func (e *Encoder) WriteString(s string) error {
	if err := e.writeLength(len(s)); err != nil {
		return err
	}
	e.buf = append(e.buf, s...)
	return nil
}

// WriteStringMax is like WriteString but also fails with [ErrStringTooLong]
// when s has more than maxChars characters.
func (e *Encoder) WriteStringMax(s string, maxChars int) error {
	if maxChars > 0 && utf8.RuneCountInString(s) > maxChars {
		return ErrStringTooLong
	}
	return e.WriteString(s)
}

// WriteBytes appends VarInt(length) followed by b.
func (e *Encoder) WriteBytes(b []byte) error {
	if err := e.writeLength(len(b)); err != nil {
		return err
	}
	e.buf = append(e.buf, b...)
	return nil
}

// WriteUUID appends id as a length-prefixed 36-character lowercase
// hyphenated string.
func (e *Encoder) WriteUUID(id uuid.UUID) {
	e.WriteVarInt(UUIDStringLen)
	e.buf = append(e.buf, id.String()...)
}

// WriteField appends v using its own encoding.
func (e *Encoder) WriteField(v FieldWriter) error {
	return v.WriteField(e)
}
