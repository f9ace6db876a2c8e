// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

// FieldWriter is implemented by types providing their own wire encoding.
//
// WriteField appends the encoding of the receiver to the [*Encoder] and
// returns a typed error (e.g., [ErrStringTooLong]) when the value cannot
// be represented on the wire.
type FieldWriter interface {
	WriteField(e *Encoder) error
}

// FieldReader is implemented by pointer types providing their own wire decoding.
//
// ReadField consumes exactly the bytes of one value from the [*Decoder].
// Implementations may keep references into the decoder buffer, in which
// case the decoded value must not outlive the buffer.
type FieldReader interface {
	ReadField(d *Decoder) error
}

// SizeHinter is implemented by types that know the likely size of their encoding.
//
// The hint is only used to pre-size buffers and never affects correctness.
type SizeHinter interface {
	SizeHint() int
}
