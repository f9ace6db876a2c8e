// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import "errors"

var (
	// ErrUnderrun indicates the input ended before the value was complete.
	ErrUnderrun = errors.New("protocol: unexpected end of input")

	// ErrVarIntTooLong indicates a VarInt still signalling continuation
	// after the maximum number of bytes for its width.
	ErrVarIntTooLong = errors.New("protocol: varint too long")

	// ErrInvalidLength indicates a negative length or a length that would
	// require reading past the end of the input.
	ErrInvalidLength = errors.New("protocol: invalid length")

	// ErrInvalidUTF8 indicates a string field is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("protocol: invalid utf-8 string")

	// ErrInvalidUUID indicates a UUID field is not a valid UUID string.
	ErrInvalidUUID = errors.New("protocol: invalid uuid")

	// ErrStringTooLong indicates a string or byte slice exceeding the
	// maximum encodable (or configured) length.
	ErrStringTooLong = errors.New("protocol: string too long")

	// ErrCountTooLarge indicates a sequence whose element count does not
	// fit the configured count type.
	ErrCountTooLarge = errors.New("protocol: sequence count too large")

	// ErrInvalidEnum indicates a decoded discriminant outside the declared set.
	ErrInvalidEnum = errors.New("protocol: invalid enum id")

	// ErrUnknownPacket indicates a packet id with no registered decoder.
	ErrUnknownPacket = errors.New("protocol: unknown packet id")

	// ErrTrailingData indicates bytes left over after a packet was decoded.
	ErrTrailingData = errors.New("protocol: trailing data after packet")

	// ErrUnsupportedType indicates [Marshal] or [Unmarshal] was given a
	// type it cannot bind to a codec. This is a programming error.
	ErrUnsupportedType = errors.New("protocol: unsupported type")
)
