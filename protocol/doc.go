// SPDX-License-Identifier: GPL-3.0-or-later

// Package protocol implements the field codecs packets are built from.
//
// # Wire Primitives
//
// The [Encoder] appends big-endian fixed-width numbers, booleans, VarInt
// values, length-prefixed strings and byte slices, UUIDs and counted
// sequences to a reusable buffer. The [Decoder] is the matching cursor
// over a byte slice. Decoding never reads past the end of the buffer:
// truncated input fails with [ErrUnderrun], lengths that cannot be
// satisfied fail with [ErrInvalidLength].
//
// # Borrowing
//
// The View variants ([*Decoder.ReadStringView], [*Decoder.ReadBytesView])
// return values aliasing the decoder buffer. They are valid as long as the
// buffer is neither reused nor modified. Use the copying variants when the
// value must outlive the buffer.
//
// # Packets
//
// [Marshal] and [Unmarshal] bind struct fields to the codecs in declaration
// order, driven by `mc` struct tags (see [Marshal] for the grammar).
// [Registry] dispatches on the VarInt packet id and [EncodePacket] produces
// the payload consumed by the transport write half.
package protocol
