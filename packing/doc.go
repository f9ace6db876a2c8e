// SPDX-License-Identifier: GPL-3.0-or-later

// Package packing turns encoded packets into length-prefixed frames.
//
// Without compression a frame is VarInt(len(payload)) followed by the
// payload. Once compression is enabled every frame carries a second
// VarInt, the uncompressed data length, which is zero for payloads
// shorter than the threshold (sent as is) and the payload length for
// payloads sent zlib-compressed:
//
//	uncompressed:  VarInt(len(payload)+1)  0x00  payload
//	compressed:    VarInt(len(z)+VarSize(len(payload)))  VarInt(len(payload))  z
package packing
