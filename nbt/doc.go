// SPDX-License-Identifier: GPL-3.0-or-later

// Package nbt implements the Named Binary Tag format used for structured
// payloads embedded in packets.
//
// A [Value] is encoded as one [Tag] byte followed by a tag-specific payload.
// [Compound] and [List] are the recursive cases: a compound is a sequence
// of (tag, name, payload) entries terminated by [TagEnd], a list is a single
// element tag, a big-endian int32 count and the element payloads.
//
// Strings use modified UTF-8: the NUL character is written as 0xC0 0x80 and
// supplementary characters as a pair of three-byte surrogates.
//
// [Decode] returns values owning their memory. [DecodeBorrowed] returns
// values whose byte arrays, byte lists and plain ASCII strings alias the
// input buffer; [Clone] turns such a value into an owned one.
package nbt
