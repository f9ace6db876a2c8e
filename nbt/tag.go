// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

import "fmt"

// Tag identifies the shape of a [Value]. All multi-byte payloads are big endian.
type Tag byte

const (
	TagEnd       Tag = iota // No payload. Terminates a compound.
	TagByte                 // Signed 8-bit integer.
	TagShort                // Signed 16-bit integer.
	TagInt                  // Signed 32-bit integer.
	TagLong                 // Signed 64-bit integer.
	TagFloat                // IEEE 754 32-bit float.
	TagDouble               // IEEE 754 64-bit float.
	TagByteArray            // int32 size, then size bytes.
	TagString               // uint16 length, then length bytes of modified UTF-8.
	TagList                 // element tag, int32 count, then count untagged payloads.
	TagCompound             // { tag, name, payload }... TagEnd
	TagIntArray             // int32 size, then size int32 values.
	TagLongArray            // int32 size, then size int64 values.
)

// Valid returns whether t is one of the defined tags.
func (t Tag) Valid() bool {
	return t <= TagLongArray
}

func (t Tag) String() string {
	name := "Unknown"
	switch t {
	case TagEnd:
		name = "TAG_End"
	case TagByte:
		name = "TAG_Byte"
	case TagShort:
		name = "TAG_Short"
	case TagInt:
		name = "TAG_Int"
	case TagLong:
		name = "TAG_Long"
	case TagFloat:
		name = "TAG_Float"
	case TagDouble:
		name = "TAG_Double"
	case TagByteArray:
		name = "TAG_Byte_Array"
	case TagString:
		name = "TAG_String"
	case TagList:
		name = "TAG_List"
	case TagCompound:
		name = "TAG_Compound"
	case TagIntArray:
		name = "TAG_Int_Array"
	case TagLongArray:
		name = "TAG_Long_Array"
	}
	return fmt.Sprintf("%s (0x%02x)", name, byte(t))
}

// minPayloadSize returns the smallest number of bytes a payload of
// the given tag occupies, used to bound counts before allocating.
func minPayloadSize(t Tag) int {
	switch t {
	case TagByte, TagCompound:
		return 1
	case TagShort, TagString:
		return 2
	case TagInt, TagFloat, TagByteArray, TagIntArray, TagLongArray:
		return 4
	case TagList:
		return 5
	case TagLong, TagDouble:
		return 8
	default:
		return 0
	}
}
