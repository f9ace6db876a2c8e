// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

import (
	"unicode/utf16"
	"unicode/utf8"
)

// mutf8Len returns the length of the modified UTF-8 encoding of s.
func mutf8Len(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// appendMUTF8 appends the modified UTF-8 encoding of s. Invalid UTF-8
// sequences in s are written as U+FFFD.
func appendMUTF8(dst []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r == 0:
			dst = append(dst, 0xC0, 0x80)
		case r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = appendUnit2(dst, r)
		case r < 0x10000:
			dst = appendUnit3(dst, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			dst = appendUnit3(appendUnit3(dst, hi), lo)
		}
	}
	return dst
}

func appendUnit2(dst []byte, r rune) []byte {
	return append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
}

func appendUnit3(dst []byte, r rune) []byte {
	return append(dst, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

// isPlainMUTF8 returns whether b reads the same as modified UTF-8 and as
// UTF-8, which holds when every byte is in 0x01..0x7F.
func isPlainMUTF8(b []byte) bool {
	for _, c := range b {
		if c == 0 || c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// decodeMUTF8 decodes a modified UTF-8 byte sequence. Unpaired surrogates
// become U+FFFD.
func decodeMUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++

		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", ErrInvalidMUTF8
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2

		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", ErrInvalidMUTF8
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3

		default:
			return "", ErrInvalidMUTF8
		}
	}
	return string(utf16.Decode(units)), nil
}
