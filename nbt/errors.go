// SPDX-License-Identifier: GPL-3.0-or-later

package nbt

import "errors"

var (
	// ErrUnderrun indicates the input ended before the value was complete.
	ErrUnderrun = errors.New("nbt: unexpected end of input")

	// ErrInvalidTag indicates an unknown tag byte.
	ErrInvalidTag = errors.New("nbt: invalid tag")

	// ErrInvalidMUTF8 indicates a string that is not valid modified UTF-8.
	ErrInvalidMUTF8 = errors.New("nbt: invalid modified utf-8 string")

	// ErrInvalidLength indicates a negative length or count, or one that
	// would require reading past the end of the input.
	ErrInvalidLength = errors.New("nbt: invalid length")

	// ErrEndInList indicates a list with element tag End and a positive count.
	ErrEndInList = errors.New("nbt: TAG_End in List")

	// ErrStringTooLong indicates a string whose modified UTF-8 encoding
	// exceeds 65535 bytes.
	ErrStringTooLong = errors.New("nbt: string too long")

	// ErrArrayTooLong indicates an array or list with more than
	// math.MaxInt32 elements.
	ErrArrayTooLong = errors.New("nbt: array too long")

	// ErrTooDeep indicates nesting beyond [MaxDepth].
	ErrTooDeep = errors.New("nbt: nesting too deep")

	// ErrNilValue indicates a compound entry or list element without a value.
	ErrNilValue = errors.New("nbt: nil value")

	// ErrTrailingData indicates bytes left over after the root value.
	ErrTrailingData = errors.New("nbt: trailing data after value")
)
