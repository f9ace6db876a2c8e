// SPDX-License-Identifier: GPL-3.0-or-later

package packing

import (
	"strconv"

	"github.com/klauspost/compress/zlib"
)

// Compression configures compressed framing. A nil *Compression disables it.
type Compression struct {
	// Threshold is the payload size from which payloads are compressed.
	// A non-positive threshold compresses every payload.
	Threshold int

	// Level is the zlib compression level. Note that the zero value means
	// [zlib.NoCompression], which still produces compressed framing.
	Level int
}

// CompressionFromThreshold maps the threshold announced by the server to
// a [*Compression] using [zlib.DefaultCompression]. A negative threshold
// disables compression and returns nil.
func CompressionFromThreshold(threshold int32) *Compression {
	if threshold < 0 {
		return nil
	}
	return &Compression{Threshold: int(threshold), Level: zlib.DefaultCompression}
}

// String returns a short description suitable for logging.
func (c *Compression) String() string {
	if c == nil {
		return "disabled"
	}
	return "threshold=" + strconv.Itoa(c.Threshold)
}
