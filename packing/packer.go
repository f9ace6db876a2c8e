// SPDX-License-Identifier: GPL-3.0-or-later

package packing

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/bassosimone/mcwire/protocol"
	"github.com/klauspost/compress/zlib"
)

// DefaultScratchCapacity is the initial capacity of the compression buffer.
const DefaultScratchCapacity = 4096

// ErrFrameTooLarge indicates a frame whose length does not fit a VarInt(i32).
var ErrFrameTooLarge = errors.New("packing: frame too large")

// Packer builds frames, reusing a compression buffer and a zlib writer
// across calls.
//
// A Packer is not safe for concurrent use.
type Packer struct {
	scratch *bytes.Buffer
	zw      *zlib.Writer
	level   int
}

// NewPacker returns a [*Packer] with a [DefaultScratchCapacity] buffer.
func NewPacker() *Packer {
	return NewPackerWithCapacity(DefaultScratchCapacity)
}

// NewPackerWithCapacity returns a [*Packer] whose compression buffer
// initially has the given capacity. A non-positive capacity selects
// [DefaultScratchCapacity].
func NewPackerWithCapacity(capacity int) *Packer {
	if capacity <= 0 {
		capacity = DefaultScratchCapacity
	}
	return &Packer{scratch: bytes.NewBuffer(make([]byte, 0, capacity))}
}

// ScratchCapacity returns the current capacity of the compression buffer.
func (p *Packer) ScratchCapacity() int {
	return p.scratch.Cap()
}

// AppendFrame appends the frame carrying payload to dst.
//
// The layout depends on c as described in the package documentation.
// On error the returned slice is dst unchanged.
func (p *Packer) AppendFrame(dst, payload []byte, c *Compression) ([]byte, error) {
	n := len(payload)

	switch {
	case c == nil:
		if n > math.MaxInt32 {
			return dst, ErrFrameTooLarge
		}
		dst = protocol.AppendVar(dst, int32(n))

	case n < c.Threshold:
		if n >= math.MaxInt32 {
			return dst, ErrFrameTooLarge
		}
		dst = protocol.AppendVar(dst, int32(n+1))
		dst = append(dst, 0x00)

	default:
		if n > math.MaxInt32 {
			return dst, ErrFrameTooLarge
		}
		compressed, err := p.compress(payload, c.Level)
		if err != nil {
			return dst, err
		}
		total := len(compressed) + protocol.VarSize(int32(n))
		if total > math.MaxInt32 {
			return dst, ErrFrameTooLarge
		}
		dst = protocol.AppendVar(dst, int32(total))
		dst = protocol.AppendVar(dst, int32(n))
		return append(dst, compressed...), nil
	}

	return append(dst, payload...), nil
}

// compress returns the zlib stream of payload. The result aliases the
// scratch buffer and is valid until the next call.
func (p *Packer) compress(payload []byte, level int) ([]byte, error) {
	p.scratch.Reset()
	if p.zw == nil || p.level != level {
		zw, err := zlib.NewWriterLevel(p.scratch, level)
		if err != nil {
			return nil, fmt.Errorf("packing: %w", err)
		}
		p.zw, p.level = zw, level
	} else {
		p.zw.Reset(p.scratch)
	}
	if _, err := p.zw.Write(payload); err != nil {
		return nil, err
	}
	if err := p.zw.Close(); err != nil {
		return nil, err
	}
	return p.scratch.Bytes(), nil
}
