// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/bassosimone/mcwire/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// maxInputSize bounds the decompressed input.
const maxInputSize = 64 << 20

// dumpOptions contains the nbtdump flags.
type dumpOptions struct {
	// Compression is one of "auto", "gzip", "zlib" and "none".
	Compression string

	// Logger receives the decoding details.
	Logger *slog.Logger

	// Network selects the nameless root.
	Network bool
}

// dump decodes the NBT value read from r and writes its tree to w.
func dump(w io.Writer, r io.Reader, opts dumpOptions) error {
	br := bufio.NewReader(r)
	compression := opts.Compression
	if compression == "auto" {
		compression = detectCompression(br)
	}

	var input io.Reader
	switch compression {
	case "gzip":
		zr, err := gzip.NewReader(br)
		if err != nil {
			return err
		}
		defer zr.Close()
		input = zr
	case "zlib":
		zr, err := zlib.NewReader(br)
		if err != nil {
			return err
		}
		defer zr.Close()
		input = zr
	case "none":
		input = br
	default:
		return fmt.Errorf("unknown compression %q", opts.Compression)
	}

	buf, err := io.ReadAll(io.LimitReader(input, maxInputSize+1))
	if err != nil {
		return err
	}
	if len(buf) > maxInputSize {
		return fmt.Errorf("input larger than %d bytes", maxInputSize)
	}
	opts.Logger.Debug("nbtInput", slog.String("compression", compression), slog.Int("size", len(buf)))

	var (
		name  string
		value nbt.Value
	)
	if opts.Network {
		value, err = nbt.Decode(buf)
	} else {
		name, value, err = nbt.DecodeNamed(buf)
	}
	if err != nil {
		return err
	}
	return nbt.Dump(w, name, value)
}

// detectCompression peeks at the first bytes of br.
func detectCompression(br *bufio.Reader) string {
	magic, _ := br.Peek(2)
	switch {
	case bytes.HasPrefix(magic, []byte{0x1f, 0x8b}):
		return "gzip"
	case len(magic) == 2 && magic[0]&0x0f == 8 && (uint16(magic[0])<<8|uint16(magic[1]))%31 == 0:
		return "zlib"
	default:
		return "none"
	}
}
