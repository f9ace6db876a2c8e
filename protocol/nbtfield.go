// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"fmt"

	"github.com/bassosimone/mcwire/nbt"
)

// WriteNBT appends v as a nameless NBT value. A nil v is written as a
// single End tag, which is how packets represent an absent value.
func (e *Encoder) WriteNBT(v nbt.Value) (err error) {
	e.buf, err = nbt.AppendValue(e.buf, v)
	return
}

// ReadNBTView consumes a nameless NBT value. The result aliases the decoder
// buffer as described by [nbt.DecodeBorrowed].
func (d *Decoder) ReadNBTView() (nbt.Value, error) {
	v, n, err := nbt.DecodePrefix(d.Rest())
	if err != nil {
		return nil, err
	}
	d.pos += n
	return v, nil
}

// ReadNBT is like ReadNBTView but the result owns its memory.
func (d *Decoder) ReadNBT() (nbt.Value, error) {
	v, err := d.ReadNBTView()
	if err != nil {
		return nil, err
	}
	return nbt.Clone(v), nil
}

// readNBTCompound consumes an NBT value that must be either a compound or
// the End tag, in which case it returns a nil compound.
func (d *Decoder) readNBTCompound(borrow bool) (nbt.Compound, error) {
	read := d.ReadNBT
	if borrow {
		read = d.ReadNBTView
	}
	v, err := read()
	if err != nil || v == nil {
		return nil, err
	}
	c, ok := v.(nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("%w: want %s, got %s", nbt.ErrInvalidTag, nbt.TagCompound, v.Tag())
	}
	return c, nil
}
