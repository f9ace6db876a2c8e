// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"testing"

	"github.com/bassosimone/mcwire/nbt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NBT values embed as nameless tagged values followed by other fields.
func TestNBTField(t *testing.T) {
	value := nbt.Compound{{Name: "a", Value: nbt.ByteArray{1, 2}}}
	e := NewEncoder(0)

	require.NoError(t, e.WriteNBT(value))
	require.NoError(t, e.WriteNBT(nil))
	e.WriteUint8(0x42)

	want := []byte{
		0x0a, 0x07, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x02, 0x01, 0x02, 0x00,
		0x00,
		0x42,
	}
	assert.Equal(t, want, e.Bytes())

	d := NewDecoder(e.Bytes())
	borrowed, err := d.ReadNBTView()
	require.NoError(t, err)
	absent, err := d.ReadNBT()
	require.NoError(t, err)
	trailer, err := d.ReadUint8()
	require.NoError(t, err)

	assert.Equal(t, value, borrowed)
	assert.Nil(t, absent)
	assert.Equal(t, uint8(0x42), trailer)
}

// ReadNBT returns values that survive changes to the buffer.
func TestReadNBTOwned(t *testing.T) {
	buf := []byte{0x07, 0x00, 0x00, 0x00, 0x01, 0x05}

	v, err := NewDecoder(buf).ReadNBT()
	require.NoError(t, err)
	buf[5] = 0

	assert.Equal(t, nbt.ByteArray{5}, v)
}

// Malformed NBT does not advance the decoder.
func TestReadNBTError(t *testing.T) {
	d := NewDecoder([]byte{0x0a, 0x01})

	_, err := d.ReadNBT()

	require.ErrorIs(t, err, nbt.ErrUnderrun)
	assert.Equal(t, 0, d.Position())
}

// WriteNBT leaves the encoder unchanged on error.
func TestWriteNBTError(t *testing.T) {
	e := NewEncoder(0)
	e.WriteUint8(0x01)

	err := e.WriteNBT(nbt.Compound{{Name: "x"}})

	require.ErrorIs(t, err, nbt.ErrNilValue)
	assert.Equal(t, []byte{0x01}, e.Bytes())
}
