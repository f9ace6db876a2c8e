// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed-width readers mirror the encoder.
func TestDecoderFixedWidth(t *testing.T) {
	d := NewDecoder([]byte{
		0x02,
		0xff,
		0x01, 0x02,
		0xff, 0xff, 0xff, 0xfe,
		0, 0, 0, 0, 0, 0, 0, 0x01,
		0x3f, 0x80, 0x00, 0x00,
		0xc0, 0, 0, 0, 0, 0, 0, 0,
	})

	b, err := d.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	i8, err := d.ReadInt8()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)

	u16, err := d.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), u16)

	i32, err := d.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	i64, err := d.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), i64)

	f32, err := d.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1), f32)

	f64, err := d.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, float64(-2), f64)

	assert.Equal(t, 0, d.Remaining())
	_, err = d.ReadUint8()
	require.ErrorIs(t, err, ErrUnderrun)
}

// Truncated fixed-width values fail without consuming input.
func TestDecoderUnderrun(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x02, 0x03})

	_, err := d.ReadUint32()
	require.ErrorIs(t, err, ErrUnderrun)
	assert.Equal(t, 0, d.Position())

	_, err = d.ReadBytesN(-1)
	require.ErrorIs(t, err, ErrInvalidLength)
	require.NoError(t, d.Skip(3))
	require.ErrorIs(t, d.Skip(1), ErrUnderrun)
}

// String decoding validates lengths and UTF-8.
func TestDecoderStringErrors(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		want  error
	}{
		{"negative length", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, ErrInvalidLength},
		{"length beyond input", []byte{0x05, 'a'}, ErrInvalidLength},
		{"invalid utf-8", []byte{0x02, 0xff, 0xfe}, ErrInvalidUTF8},
		{"truncated prefix", []byte{0x80}, ErrUnderrun},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDecoder(tc.input).ReadString()
			require.ErrorIs(t, err, tc.want)

			_, err = NewDecoder(tc.input).ReadStringView()
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// ReadString copies while ReadStringView aliases the buffer.
func TestDecoderStringBorrowing(t *testing.T) {
	buf := []byte{0x02, 'h', 'i', 0x02, 'h', 'i'}
	d := NewDecoder(buf)

	owned, err := d.ReadString()
	require.NoError(t, err)
	view, err := d.ReadStringView()
	require.NoError(t, err)

	buf[1], buf[4] = 'x', 'x'

	assert.Equal(t, "hi", owned)
	assert.Equal(t, "xi", view)
}

// ReadStringView of an empty string does not touch the buffer.
func TestDecoderEmptyStringView(t *testing.T) {
	s, err := NewDecoder([]byte{0x00}).ReadStringView()

	require.NoError(t, err)
	assert.Equal(t, "", s)
}

// ReadStringMax rejects strings with too many characters.
func TestDecoderStringMax(t *testing.T) {
	buf := []byte{0x06, 'h', 0xc3, 0xa9, 'l', 'l', 'o'}

	s, err := NewDecoder(buf).ReadStringMax(5)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = NewDecoder(buf).ReadStringMax(4)
	require.ErrorIs(t, err, ErrStringTooLong)
}

// ReadBytes copies while ReadBytesView aliases the buffer.
func TestDecoderBytes(t *testing.T) {
	buf := []byte{0x01, 0xaa, 0x01, 0xbb}
	d := NewDecoder(buf)

	owned, err := d.ReadBytes()
	require.NoError(t, err)
	view, err := d.ReadBytesView()
	require.NoError(t, err)

	buf[1], buf[3] = 0, 0

	assert.Equal(t, []byte{0xaa}, owned)
	assert.Equal(t, []byte{0x00}, view)
	assert.Empty(t, d.Rest())
}
