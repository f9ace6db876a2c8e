// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EncodePacket prefixes the fields with the VarInt packet id.
func TestEncodePacket(t *testing.T) {
	payload, err := EncodePacket(0x00, sampleHandshake())

	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x00}, sampleHandshakeBytes...), payload)
}

// EncodePacket reports field errors.
func TestEncodePacketError(t *testing.T) {
	_, err := EncodePacket(0x00, 42)

	require.ErrorIs(t, err, ErrUnsupportedType)
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(0x00, func() any { return &handshake{} })
	r.Register(0x03, func() any { return &animation{} })
	return r
}

// Decode dispatches on the packet id.
func TestRegistryDecode(t *testing.T) {
	r := newTestRegistry()

	id, pkt, err := r.Decode([]byte{0x03, 0x2a, 0x66})
	require.NoError(t, err)
	assert.Equal(t, int32(0x03), id)
	assert.Equal(t, &animation{EntityID: 42, Animation: AnimationUnknown}, pkt)

	payload, err := EncodePacket(0x00, sampleHandshake())
	require.NoError(t, err)
	id, pkt, err = r.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, int32(0x00), id)
	hs := sampleHandshake()
	assert.Equal(t, &hs, pkt)
}

// Decode rejects unknown ids, invalid payloads and trailing bytes.
func TestRegistryDecodeErrors(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Decode(nil)
	require.ErrorIs(t, err, ErrUnderrun)

	id, _, err := r.Decode([]byte{0x7f})
	require.ErrorIs(t, err, ErrUnknownPacket)
	assert.Equal(t, int32(0x7f), id)

	_, _, err = r.Decode([]byte{0x03, 0x2a, 0x32})
	require.ErrorIs(t, err, ErrInvalidEnum)

	_, _, err = r.Decode([]byte{0x03, 0x2a, 0x00, 0xff})
	require.ErrorIs(t, err, ErrTrailingData)
}

// Registering the same id twice is a programming error.
func TestRegistryRegisterTwice(t *testing.T) {
	r := newTestRegistry()

	assert.Panics(t, func() {
		r.Register(0x00, func() any { return &handshake{} })
	})
}
