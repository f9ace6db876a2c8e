// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"fmt"

	"github.com/bassosimone/runtimex"
)

// EncodePacket returns VarInt(id) followed by the [Marshal] encoding of v.
//
// The result is the payload consumed by the transport write half.
func EncodePacket(id int32, v any) ([]byte, error) {
	e := NewEncoder(VarSize(id) + SizeHint(v))
	e.WriteVarInt(id)
	if err := Marshal(e, v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Registry maps packet ids to factories of the packet types of one
// connection state and direction.
//
// Construct using [NewRegistry].
type Registry struct {
	factories map[int32]func() any
}

// NewRegistry returns an empty [*Registry].
func NewRegistry() *Registry {
	return &Registry{factories: make(map[int32]func() any)}
}

// Register binds id to factory, which must return a new pointer to struct
// on each call. Registering the same id twice panics.
func (r *Registry) Register(id int32, factory func() any) {
	_, found := r.factories[id]
	runtimex.Assert(!found && factory != nil)
	r.factories[id] = factory
}

// Decode reads the VarInt packet id from payload and unmarshals the rest
// into a new value from the matching factory.
//
// Returns an error wrapping [ErrUnknownPacket] for unregistered ids and
// [ErrTrailingData] when the packet does not consume the whole payload.
func (r *Registry) Decode(payload []byte) (int32, any, error) {
	d := NewDecoder(payload)
	id, err := d.ReadVarInt()
	if err != nil {
		return 0, nil, err
	}
	factory, found := r.factories[id]
	if !found {
		return id, nil, fmt.Errorf("%w: 0x%02x", ErrUnknownPacket, id)
	}
	packet := factory()
	if err := Unmarshal(d, packet); err != nil {
		return id, nil, err
	}
	if d.Remaining() > 0 {
		return id, nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, d.Remaining())
	}
	return id, packet, nil
}
