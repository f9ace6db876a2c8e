// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AngleFromDegrees maps degrees to steps of 1/256 turn.
func TestAngleFromDegrees(t *testing.T) {
	cases := []struct {
		// deg is the input rotation
		deg float64

		// want is the expected angle
		want Angle
	}{
		{0, 0},
		{90, 64},
		{180, 128},
		{359, 255},
		{360, 0},
		{450, 64},
		{-90, 192},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, AngleFromDegrees(tc.deg), "%v degrees", tc.deg)
	}
	assert.Equal(t, 270.0, Angle(192).Degrees())
}

// Angle fields are a single byte.
func TestMarshalAngle(t *testing.T) {
	type rotation struct {
		Yaw   Angle
		Pitch Angle
	}
	in := rotation{Yaw: 64, Pitch: 255}

	e := NewEncoder(0)
	require.NoError(t, Marshal(e, in))
	assert.Equal(t, []byte{0x40, 0xff}, e.Bytes())

	var out rotation
	require.NoError(t, Unmarshal(NewDecoder(e.Bytes()), &out))
	assert.Equal(t, in, out)
}
