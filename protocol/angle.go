// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import "math"

// Angle is a rotation in steps of 1/256 of a full turn, encoded as a
// single unsigned byte.
type Angle uint8

// AngleFromDegrees returns the [Angle] closest to deg, wrapping around
// full turns. Negative values count clockwise from zero.
func AngleFromDegrees(deg float64) Angle {
	steps := math.Round(deg * 256 / 360)
	return Angle(int64(math.Mod(steps, 256)) & 0xff)
}

// Degrees returns the rotation in degrees within [0, 360).
func (a Angle) Degrees() float64 {
	return float64(a) * 360 / 256
}
