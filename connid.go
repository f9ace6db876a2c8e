// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewConnID returns a UUIDv7 identifying a connection in log events.
//
// UUIDv7 values sort by creation time, so the IDs of a log file also
// order connections by when they were set up.
//
// This function panics if the system random number generator fails.
func NewConnID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
