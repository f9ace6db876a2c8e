// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnID(t *testing.T) {
	connID := NewConnID()

	parsed, err := uuid.Parse(connID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewConnIDUniqueness(t *testing.T) {
	const count = 100
	seen := make(map[string]struct{}, count)

	for range count {
		connID := NewConnID()
		_, duplicate := seen[connID]
		require.False(t, duplicate, "duplicate conn ID generated: %s", connID)
		seen[connID] = struct{}{}
	}
}
